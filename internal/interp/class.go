package interp

import (
	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/token"
)

// evalNew implements `new Ctor(args)` (spec §4.6 step 1): a NativeClass
// constructor bypasses the body-walking protocol entirely and simply
// invokes its Go closure; a Class or Probe value goes through
// constructClass/constructProbe.
func (i *Interp) evalNew(e *ast.New, scope *runtime.Scope) (runtime.Value, error) {
	ctorVal, err := i.evalExpr(e.Constructor, scope)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, len(e.Args))
	for idx, a := range e.Args {
		v, err := i.evalExpr(a, scope)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	switch ctor := ctorVal.(type) {
	case *runtime.NativeClass:
		return ctor.New(args)
	case *runtime.Class:
		return i.constructClass(ctor, args)
	case *runtime.Probe:
		this, err := i.constructProbe(ctor, args)
		if err != nil {
			return nil, err
		}
		return i.runProbeEntry(this, args)
	default:
		return nil, runtimeErrorAt(errors.ConstructorError, e.Tok(), "%s is not a class or probe", ctorVal.Kind())
	}
}

// constructClass implements the class construction protocol (spec
// §4.6): a fresh `this` object, root-first superclass application
// (each level's members bound directly onto the shared `this`, its
// `new` method captured as `super` for the next level down), then the
// class's own body, then its own `new` invoked if present.
func (i *Interp) constructClass(cls *runtime.Class, args []runtime.Value) (runtime.Value, error) {
	this := runtime.NewObject()
	this.Tok = cls.Tok

	if cls.Extends != nil {
		if err := i.applyClassInheritance(cls.Extends, cls.DeclScope, this); err != nil {
			return nil, err
		}
	}

	bodyScope := cls.DeclScope.NewChild()
	bodyScope.Declare("this", this)
	if superNew, ok := this.Props_["new"]; ok {
		bodyScope.Declare("super", superNew)
	}
	if err := i.walkMembersInto(cls.Body, bodyScope, this, errors.ClassBodyError); err != nil {
		return nil, err
	}

	if newFn, ok := this.Props_["new"]; ok {
		if fn, ok := newFn.(*runtime.Function); ok {
			if _, err := i.runFunctionBody(fn, args, this); err != nil {
				return nil, err
			}
		}
	}
	return this, nil
}

// applyClassInheritance recursively applies a class's superclass chain
// root-first: the topmost ancestor's members land on `this` first, so
// each subsequent level's same-named members (including `new`) shadow
// the one below it exactly as later assignment would.
func (i *Interp) applyClassInheritance(extends ast.Expression, declScope *runtime.Scope, this *runtime.Object) error {
	supVal, err := i.evalExpr(extends, declScope)
	if err != nil {
		return err
	}

	switch sup := supVal.(type) {
	case *runtime.NativeClass:
		obj, err := sup.New(nil)
		if err != nil {
			return err
		}
		if p, ok := obj.(runtime.Props); ok {
			for k, v := range p.Properties() {
				this.Props_[k] = v
			}
		}
		return nil
	case *runtime.Class:
		if sup.Extends != nil {
			if err := i.applyClassInheritance(sup.Extends, sup.DeclScope, this); err != nil {
				return err
			}
		}
		supScope := sup.DeclScope.NewChild()
		supScope.Declare("this", this)
		if superNew, ok := this.Props_["new"]; ok {
			supScope.Declare("super", superNew)
		}
		return i.walkMembersInto(sup.Body, supScope, this, errors.ClassBodyError)
	default:
		return runtimeErrorAt(errors.ClassInheritanceError, extends.Tok(), "a class may only extend a class or a native class")
	}
}

// constructProbe mirrors constructClass but restricts the superclass
// chain to probes and native classes (spec §4.7) and leaves invoking
// the resulting `run` method to the caller (runProbeEntry), since `new`
// on a probe and CallProbe's Normal-mode entry both need the object
// before running it.
func (i *Interp) constructProbe(probe *runtime.Probe, args []runtime.Value) (*runtime.Object, error) {
	this := runtime.NewObject()
	this.Tok = probe.Tok

	if probe.Extends != nil {
		if err := i.applyProbeInheritance(probe.Extends, probe.DeclScope, this); err != nil {
			return nil, err
		}
	}

	bodyScope := probe.DeclScope.NewChild()
	bodyScope.Declare("this", this)
	if superRun, ok := this.Props_["run"]; ok {
		bodyScope.Declare("super", superRun)
	}
	if err := i.walkMembersInto(probe.Body, bodyScope, this, errors.ProbeBodyError); err != nil {
		return nil, err
	}
	return this, nil
}

func (i *Interp) applyProbeInheritance(extends ast.Expression, declScope *runtime.Scope, this *runtime.Object) error {
	supVal, err := i.evalExpr(extends, declScope)
	if err != nil {
		return err
	}

	switch sup := supVal.(type) {
	case *runtime.NativeClass:
		obj, err := sup.New(nil)
		if err != nil {
			return err
		}
		if p, ok := obj.(runtime.Props); ok {
			for k, v := range p.Properties() {
				this.Props_[k] = v
			}
		}
		return nil
	case *runtime.Probe:
		if sup.Extends != nil {
			if err := i.applyProbeInheritance(sup.Extends, sup.DeclScope, this); err != nil {
				return err
			}
		}
		supScope := sup.DeclScope.NewChild()
		supScope.Declare("this", this)
		if superRun, ok := this.Props_["run"]; ok {
			supScope.Declare("super", superRun)
		}
		return i.walkMembersInto(sup.Body, supScope, this, errors.ProbeBodyError)
	default:
		return runtimeErrorAt(errors.ProbeInheritanceError, extends.Tok(), "a probe may only extend a probe or a native class")
	}
}

// runProbeEntry looks up and invokes the probe instance's `run` method
// (the parser renames a probe's self-named method to "run").
func (i *Interp) runProbeEntry(this *runtime.Object, args []runtime.Value) (runtime.Value, error) {
	runVal, ok := this.Props_["run"]
	if !ok {
		return nil, runtimeErrorAt(errors.ProbeError, *this.Tok, "probe has no run method")
	}
	fn, ok := runVal.(*runtime.Function)
	if !ok {
		return nil, runtimeErrorAt(errors.ProbeError, *this.Tok, "probe's run member is not a function")
	}
	return i.runFunctionBody(fn, args, this)
}

// walkMembersInto binds a class/probe body's VarDecl/FnDecl/plain-
// assignment members directly onto `this`'s property map (spec
// §4.6/§4.7). Any other statement kind violates invariant (iv); the
// checker normally rejects this ahead of time, but the interpreter
// re-validates defensively for programs run without type-checking.
func (i *Interp) walkMembersInto(body []ast.Statement, bodyScope *runtime.Scope, this *runtime.Object, badMemberKind errors.Kind) error {
	for _, member := range body {
		switch m := member.(type) {
		case *ast.VarDecl:
			var v runtime.Value = runtime.NewUndef()
			if m.Value != nil {
				val, err := i.evalExpr(m.Value, bodyScope)
				if err != nil {
					return err
				}
				v = val
			}
			this.Props_[m.Name] = v
		case *ast.FnDecl:
			this.Props_[m.Name] = i.makeFunction(m, bodyScope)
		case *ast.ExprStmt:
			assign, ok := m.Expr.(*ast.Assign)
			if !ok || assign.Op != token.ASSIGN {
				return runtimeErrorAt(badMemberKind, m.Tok(), "invalid member in class/probe body")
			}
			v, err := i.evalExpr(assign.Value, bodyScope)
			if err != nil {
				return err
			}
			this.Props_[assign.Target.Name] = v
		default:
			return runtimeErrorAt(badMemberKind, member.Tok(), "invalid member in class/probe body")
		}
	}
	return nil
}
