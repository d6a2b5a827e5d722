package interp

import (
	"fmt"

	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/runtime"
)

// makeFunction closes a declared function over the scope it was
// declared in (invariant (iii), spec §3).
func (i *Interp) makeFunction(s *ast.FnDecl, scope *runtime.Scope) *runtime.Function {
	tok := s.Tok()
	return &runtime.Function{
		Name:           s.Name,
		Params:         s.Params,
		TemplateParams: s.TemplateParams,
		ReturnType:     s.ReturnType,
		Body:           s.Body,
		DeclScope:      scope,
		IsAsync:        s.IsAsync,
		Tok:            &tok,
	}
}

func (i *Interp) makeArrow(e *ast.Arrow, scope *runtime.Scope) *runtime.Function {
	tok := e.Tok()
	return &runtime.Function{
		Name:       "",
		Params:     e.Params,
		ReturnType: e.ReturnType,
		Body:       e.Body,
		DeclScope:  scope,
		IsAsync:    e.IsAsync,
		Tok:        &tok,
	}
}

func (i *Interp) evalCall(e *ast.Call, scope *runtime.Scope) (runtime.Value, error) {
	var this runtime.Value
	if ma, ok := e.Callee.(*ast.MemberAccess); ok {
		obj, fn, err := i.lookupMember(ma, scope)
		if err != nil {
			return nil, err
		}
		this = obj
		return i.invoke(fn, e.Args, scope, this, e)
	}

	callee, err := i.evalExpr(e.Callee, scope)
	if err != nil {
		return nil, err
	}
	return i.invoke(callee, e.Args, scope, nil, e)
}

// Invoke calls a runtime callable (a user Function or a NativeFn) from
// Go code with no enclosing call expression — used by stdlib modules
// that accept script callbacks (e.g. http.listen's request handler,
// prbtest's registered test functions) without those modules needing
// to import internal/interp themselves.
func (i *Interp) Invoke(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch f := fn.(type) {
	case *runtime.Function:
		return i.callFunction(f, args, nil)
	case *runtime.NativeFn:
		return f.Fn(args, nil)
	default:
		return nil, fmt.Errorf("value is not callable")
	}
}

func (i *Interp) evalTemplateCall(e *ast.TemplateCall, scope *runtime.Scope) (runtime.Value, error) {
	// Template arguments are type-only at runtime (spec §4.10); the
	// interpreter ignores them and evaluates the callee plainly.
	return i.evalExpr(e.Callee, scope)
}

func (i *Interp) invoke(callee runtime.Value, argExprs []ast.Expression, scope *runtime.Scope, this runtime.Value, site ast.Node) (runtime.Value, error) {
	args := make([]runtime.Value, len(argExprs))
	for idx, a := range argExprs {
		v, err := i.evalExpr(a, scope)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	switch fn := callee.(type) {
	case *runtime.NativeFn:
		return fn.Fn(args, this)
	case *runtime.Function:
		return i.callFunction(fn, args, this)
	default:
		return nil, runtimeErrorAt(errors.FunctionCallError, site.Tok(), "value is not callable")
	}
}

// callFunction binds parameters (applying defaults where an argument is
// missing), runs the body in a scope parented to the function's
// DeclScope (not the caller's — closures capture lexically, spec §3),
// and unwraps a ReturnSignal into its value. If fn.IsAsync, the body
// instead runs on a background goroutine and callFunction returns
// immediately with a Future (spec §4.9).
func (i *Interp) callFunction(fn *runtime.Function, args []runtime.Value, this runtime.Value) (runtime.Value, error) {
	if fn.IsAsync {
		return i.spawnAsync(fn, args, this), nil
	}
	return i.runFunctionBody(fn, args, this)
}

func (i *Interp) runFunctionBody(fn *runtime.Function, args []runtime.Value, this runtime.Value) (runtime.Value, error) {
	callScope := fn.DeclScope.NewChild()
	if this != nil {
		callScope.Declare("this", this)
	}

	for idx, p := range fn.Params {
		var v runtime.Value
		if idx < len(args) {
			v = args[idx]
		} else if p.Default != nil {
			dv, err := i.evalExpr(p.Default, callScope)
			if err != nil {
				return nil, err
			}
			v = dv
		} else {
			v = runtime.NewUndef()
		}
		callScope.Declare(p.Name, v)
	}

	for _, stmt := range fn.Body {
		if _, err := i.evalStmt(stmt, callScope); err != nil {
			if ret, ok := err.(*ReturnSignal); ok {
				return ret.Value, nil
			}
			return nil, err
		}
	}
	return runtime.NewUndef(), nil
}

// CallProbe constructs probe through constructProbe (the same
// inheritance-walking path `new` uses, in `class.go`) and then invokes
// the instance's `run` method with args (spec §4.7/§4.8).
func (i *Interp) CallProbe(probe *runtime.Probe, args []runtime.Value) (runtime.Value, error) {
	this, err := i.constructProbe(probe, args)
	if err != nil {
		return nil, err
	}
	return i.runProbeEntry(this, args)
}
