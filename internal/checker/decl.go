package checker

import (
	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/token"
	"github.com/slurpy-films/probescript/internal/types"
)

// checkFnDecl builds a Function type from s, declares it in scope under
// its name, and checks its body. selfType, when non-nil, is the
// enclosing class/probe type, made available as `this` inside the
// method body (spec §4.6/§4.7). Without a return annotation the
// function's return type is Any.
func (c *Checker) checkFnDecl(s *ast.FnDecl, scope *types.Scope, selfType *types.Type) (*types.Type, error) {
	fnScope := scope.NewChild()
	for _, tp := range s.TemplateParams {
		fnScope.DeclareForce(tp, &types.Type{Kind: types.Any, Name: tp, TemplateSubstitutable: true})
	}

	params := make([]types.Param, len(s.Params))
	for i, p := range s.Params {
		pt := types.NewAny()
		if p.TypeAnn != nil {
			t, err := c.resolveTypeExpr(p.TypeAnn, fnScope)
			if err != nil {
				return nil, err
			}
			pt = t
		}
		params[i] = types.Param{Ident: p.Name, Type: pt, HasDefault: p.HasDefault}
		fnScope.DeclareForce(p.Name, pt)
	}

	retType := types.NewAny()
	if s.ReturnType != nil {
		t, err := c.resolveTypeExpr(s.ReturnType, fnScope)
		if err != nil {
			return nil, err
		}
		retType = t
	}

	fnType := types.NewFunction(params, retType, s.IsAsync)
	fnType.TemplateParams = s.TemplateParams
	fnType.SourceNode = s
	fnType.DeclScope = fnScope

	if selfType != nil {
		fnScope.DeclareForce("this", selfType)
		if selfType.Parent != nil {
			if superType := lookupSuperType(selfType.Parent, selfType.Kind); superType != nil {
				fnScope.DeclareForce("super", superType)
			}
		}
	} else {
		if err := scope.Declare(s.Name, fnType); err != nil {
			return nil, errors.New(errors.RedefinitionError, s.Tok(), "%s", err.Error())
		}
		fnScope.DeclareForce(s.Name, fnType) // allow recursion
	}

	c.retStack = append(c.retStack, fnType.ReturnType)
	for _, stmt := range s.Body {
		if _, err := c.checkStmt(stmt, fnScope); err != nil {
			c.retStack = c.retStack[:len(c.retStack)-1]
			return nil, err
		}
	}
	c.retStack = c.retStack[:len(c.retStack)-1]

	return fnType, nil
}

func (c *Checker) checkClassDecl(s *ast.ClassDecl, scope *types.Scope) (*types.Type, error) {
	classType, err := c.checkClassLike(s.Name, s.Extends, s.Body, scope, types.Class)
	if err != nil {
		return nil, err
	}
	if err := scope.Declare(s.Name, classType); err != nil {
		return nil, errors.New(errors.ClassInheritanceError, s.Tok(), "%s", err.Error())
	}
	return classType, nil
}

// checkProbeDecl checks a probe the same way as a class; its `run`
// method (the renamed self-named method, done by the parser) is an
// ordinary method from the checker's point of view (spec §4.7).
func (c *Checker) checkProbeDecl(s *ast.ProbeDecl, scope *types.Scope) (*types.Type, error) {
	probeType, err := c.checkClassLike(s.Name, s.Extends, s.Body, scope, types.Probe)
	if err != nil {
		return nil, err
	}
	if err := scope.Declare(s.Name, probeType); err != nil {
		return nil, errors.New(errors.ProbeInheritanceError, s.Tok(), "%s", err.Error())
	}
	return probeType, nil
}

// checkClassLike implements the shared class/probe checking algorithm
// (spec §4.6/§4.7): resolve the superclass first (root-first
// application), collect every VarDecl/FnDecl member into a property map
// in a first pass so methods can reference sibling members regardless
// of declaration order, then re-walk FnDecl bodies with `this` (and
// `super`, if any) bound to the resulting instance-shaped type.
//
// invariant (iv) — a class/probe body may contain only VarDecl, FnDecl,
// and plain-assignment ExprStmt members — is enforced here: any other
// statement kind is rejected with a ClassBodyError/ProbeBodyError.
func (c *Checker) checkClassLike(name string, extends ast.Expression, body []ast.Statement, scope *types.Scope, kind types.Kind) (*types.Type, error) {
	bodyErrKind := errors.ClassBodyError
	if kind == types.Probe {
		bodyErrKind = errors.ProbeBodyError
	}

	var parent *types.Type
	if extends != nil {
		t, err := c.checkExpr(extends, scope)
		if err != nil {
			return nil, err
		}
		if t.Kind != types.Class && t.Kind != types.Probe && t.Kind != types.Any {
			return nil, errors.New(errors.ClassInheritanceError, extends.Tok(), "%s is not a class or probe", t)
		}
		parent = t
	}

	selfType := &types.Type{Kind: kind, Name: name, TypeName: name, Props: map[string]*types.Type{}, Parent: parent}

	// first pass: collect member shapes without fully checking method
	// bodies, so forward references between sibling members resolve.
	for _, member := range body {
		switch m := member.(type) {
		case *ast.VarDecl:
			t := types.NewAny()
			if m.TypeAnn != nil {
				rt, err := c.resolveTypeExpr(m.TypeAnn, scope)
				if err == nil {
					t = rt
				}
			} else if m.Value != nil {
				if vt, err := c.checkExpr(m.Value, scope); err == nil {
					t = vt
				}
			}
			selfType.Props[m.Name] = t
		case *ast.FnDecl:
			selfType.Props[m.Name] = placeholderFnType(m)
		case *ast.ExprStmt:
			if a, ok := m.Expr.(*ast.Assign); !ok || a.Op != token.ASSIGN {
				return nil, errors.New(bodyErrKind, m.Tok(), "invalid member in class/probe body")
			}
		default:
			return nil, errors.New(bodyErrKind, member.Tok(), "invalid member in class/probe body")
		}
	}

	// second pass: check each member's body for real, with `this`/`super`
	// and sibling members all visible.
	for _, member := range body {
		switch m := member.(type) {
		case *ast.VarDecl:
			memberScope := scope.NewChild()
			memberScope.DeclareForce("this", selfType)
			if parent != nil {
				if superType := lookupSuperType(parent, kind); superType != nil {
					memberScope.DeclareForce("super", superType)
				}
			}
			if m.Value != nil {
				if _, err := c.checkExpr(m.Value, memberScope); err != nil {
					return nil, err
				}
			}
		case *ast.FnDecl:
			if _, err := c.checkFnDecl(m, scope, selfType); err != nil {
				return nil, err
			}
		case *ast.ExprStmt:
			memberScope := scope.NewChild()
			memberScope.DeclareForce("this", selfType)
			if parent != nil {
				if superType := lookupSuperType(parent, kind); superType != nil {
					memberScope.DeclareForce("super", superType)
				}
			}
			if _, err := c.checkExpr(m.Expr, memberScope); err != nil {
				return nil, err
			}
		}
	}

	return selfType, nil
}

// superMethodName names the method a subclass's `super` call reaches:
// a class's constructor ("new") or a probe's entry method ("run",
// the parser's renaming of a probe's self-named method).
func superMethodName(kind types.Kind) string {
	if kind == types.Probe {
		return "run"
	}
	return "new"
}

// lookupSuperType resolves the Function type that `super(...)` calls
// against: it walks the parent chain the way the interpreter's
// accumulated `this.Props_` would (constructClass/constructProbe apply
// ancestors root-first, so the nearest ancestor that defines new/run
// wins), returning nil if no ancestor defines one at all — matching the
// interpreter only binding `super` when that lookup succeeds. A dynamic
// (Any-typed) ancestor can't be inspected statically, so it resolves to
// Any rather than failing the call outright.
func lookupSuperType(parent *types.Type, kind types.Kind) *types.Type {
	name := superMethodName(kind)
	for cur := parent; cur != nil; cur = cur.Parent {
		if cur.Kind == types.Any {
			return types.NewAny()
		}
		if t, ok := cur.Props[name]; ok {
			return t
		}
	}
	return nil
}

// placeholderFnType builds a method's Function type from its signature
// alone (no body check), used by checkClassLike's first pass.
func placeholderFnType(m *ast.FnDecl) *types.Type {
	params := make([]types.Param, len(m.Params))
	for i, p := range m.Params {
		params[i] = types.Param{Ident: p.Name, Type: types.NewAny(), HasDefault: p.HasDefault}
	}
	fn := types.NewFunction(params, types.NewAny(), m.IsAsync)
	fn.TemplateParams = m.TemplateParams
	return fn
}

// resolveTypeExpr interprets an Expression appearing in type-annotation
// position (spec §4.10; the grammar does not have a distinct type
// syntax — see internal/ast's note on ast.go).
func (c *Checker) resolveTypeExpr(expr ast.Expression, scope *types.Scope) (*types.Type, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		switch e.Name {
		case "num":
			return types.NewNumber(), nil
		case "str":
			return types.NewString(), nil
		case "bool":
			return types.NewBool(), nil
		case "any":
			return types.NewAny(), nil
		case "array":
			return types.NewArray(), nil
		case "object":
			return types.NewObject(), nil
		case "undefined":
			return types.NewUndef(), nil
		case "function":
			return types.NewFunction(nil, types.NewAny(), false), nil
		}
		t, ok := scope.Lookup(e.Name)
		if !ok {
			return nil, c.refErrorAt(e, "unknown type %q", e.Name)
		}
		if t.Kind == types.Class || t.Kind == types.Probe {
			return instanceOf(t), nil
		}
		if t.TemplateSubstitutable {
			return t, nil
		}
		return t, nil

	case *ast.TemplateCall:
		calleeIdent, ok := e.Callee.(*ast.Ident)
		if !ok {
			return c.resolveTypeExpr(e.Callee, scope)
		}
		switch calleeIdent.Name {
		case "array":
			if len(e.TemplateArgs) != 1 {
				return nil, c.typeErrorAt(e, "array<T> takes exactly one type argument")
			}
			elem, err := c.resolveTypeExpr(e.TemplateArgs[0], scope)
			if err != nil {
				return nil, err
			}
			return types.NewArrayOf(elem), nil
		case "future":
			if len(e.TemplateArgs) != 1 {
				return nil, c.typeErrorAt(e, "future<T> takes exactly one type argument")
			}
			val, err := c.resolveTypeExpr(e.TemplateArgs[0], scope)
			if err != nil {
				return nil, err
			}
			return types.NewFuture(val), nil
		case "function":
			if len(e.TemplateArgs) == 0 {
				return nil, c.typeErrorAt(e, "function<Ret, ...Params> requires a return type")
			}
			ret, err := c.resolveTypeExpr(e.TemplateArgs[0], scope)
			if err != nil {
				return nil, err
			}
			params := make([]types.Param, 0, len(e.TemplateArgs)-1)
			for _, pa := range e.TemplateArgs[1:] {
				pt, err := c.resolveTypeExpr(pa, scope)
				if err != nil {
					return nil, err
				}
				params = append(params, types.Param{Type: pt})
			}
			return types.NewFunction(params, ret, false), nil
		default:
			// Generic class/probe instantiation: resolve the base type,
			// validate each argument resolves, return the instance type.
			base, err := c.resolveTypeExpr(calleeIdent, scope)
			if err != nil {
				return nil, err
			}
			for _, a := range e.TemplateArgs {
				if _, err := c.resolveTypeExpr(a, scope); err != nil {
					return nil, err
				}
			}
			return base, nil
		}

	case *ast.MemberAccess:
		// Qualified type name from an imported module, e.g. `m.Type`.
		return types.NewAny(), nil

	default:
		return nil, c.typeErrorAt(expr, "invalid type expression")
	}
}

