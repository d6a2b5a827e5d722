package checker

import (
	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/token"
	"github.com/slurpy-films/probescript/internal/types"
)

// checkExpr type-checks an expression and returns the type it produces.
func (c *Checker) checkExpr(expr ast.Expression, scope *types.Scope) (*types.Type, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return types.NewNumber(), nil
	case *ast.StringLit:
		return types.NewString(), nil
	case *ast.BoolLit:
		return types.NewBool(), nil
	case *ast.NullLit, *ast.UndefinedLit:
		return types.NewUndef(), nil
	case *ast.Ident:
		t, ok := scope.Lookup(e.Name)
		if !ok {
			return nil, c.refErrorAt(e, "%s is not defined", e.Name)
		}
		return t, nil
	case *ast.ArrayLit:
		return c.checkArrayLit(e, scope)
	case *ast.MapLit:
		return c.checkMapLit(e, scope)
	case *ast.BinOp:
		return c.checkBinOp(e, scope)
	case *ast.UnaryPrefix:
		return c.checkUnary(e.Op, e.Operand, e, scope)
	case *ast.UnaryPostfix:
		return c.checkUnary(e.Op, e.Operand, e, scope)
	case *ast.Ternary:
		return c.checkTernary(e, scope)
	case *ast.Assign:
		return c.checkAssign(e, scope)
	case *ast.MemberAccess:
		return c.checkMemberAccess(e, scope)
	case *ast.MemberAssign:
		return c.checkMemberAssign(e, scope)
	case *ast.Call:
		return c.checkCall(e, scope)
	case *ast.TemplateCall:
		return c.checkTemplateRef(e, scope)
	case *ast.New:
		return c.checkNew(e, scope)
	case *ast.Arrow:
		return c.checkArrow(e, scope)
	case *ast.Await:
		return c.checkAwait(e, scope)
	case *ast.Cast:
		if _, err := c.checkExpr(e.Operand, scope); err != nil {
			return nil, err
		}
		return c.resolveTypeExpr(e.TypeExpr, scope)
	default:
		return types.NewAny(), nil
	}
}

func (c *Checker) checkArrayLit(e *ast.ArrayLit, scope *types.Scope) (*types.Type, error) {
	var elem *types.Type
	for _, el := range e.Elements {
		t, err := c.checkExpr(el, scope)
		if err != nil {
			return nil, err
		}
		if elem == nil {
			elem = t
		} else if !types.Compatible(elem, t) {
			elem = types.NewAny()
		}
	}
	return types.NewArrayOf(elem), nil
}

func (c *Checker) checkMapLit(e *ast.MapLit, scope *types.Scope) (*types.Type, error) {
	obj := types.NewObject()
	for _, prop := range e.Properties {
		t, err := c.checkExpr(prop.Value, scope)
		if err != nil {
			return nil, err
		}
		obj.Props[prop.Key] = t
	}
	return obj, nil
}

// checkBinOp implements spec §4.3's operator typing: `+` concatenates
// to String when either operand is a String, otherwise arithmetic is
// Number-typed; comparisons and equality yield Bool; && and || are
// permissive (any operand, per spec §9's short-circuit decision) and
// yield Bool.
func (c *Checker) checkBinOp(e *ast.BinOp, scope *types.Scope) (*types.Type, error) {
	left, err := c.checkExpr(e.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := c.checkExpr(e.Right, scope)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.PLUS:
		if left.Kind == types.String || right.Kind == types.String {
			return types.NewString(), nil
		}
		if !numericish(left) || !numericish(right) {
			return nil, errors.New(errors.OperatorError, e.Tok(), "cannot apply '+' to %s and %s", left, right)
		}
		return types.NewNumber(), nil
	case token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		if !numericish(left) || !numericish(right) {
			return nil, errors.New(errors.OperatorError, e.Tok(), "cannot apply %s to %s and %s", e.Op, left, right)
		}
		return types.NewNumber(), nil
	case token.LT, token.GT, token.LE, token.GE, token.EQ, token.NEQ, token.AND, token.OR:
		return types.NewBool(), nil
	default:
		return types.NewAny(), nil
	}
}

// numericish reports whether t can participate in arithmetic: Number,
// or Any (deferred to runtime — the checker can't rule it out statically).
func numericish(t *types.Type) bool {
	return t.Kind == types.Number || t.Kind == types.Any
}

func (c *Checker) checkUnary(op token.Kind, operand ast.Expression, site ast.Node, scope *types.Scope) (*types.Type, error) {
	t, err := c.checkExpr(operand, scope)
	if err != nil {
		return nil, err
	}
	switch op {
	case token.BANG:
		return types.NewBool(), nil
	case token.MINUS, token.INC, token.DEC:
		if !numericish(t) {
			return nil, c.typeErrorAt(site, "operator %s requires a number, got %s", op, t)
		}
		return types.NewNumber(), nil
	default:
		return t, nil
	}
}

func (c *Checker) checkTernary(e *ast.Ternary, scope *types.Scope) (*types.Type, error) {
	if _, err := c.checkExpr(e.Cond, scope); err != nil {
		return nil, err
	}
	thenT, err := c.checkExpr(e.Then, scope)
	if err != nil {
		return nil, err
	}
	elseT, err := c.checkExpr(e.Else, scope)
	if err != nil {
		return nil, err
	}
	if types.Compatible(thenT, elseT) {
		return thenT, nil
	}
	return types.NewAny(), nil
}

func (c *Checker) checkAssign(e *ast.Assign, scope *types.Scope) (*types.Type, error) {
	existing, ok := scope.Lookup(e.Target.Name)
	if !ok {
		return nil, c.refErrorAt(e, "%s is not defined", e.Target.Name)
	}
	valueType, err := c.checkExpr(e.Value, scope)
	if err != nil {
		return nil, err
	}
	if e.Op != token.ASSIGN && e.Op != token.PLUS_EQ && !numericish(existing) {
		return nil, errors.New(errors.OperatorError, e.Tok(), "compound assignment %s requires a number", e.Op)
	}
	if !types.Compatible(existing, valueType) {
		return nil, c.typeErrorAt(e, "cannot assign %s to %q of type %s", valueType, e.Target.Name, existing)
	}
	return valueType, nil
}

func (c *Checker) checkMemberAccess(e *ast.MemberAccess, scope *types.Scope) (*types.Type, error) {
	objType, err := c.checkExpr(e.Object, scope)
	if err != nil {
		return nil, err
	}
	if e.Computed {
		if _, err := c.checkExpr(e.Index, scope); err != nil {
			return nil, err
		}
		if objType.Kind == types.Array && objType.ElemType != nil {
			return objType.ElemType, nil
		}
		return types.NewAny(), nil
	}
	return c.lookupProp(objType, e.Property, e)
}

// lookupProp resolves a named property against an object/instance/module
// type, walking the parent chain. Module and Any types are permissive by
// design (spec §6's stdlib surface and the dynamically-typed "any" escape
// hatch), and a property not found on any other type also resolves to
// Any, so members a constructor assigns through `this` type-check.
func (c *Checker) lookupProp(objType *types.Type, name string, site ast.Node) (*types.Type, error) {
	if objType.Kind == types.Any || objType.Kind == types.Module {
		return types.NewAny(), nil
	}
	for cur := objType; cur != nil; cur = cur.Parent {
		if t, ok := cur.Props[name]; ok {
			return t, nil
		}
	}
	// native injected methods (size/push/join/...) and members assigned
	// at run time aren't tracked statically; defer to runtime.
	return types.NewAny(), nil
}

func (c *Checker) checkMemberAssign(e *ast.MemberAssign, scope *types.Scope) (*types.Type, error) {
	propType, err := c.checkMemberAccess(e.Target, scope)
	if err != nil {
		return nil, err
	}
	valueType, err := c.checkExpr(e.Value, scope)
	if err != nil {
		return nil, err
	}
	if !types.Compatible(propType, valueType) {
		return nil, c.typeErrorAt(e, "cannot assign %s to property of type %s", valueType, propType)
	}
	return valueType, nil
}

func (c *Checker) checkCall(e *ast.Call, scope *types.Scope) (*types.Type, error) {
	calleeType, err := c.checkExpr(e.Callee, scope)
	if err != nil {
		return nil, err
	}
	if calleeType.Kind == types.Any || calleeType.Kind == types.Module {
		for _, a := range e.Args {
			if _, err := c.checkExpr(a, scope); err != nil {
				return nil, err
			}
		}
		return types.NewAny(), nil
	}
	if calleeType.Kind != types.Function {
		return nil, errors.New(errors.FunctionCallError, e.Tok(), "%s is not callable", calleeType)
	}

	minArgs := 0
	for _, p := range calleeType.Params {
		if !p.HasDefault {
			minArgs++
		}
	}
	if len(e.Args) < minArgs || len(e.Args) > len(calleeType.Params) {
		return nil, c.argErrorAt(e, "expected between %d and %d arguments, got %d", minArgs, len(calleeType.Params), len(e.Args))
	}
	for i, arg := range e.Args {
		argType, err := c.checkExpr(arg, scope)
		if err != nil {
			return nil, err
		}
		if !types.Compatible(calleeType.Params[i].Type, argType) {
			return nil, c.typeErrorAt(arg, "argument %d: cannot pass %s as %s", i+1, argType, calleeType.Params[i].Type)
		}
	}

	if calleeType.IsAsync {
		return types.NewFuture(calleeType.ReturnType), nil
	}
	if calleeType.ReturnType != nil {
		return calleeType.ReturnType, nil
	}
	return types.NewUndef(), nil
}

// checkTemplateRef handles a bare `callee<Args>` expression that is not
// immediately followed by a call: it substitutes the template
// parameters into the callee's parameter/return types and yields the
// resulting concrete Function type (spec §4.10 "Templates").
func (c *Checker) checkTemplateRef(e *ast.TemplateCall, scope *types.Scope) (*types.Type, error) {
	calleeType, err := c.checkExpr(e.Callee, scope)
	if err != nil {
		return nil, err
	}
	argTypes := make([]*types.Type, len(e.TemplateArgs))
	for i, a := range e.TemplateArgs {
		t, err := c.resolveTypeExpr(a, scope)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t
	}
	if calleeType.Kind != types.Function || len(calleeType.TemplateParams) == 0 {
		// Not a template; treat <...> as a type-argument annotation with
		// no runtime effect on a non-generic callee (permissive).
		return calleeType, nil
	}
	return substituteTemplate(calleeType, argTypes), nil
}

// substituteTemplate rebuilds a function type's params/return type,
// replacing any TemplateSubstitutable placeholder named after one of
// fn's TemplateParams with the corresponding concrete argType.
func substituteTemplate(fn *types.Type, argTypes []*types.Type) *types.Type {
	subst := map[string]*types.Type{}
	for i, name := range fn.TemplateParams {
		if i < len(argTypes) {
			subst[name] = argTypes[i]
		}
	}
	replace := func(t *types.Type) *types.Type {
		if t != nil && t.TemplateSubstitutable {
			if concrete, ok := subst[t.Name]; ok {
				return concrete
			}
		}
		return t
	}
	newParams := make([]types.Param, len(fn.Params))
	for i, p := range fn.Params {
		newParams[i] = types.Param{Ident: p.Ident, Type: replace(p.Type), HasDefault: p.HasDefault}
	}
	return &types.Type{
		Kind: types.Function, Name: "function",
		Params: newParams, ReturnType: replace(fn.ReturnType), IsAsync: fn.IsAsync,
	}
}

func (c *Checker) checkNew(e *ast.New, scope *types.Scope) (*types.Type, error) {
	ctorType, err := c.checkExpr(e.Constructor, scope)
	if err != nil {
		return nil, err
	}
	for _, a := range e.Args {
		if _, err := c.checkExpr(a, scope); err != nil {
			return nil, err
		}
	}
	if ctorType.Kind == types.Any {
		return types.NewAny(), nil
	}
	if ctorType.Kind != types.Class && ctorType.Kind != types.Probe {
		return nil, errors.New(errors.ConstructorError, e.Tok(), "%s is not a class", ctorType)
	}
	return instanceOf(ctorType), nil
}

// instanceOf builds the IsInstance view of a declared Class/Probe type:
// same property map and parent chain, used as the type of `new X()`.
func instanceOf(classType *types.Type) *types.Type {
	return &types.Type{
		Kind: types.Custom, Name: classType.Name, TypeName: classType.TypeName,
		Props: classType.Props, Parent: classType.Parent, IsInstance: true,
	}
}

func (c *Checker) checkArrow(e *ast.Arrow, scope *types.Scope) (*types.Type, error) {
	fnScope := scope.NewChild()
	params := make([]types.Param, len(e.Params))
	for i, p := range e.Params {
		pt := types.NewAny()
		if p.TypeAnn != nil {
			t, err := c.resolveTypeExpr(p.TypeAnn, scope)
			if err != nil {
				return nil, err
			}
			pt = t
		}
		params[i] = types.Param{Ident: p.Name, Type: pt, HasDefault: p.HasDefault}
		fnScope.DeclareForce(p.Name, pt)
	}

	retType := types.NewAny()
	if e.ReturnType != nil {
		t, err := c.resolveTypeExpr(e.ReturnType, scope)
		if err != nil {
			return nil, err
		}
		retType = t
	}

	fnType := types.NewFunction(params, retType, e.IsAsync)
	c.retStack = append(c.retStack, fnType.ReturnType)
	for _, stmt := range e.Body {
		if _, err := c.checkStmt(stmt, fnScope); err != nil {
			c.retStack = c.retStack[:len(c.retStack)-1]
			return nil, err
		}
	}
	c.retStack = c.retStack[:len(c.retStack)-1]
	return fnType, nil
}

// checkAwait requires a Future (or Any) operand and unwraps it (spec
// §4.9).
func (c *Checker) checkAwait(e *ast.Await, scope *types.Scope) (*types.Type, error) {
	t, err := c.checkExpr(e.Operand, scope)
	if err != nil {
		return nil, err
	}
	if t.Kind == types.Any {
		return types.NewAny(), nil
	}
	if t.Kind != types.Future {
		return nil, errors.New(errors.AsyncError, e.Tok(), "cannot await non-future type %s", t)
	}
	if t.FutureVal != nil {
		return t.FutureVal, nil
	}
	return types.NewAny(), nil
}
