package interp

import (
	"fmt"

	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/token"
)

func (i *Interp) evalExpr(expr ast.Expression, scope *runtime.Scope) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return &runtime.Number{Value: e.Value}, nil
	case *ast.StringLit:
		return runtime.NewString(e.Value), nil
	case *ast.BoolLit:
		return runtime.NewBool(e.Value), nil
	case *ast.NullLit:
		return runtime.NewNull(), nil
	case *ast.UndefinedLit:
		return runtime.NewUndef(), nil
	case *ast.Ident:
		v, ok := scope.Lookup(e.Name)
		if !ok {
			return nil, runtimeErrorAt(errors.ReferenceError, e.Tok(), "%s is not defined", e.Name)
		}
		return v, nil
	case *ast.ArrayLit:
		return i.evalArrayLit(e, scope)
	case *ast.MapLit:
		return i.evalMapLit(e, scope)
	case *ast.BinOp:
		return i.evalBinOp(e, scope)
	case *ast.UnaryPrefix:
		return i.evalUnaryPrefix(e, scope)
	case *ast.UnaryPostfix:
		return i.evalUnaryPostfix(e, scope)
	case *ast.Ternary:
		return i.evalTernary(e, scope)
	case *ast.Assign:
		return i.evalAssign(e, scope)
	case *ast.MemberAccess:
		return i.evalMemberAccess(e, scope)
	case *ast.MemberAssign:
		return i.evalMemberAssign(e, scope)
	case *ast.Call:
		return i.evalCall(e, scope)
	case *ast.TemplateCall:
		return i.evalTemplateCall(e, scope)
	case *ast.New:
		return i.evalNew(e, scope)
	case *ast.Arrow:
		return i.makeArrow(e, scope), nil
	case *ast.Await:
		return i.evalAwait(e, scope)
	case *ast.Cast:
		return i.evalExpr(e.Operand, scope)
	default:
		return nil, fmt.Errorf("interp: unhandled expression %T", expr)
	}
}

func (i *Interp) evalArrayLit(e *ast.ArrayLit, scope *runtime.Scope) (runtime.Value, error) {
	elems := make([]runtime.Value, len(e.Elements))
	for idx, el := range e.Elements {
		v, err := i.evalExpr(el, scope)
		if err != nil {
			return nil, err
		}
		elems[idx] = v
	}
	return runtime.NewArray(elems), nil
}

func (i *Interp) evalMapLit(e *ast.MapLit, scope *runtime.Scope) (runtime.Value, error) {
	obj := runtime.NewObject()
	for _, p := range e.Properties {
		v, err := i.evalExpr(p.Value, scope)
		if err != nil {
			return nil, err
		}
		obj.Props_[p.Key] = v
	}
	return obj, nil
}

// evalBinOp implements spec §4.3's arithmetic/comparison/logical table.
// `+` appends the right operand to a copy of the array when the left
// side is an Array, concatenates when either side is a String, else does
// numeric addition. `&&`/`||` evaluate both operands unconditionally (§9
// Open Question (a) — no short-circuit) and yield a Bool combining their
// truthiness.
func (i *Interp) evalBinOp(e *ast.BinOp, scope *runtime.Scope) (runtime.Value, error) {
	l, err := i.evalExpr(e.Left, scope)
	if err != nil {
		return nil, err
	}
	r, err := i.evalExpr(e.Right, scope)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case token.AND:
		return runtime.NewBool(runtime.ToBool(l) && runtime.ToBool(r)), nil
	case token.OR:
		return runtime.NewBool(runtime.ToBool(l) || runtime.ToBool(r)), nil
	case token.PLUS:
		if lArr, ok := l.(*runtime.Array); ok {
			elems := make([]runtime.Value, len(lArr.Elements)+1)
			copy(elems, lArr.Elements)
			elems[len(lArr.Elements)] = r
			return runtime.NewArray(elems), nil
		}
		if _, ok := l.(*runtime.String); ok {
			return runtime.NewString(runtime.Stringify(l) + runtime.Stringify(r)), nil
		}
		if _, ok := r.(*runtime.String); ok {
			return runtime.NewString(runtime.Stringify(l) + runtime.Stringify(r)), nil
		}
		return runtime.NewNumber(runtime.ToNum(l) + runtime.ToNum(r)), nil
	case token.MINUS:
		return runtime.NewNumber(runtime.ToNum(l) - runtime.ToNum(r)), nil
	case token.STAR:
		return runtime.NewNumber(runtime.ToNum(l) * runtime.ToNum(r)), nil
	case token.SLASH:
		rv := runtime.ToNum(r)
		if rv == 0 {
			return nil, runtimeErrorAt(errors.OperatorError, e.Tok(), "division by zero")
		}
		return runtime.NewNumber(runtime.ToNum(l) / rv), nil
	case token.PERCENT:
		rv := runtime.ToNum(r)
		if rv == 0 {
			return nil, runtimeErrorAt(errors.OperatorError, e.Tok(), "division by zero")
		}
		lv := runtime.ToNum(l)
		return runtime.NewNumber(lv - rv*float64(int64(lv/rv))), nil
	case token.LT:
		return runtime.NewBool(runtime.ToNum(l) < runtime.ToNum(r)), nil
	case token.GT:
		return runtime.NewBool(runtime.ToNum(l) > runtime.ToNum(r)), nil
	case token.LE:
		return runtime.NewBool(runtime.ToNum(l) <= runtime.ToNum(r)), nil
	case token.GE:
		return runtime.NewBool(runtime.ToNum(l) >= runtime.ToNum(r)), nil
	case token.EQ:
		return runtime.NewBool(valuesEqual(l, r)), nil
	case token.NEQ:
		return runtime.NewBool(!valuesEqual(l, r)), nil
	default:
		return nil, runtimeErrorAt(errors.OperatorError, e.Tok(), "unsupported operator %s", e.Op)
	}
}

// valuesEqual implements spec §4.3's `==` rule: numbers/strings/booleans/
// null/undefined compare by value (Open Question (b): ordinary Go `==`,
// so NaN != NaN), arrays compare element-wise, and objects compare by
// identity (Open Question (b): map-pointer identity stands in for
// "objects compare false" — two freshly built objects are never equal).
func valuesEqual(l, r runtime.Value) bool {
	switch lv := l.(type) {
	case *runtime.Number:
		rv, ok := r.(*runtime.Number)
		return ok && lv.Value == rv.Value
	case *runtime.String:
		rv, ok := r.(*runtime.String)
		return ok && lv.Value == rv.Value
	case *runtime.Bool:
		rv, ok := r.(*runtime.Bool)
		return ok && lv.Value == rv.Value
	case *runtime.Null:
		_, ok := r.(*runtime.Null)
		return ok
	case *runtime.Undef:
		_, ok := r.(*runtime.Undef)
		return ok
	case *runtime.Array:
		rv, ok := r.(*runtime.Array)
		if !ok || len(lv.Elements) != len(rv.Elements) {
			return false
		}
		for idx := range lv.Elements {
			if !valuesEqual(lv.Elements[idx], rv.Elements[idx]) {
				return false
			}
		}
		return true
	default:
		return l == r
	}
}

func (i *Interp) evalUnaryPrefix(e *ast.UnaryPrefix, scope *runtime.Scope) (runtime.Value, error) {
	switch e.Op {
	case token.BANG:
		v, err := i.evalExpr(e.Operand, scope)
		if err != nil {
			return nil, err
		}
		return runtime.NewBool(!runtime.ToBool(v)), nil
	case token.MINUS:
		v, err := i.evalExpr(e.Operand, scope)
		if err != nil {
			return nil, err
		}
		return runtime.NewNumber(-runtime.ToNum(v)), nil
	case token.INC, token.DEC:
		return i.applyIncDec(e.Operand, scope, e.Op, true)
	default:
		return nil, runtimeErrorAt(errors.OperatorError, e.Tok(), "unsupported prefix operator %s", e.Op)
	}
}

func (i *Interp) evalUnaryPostfix(e *ast.UnaryPostfix, scope *runtime.Scope) (runtime.Value, error) {
	return i.applyIncDec(e.Operand, scope, e.Op, false)
}

// applyIncDec handles ++/-- on an identifier or member target, returning
// the pre- or post-update value depending on prefix.
func (i *Interp) applyIncDec(target ast.Expression, scope *runtime.Scope, op token.Kind, prefix bool) (runtime.Value, error) {
	cur, err := i.evalExpr(target, scope)
	if err != nil {
		return nil, err
	}
	delta := 1.0
	if op == token.DEC {
		delta = -1.0
	}
	updated := runtime.NewNumber(runtime.ToNum(cur) + delta)

	switch t := target.(type) {
	case *ast.Ident:
		if err := scope.Assign(t.Name, updated); err != nil {
			return nil, runtimeErrorAt(errors.ReferenceError, t.Tok(), "%s", err.Error())
		}
	case *ast.MemberAccess:
		if err := i.assignMember(t, scope, updated); err != nil {
			return nil, err
		}
	default:
		return nil, runtimeErrorAt(errors.AssignmentError, target.Tok(), "invalid increment/decrement target")
	}

	if prefix {
		return updated, nil
	}
	return cur, nil
}

func (i *Interp) evalTernary(e *ast.Ternary, scope *runtime.Scope) (runtime.Value, error) {
	c, err := i.evalExpr(e.Cond, scope)
	if err != nil {
		return nil, err
	}
	if runtime.ToBool(c) {
		return i.evalExpr(e.Then, scope)
	}
	return i.evalExpr(e.Else, scope)
}

func (i *Interp) evalAssign(e *ast.Assign, scope *runtime.Scope) (runtime.Value, error) {
	v, err := i.evalExpr(e.Value, scope)
	if err != nil {
		return nil, err
	}
	if e.Op != token.ASSIGN {
		cur, ok := scope.Lookup(e.Target.Name)
		if !ok {
			return nil, runtimeErrorAt(errors.ReferenceError, e.Target.Tok(), "%s is not defined", e.Target.Name)
		}
		v, err = applyCompound(e.Op, cur, v)
		if err != nil {
			return nil, runtimeErrorAt(errors.OperatorError, e.Tok(), "%s", err.Error())
		}
	}
	if err := scope.Assign(e.Target.Name, v); err != nil {
		return nil, runtimeErrorAt(errors.ReferenceError, e.Target.Tok(), "%s", err.Error())
	}
	return v, nil
}

func applyCompound(op token.Kind, cur, val runtime.Value) (runtime.Value, error) {
	switch op {
	case token.PLUS_EQ:
		if _, ok := cur.(*runtime.String); ok {
			return runtime.NewString(runtime.Stringify(cur) + runtime.Stringify(val)), nil
		}
		if _, ok := val.(*runtime.String); ok {
			return runtime.NewString(runtime.Stringify(cur) + runtime.Stringify(val)), nil
		}
		return runtime.NewNumber(runtime.ToNum(cur) + runtime.ToNum(val)), nil
	case token.MINUS_EQ:
		return runtime.NewNumber(runtime.ToNum(cur) - runtime.ToNum(val)), nil
	case token.STAR_EQ:
		return runtime.NewNumber(runtime.ToNum(cur) * runtime.ToNum(val)), nil
	case token.SLASH_EQ:
		rv := runtime.ToNum(val)
		if rv == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return runtime.NewNumber(runtime.ToNum(cur) / rv), nil
	default:
		return nil, fmt.Errorf("unsupported compound operator %s", op)
	}
}

// lookupMember resolves obj.prop / obj[idx] against every runtime kind
// that carries properties, including the native methods injected onto
// String/Array at construction (spec §3).
func (i *Interp) lookupMember(e *ast.MemberAccess, scope *runtime.Scope) (runtime.Value, runtime.Value, error) {
	obj, err := i.evalExpr(e.Object, scope)
	if err != nil {
		return nil, nil, err
	}
	key := e.Property
	if e.Computed {
		idxVal, err := i.evalExpr(e.Index, scope)
		if err != nil {
			return nil, nil, err
		}
		if arr, ok := obj.(*runtime.Array); ok {
			idx := int(runtime.ToNum(idxVal))
			if idx < 0 || idx >= len(arr.Elements) {
				return obj, runtime.NewUndef(), nil
			}
			return obj, arr.Elements[idx], nil
		}
		key = runtime.Stringify(idxVal)
	}

	if p, ok := obj.(runtime.Props); ok {
		if v, ok := p.Properties()[key]; ok {
			return obj, v, nil
		}
		return obj, runtime.NewUndef(), nil
	}
	return obj, runtime.NewUndef(), nil
}

func (i *Interp) evalMemberAccess(e *ast.MemberAccess, scope *runtime.Scope) (runtime.Value, error) {
	_, v, err := i.lookupMember(e, scope)
	return v, err
}

func (i *Interp) assignMember(e *ast.MemberAccess, scope *runtime.Scope, v runtime.Value) error {
	obj, err := i.evalExpr(e.Object, scope)
	if err != nil {
		return err
	}
	key := e.Property
	if e.Computed {
		idxVal, err := i.evalExpr(e.Index, scope)
		if err != nil {
			return err
		}
		if arr, ok := obj.(*runtime.Array); ok {
			idx := int(runtime.ToNum(idxVal))
			if idx < 0 {
				return runtimeErrorAt(errors.MemberError, e.Tok(), "array index out of range")
			}
			for idx >= len(arr.Elements) {
				arr.Elements = append(arr.Elements, runtime.NewUndef())
			}
			arr.Elements[idx] = v
			return nil
		}
		key = runtime.Stringify(idxVal)
	}

	p, ok := obj.(runtime.Props)
	if !ok {
		return runtimeErrorAt(errors.MemberError, e.Tok(), "cannot assign property on a %s", obj.Kind())
	}
	p.Properties()[key] = v
	return nil
}

func (i *Interp) evalMemberAssign(e *ast.MemberAssign, scope *runtime.Scope) (runtime.Value, error) {
	v, err := i.evalExpr(e.Value, scope)
	if err != nil {
		return nil, err
	}
	if e.Op != token.ASSIGN {
		cur, err := i.evalMemberAccess(e.Target, scope)
		if err != nil {
			return nil, err
		}
		v, err = applyCompound(e.Op, cur, v)
		if err != nil {
			return nil, runtimeErrorAt(errors.OperatorError, e.Tok(), "%s", err.Error())
		}
	}
	if err := i.assignMember(e.Target, scope, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (i *Interp) evalAwait(e *ast.Await, scope *runtime.Scope) (runtime.Value, error) {
	v, err := i.evalExpr(e.Operand, scope)
	if err != nil {
		return nil, err
	}
	fut, ok := v.(*runtime.Future)
	if !ok {
		return nil, runtimeErrorAt(errors.ArgumentError, e.Tok(), "await requires a future, got %s", v.Kind())
	}
	result, taskErr := fut.Await()
	if taskErr != nil {
		if throw, ok := taskErr.(*ThrowSignal); ok {
			return nil, throw
		}
		return nil, runtimeErrorAt(errors.AsyncError, e.Tok(), "%s", taskErr.Error())
	}
	return result, nil
}
