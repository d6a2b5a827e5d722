// Package types implements Probescript's tagged type descriptors and the
// structural compatibility rules the checker (internal/checker) applies
// to them (spec §3, §4.10).
package types

import (
	"strings"

	"github.com/slurpy-films/probescript/internal/ast"
)

// Kind tags the variant a Type belongs to.
type Kind int

const (
	Any Kind = iota
	Number
	String
	Bool
	Undef
	Array
	Object
	Function
	Class
	Probe
	Module
	Future
	Custom
)

// Param describes one formal parameter's static type.
type Param struct {
	Ident      string
	Type       *Type
	HasDefault bool
}

// Type is the single descriptor used throughout the checker: a kind, a
// display name, and a payload carrying whatever that kind needs.
// Mirrors the original's Type/TypeVal split (core/types.hpp) collapsed
// into one struct, Go-idiomatically, since Go has no need for the
// original's separate ref-counted TypeVal indirection.
type Type struct {
	Kind     Kind
	Name     string
	TypeName string // display name for Custom/Class/Probe instance types

	Params         []Param
	TemplateParams []string // in-scope only inside the template's body (invariant (v))
	ReturnType     *Type
	Props          map[string]*Type
	IsAsync        bool

	// SourceNode/DeclScope let a template be re-checked at each
	// instantiation (spec §4.10 "Templates").
	SourceNode ast.Node
	DeclScope  *Scope

	FutureVal *Type // for Future<T>, what T is
	ElemType  *Type // for Array, the element type (nil means unknown/any)

	IsInstance            bool
	TemplateSubstitutable bool
	Parent                *Type // superclass/super-interface link
}

// Convenience constructors for the primitive singletons. Each call
// returns a fresh value (types carry no shared mutable state), matching
// how the checker freely copies and rebinds template parameter types.
func NewAny() *Type    { return &Type{Kind: Any, Name: "any"} }
func NewNumber() *Type { return &Type{Kind: Number, Name: "num"} }
func NewString() *Type { return &Type{Kind: String, Name: "str"} }
func NewBool() *Type   { return &Type{Kind: Bool, Name: "bool"} }
func NewUndef() *Type  { return &Type{Kind: Undef, Name: "undefined"} }
func NewArray() *Type  { return &Type{Kind: Array, Name: "array"} }

// NewArrayOf builds an array type carrying a known element type.
func NewArrayOf(elem *Type) *Type { return &Type{Kind: Array, Name: "array", ElemType: elem} }

// NewModule builds the placeholder type bound for an imported module.
// Module member types are not tracked statically (spec §6's stdlib
// surface is treated as dynamically typed); member access against a
// Module type always succeeds and yields Any.
func NewModule(name string) *Type { return &Type{Kind: Module, Name: name} }
func NewObject() *Type { return &Type{Kind: Object, Name: "object", Props: map[string]*Type{}} }

// NewFuture builds Future<val>.
func NewFuture(val *Type) *Type {
	return &Type{Kind: Future, Name: "future", FutureVal: val}
}

// NewFunction builds a function type from parameters and a return type.
func NewFunction(params []Param, ret *Type, async bool) *Type {
	if ret == nil {
		ret = NewUndef()
	}
	return &Type{Kind: Function, Name: "function", Params: params, ReturnType: ret, IsAsync: async}
}

// String renders a human display name, used in diagnostics (e.g. the
// §8 "must be rejected ... naming both types" scenario).
func (t *Type) String() string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case Function:
		var b strings.Builder
		b.WriteString("function<")
		b.WriteString(t.ReturnType.String())
		for _, p := range t.Params {
			b.WriteString(", ")
			b.WriteString(p.Type.String())
		}
		b.WriteString(">")
		return b.String()
	case Future:
		return "Future<" + t.FutureVal.String() + ">"
	case Class, Probe, Custom:
		if t.TypeName != "" {
			return t.TypeName
		}
		return t.Name
	default:
		return t.Name
	}
}

// Compatible implements the structural compatibility rules of spec
// §4.10: Any is bidirectionally compatible with everything; instance
// types compare by property map and walk the parent chain on mismatch;
// two Function types are compatible when arity, return type, and every
// parameter pair are compatible; otherwise kinds must match.
func Compatible(want, got *Type) bool {
	if want == nil || got == nil {
		return true
	}
	if want.Kind == Any || got.Kind == Any {
		return true
	}
	if want.Kind == Function && got.Kind == Function {
		if len(want.Params) != len(got.Params) {
			return false
		}
		if !Compatible(want.ReturnType, got.ReturnType) {
			return false
		}
		for i := range want.Params {
			if !Compatible(want.Params[i].Type, got.Params[i].Type) {
				return false
			}
		}
		return true
	}
	if want.IsInstance && got.IsInstance {
		return instanceCompatible(want, got)
	}
	if want.Kind == Future && got.Kind == Future {
		return Compatible(want.FutureVal, got.FutureVal)
	}
	return want.Kind == got.Kind
}

// instanceCompatible compares two instance types by property map,
// walking got's parent chain on mismatch (spec §4.10).
func instanceCompatible(want, got *Type) bool {
	for cur := got; cur != nil; cur = cur.Parent {
		if propsCompatible(want.Props, cur.Props) {
			return true
		}
	}
	return false
}

func propsCompatible(want, got map[string]*Type) bool {
	for name, wt := range want {
		gt, ok := got[name]
		if !ok || !Compatible(wt, gt) {
			return false
		}
	}
	return true
}
