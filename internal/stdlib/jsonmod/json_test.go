package jsonmod

import (
	"testing"

	"github.com/slurpy-films/probescript/internal/runtime"
)

func callFn(t *testing.T, obj *runtime.Object, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	fn := obj.Props_[name].(*runtime.NativeFn)
	v, err := fn.Fn(args, nil)
	if err != nil {
		t.Fatalf("%s returned error: %v", name, err)
	}
	return v
}

func TestJSONParseObject(t *testing.T) {
	obj := New()
	v := callFn(t, obj, "parse", runtime.NewString(`{"a": 1, "b": "two"}`))
	o, ok := v.(*runtime.Object)
	if !ok {
		t.Fatalf("expected *runtime.Object, got %T", v)
	}
	a, ok := o.Props_["a"].(*runtime.Number)
	if !ok || a.Value != 1 {
		t.Fatalf("expected a=1, got %+v", o.Props_["a"])
	}
	b, ok := o.Props_["b"].(*runtime.String)
	if !ok || b.Value != "two" {
		t.Fatalf("expected b=\"two\", got %+v", o.Props_["b"])
	}
}

func TestJSONParseArray(t *testing.T) {
	obj := New()
	v := callFn(t, obj, "parse", runtime.NewString(`[1, 2, 3]`))
	arr, ok := v.(*runtime.Array)
	if !ok || len(arr.Elements) != 3 {
		t.Fatalf("expected a 3-element array, got %+v", v)
	}
}

func TestJSONParseInvalid(t *testing.T) {
	obj := New()
	fn := obj.Props_["parse"].(*runtime.NativeFn)
	if _, err := fn.Fn([]runtime.Value{runtime.NewString("not json")}, nil); err == nil {
		t.Fatalf("expected an error for invalid JSON")
	}
}

func TestJSONStringify(t *testing.T) {
	obj := New()
	arr := runtime.NewArray([]runtime.Value{runtime.NewNumber(1), runtime.NewString("x")})
	v := callFn(t, obj, "stringify", arr)
	s, ok := v.(*runtime.String)
	if !ok || s.Value != `[1,"x"]` {
		t.Fatalf("expected %q, got %+v", `[1,"x"]`, v)
	}
}

func TestJSONStringifyNoArgs(t *testing.T) {
	obj := New()
	v := callFn(t, obj, "stringify")
	s := v.(*runtime.String)
	if s.Value != "null" {
		t.Fatalf("expected %q, got %q", "null", s.Value)
	}
}

func TestJSONSet(t *testing.T) {
	obj := New()
	v := callFn(t, obj, "set", runtime.NewString(`{"a":1}`), runtime.NewString("a"), runtime.NewNumber(2))
	s, ok := v.(*runtime.String)
	if !ok || s.Value != `{"a":2}` {
		t.Fatalf("expected %q, got %+v", `{"a":2}`, v)
	}
}

func TestJSONSetMissingValue(t *testing.T) {
	obj := New()
	fn := obj.Props_["set"].(*runtime.NativeFn)
	_, err := fn.Fn([]runtime.Value{runtime.NewString(`{}`), runtime.NewString("a")}, nil)
	if err == nil {
		t.Fatalf("expected an error for a missing value argument")
	}
}
