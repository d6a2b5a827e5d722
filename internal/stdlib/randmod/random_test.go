package randmod

import (
	"testing"

	"github.com/slurpy-films/probescript/internal/runtime"
)

func TestRandomGuidLooksLikeUUID(t *testing.T) {
	obj := New()
	fn := obj.Props_["guid"].(*runtime.NativeFn)
	v, err := fn.Fn(nil, nil)
	if err != nil {
		t.Fatalf("guid returned error: %v", err)
	}
	s, ok := v.(*runtime.String)
	if !ok {
		t.Fatalf("expected *runtime.String, got %T", v)
	}
	if len(s.Value) != 36 {
		t.Fatalf("expected a 36-character UUID, got %q", s.Value)
	}
}

func TestRandomIntRange(t *testing.T) {
	obj := New()
	fn := obj.Props_["int"].(*runtime.NativeFn)
	for i := 0; i < 50; i++ {
		v, err := fn.Fn([]runtime.Value{runtime.NewNumber(10), runtime.NewNumber(20)}, nil)
		if err != nil {
			t.Fatalf("int returned error: %v", err)
		}
		n := v.(*runtime.Number).Value
		if n < 10 || n >= 20 {
			t.Fatalf("expected a value in [10, 20), got %v", n)
		}
	}
}

func TestRandomIntDegenerateRange(t *testing.T) {
	obj := New()
	fn := obj.Props_["int"].(*runtime.NativeFn)
	v, err := fn.Fn([]runtime.Value{runtime.NewNumber(5), runtime.NewNumber(5)}, nil)
	if err != nil {
		t.Fatalf("int returned error: %v", err)
	}
	if v.(*runtime.Number).Value != 5 {
		t.Fatalf("expected 5 when hi <= lo, got %v", v)
	}
}

func TestRandomFloatRange(t *testing.T) {
	obj := New()
	fn := obj.Props_["float"].(*runtime.NativeFn)
	for i := 0; i < 50; i++ {
		v, err := fn.Fn(nil, nil)
		if err != nil {
			t.Fatalf("float returned error: %v", err)
		}
		n := v.(*runtime.Number).Value
		if n < 0 || n >= 1 {
			t.Fatalf("expected a value in [0, 1), got %v", n)
		}
	}
}
