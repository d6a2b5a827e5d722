package datemod

import (
	"strings"
	"testing"
	"time"

	"github.com/slurpy-films/probescript/internal/runtime"
)

func TestDateNow(t *testing.T) {
	obj := New()
	fn := obj.Props_["now"].(*runtime.NativeFn)
	before := time.Now().UnixMilli()
	v, err := fn.Fn(nil, nil)
	if err != nil {
		t.Fatalf("now returned error: %v", err)
	}
	after := time.Now().UnixMilli()
	n, ok := v.(*runtime.Number)
	if !ok {
		t.Fatalf("expected *runtime.Number, got %T", v)
	}
	if int64(n.Value) < before || int64(n.Value) > after {
		t.Fatalf("expected now() within [%d, %d], got %v", before, after, n.Value)
	}
}

func TestDateHumanize(t *testing.T) {
	obj := New()
	fn := obj.Props_["humanize"].(*runtime.NativeFn)
	past := time.Now().Add(-3 * 24 * time.Hour).UnixMilli()
	v, err := fn.Fn([]runtime.Value{runtime.NewNumber(float64(past))}, nil)
	if err != nil {
		t.Fatalf("humanize returned error: %v", err)
	}
	s, ok := v.(*runtime.String)
	if !ok {
		t.Fatalf("expected *runtime.String, got %T", v)
	}
	if !strings.Contains(s.Value, "ago") {
		t.Fatalf("expected a relative-past description, got %q", s.Value)
	}
}

func TestDateHumanizeMissingArg(t *testing.T) {
	obj := New()
	fn := obj.Props_["humanize"].(*runtime.NativeFn)
	if _, err := fn.Fn(nil, nil); err == nil {
		t.Fatalf("expected an ArgumentError")
	}
}
