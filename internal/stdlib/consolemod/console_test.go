package consolemod

import (
	"bytes"
	"testing"

	"github.com/slurpy-films/probescript/internal/runtime"
)

func call(t *testing.T, obj *runtime.Object, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	fn, ok := obj.Props_[name].(*runtime.NativeFn)
	if !ok {
		t.Fatalf("console has no native function %q", name)
	}
	v, err := fn.Fn(args, nil)
	if err != nil {
		t.Fatalf("%s returned error: %v", name, err)
	}
	return v
}

func TestConsolePrintln(t *testing.T) {
	var out bytes.Buffer
	obj := New(&out)
	call(t, obj, "println", runtime.NewString("hi"), runtime.NewNumber(5))
	if out.String() != "hi 5\n" {
		t.Fatalf("expected %q, got %q", "hi 5\n", out.String())
	}
}

func TestConsolePrint(t *testing.T) {
	var out bytes.Buffer
	obj := New(&out)
	call(t, obj, "print", runtime.NewString("a"))
	call(t, obj, "print", runtime.NewString("b"))
	if out.String() != "ab" {
		t.Fatalf("expected %q, got %q", "ab", out.String())
	}
}

func TestConsoleFormatBytes(t *testing.T) {
	var out bytes.Buffer
	obj := New(&out)
	v := call(t, obj, "formatBytes", runtime.NewNumber(1024))
	s, ok := v.(*runtime.String)
	if !ok {
		t.Fatalf("expected *runtime.String, got %T", v)
	}
	if s.Value == "" {
		t.Fatalf("expected a non-empty human-readable size")
	}
}

func TestConsoleFormatBytesNoArgs(t *testing.T) {
	var out bytes.Buffer
	obj := New(&out)
	v := call(t, obj, "formatBytes")
	s, ok := v.(*runtime.String)
	if !ok || s.Value != "" {
		t.Fatalf("expected empty string, got %+v", v)
	}
}
