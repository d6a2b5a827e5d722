package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/parser"
	"github.com/slurpy-films/probescript/internal/runtime"
)

func parseImport(t *testing.T, src string) *ast.Import {
	t.Helper()
	prog, err := parser.Parse("test.prb", src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return prog.Body[0].(*ast.Import)
}

func TestLoaderResolvesStdlibModule(t *testing.T) {
	stub := runtime.NewObject()
	loader := NewLoader(map[string]runtime.Value{"math": stub}, nil, runtime.NewScope())

	v, err := loader.Resolve(parseImport(t, `import math;`), "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if v != runtime.Value(stub) {
		t.Fatalf("expected the stdlib module back unchanged")
	}
}

func TestLoaderResolvesUnknownModule(t *testing.T) {
	loader := NewLoader(nil, nil, runtime.NewScope())
	if _, err := loader.Resolve(parseImport(t, `import nope;`), ""); err == nil {
		t.Fatalf("expected an ImportError for an unknown module")
	}
}

func TestLoaderResolvesProjectModuleAndCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greet.prb")
	if err := os.WriteFile(path, []byte(`export const greeting = "hi";`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loader := NewLoader(nil, map[string]string{"greet": path}, runtime.NewScope())
	imp := parseImport(t, `import greet;`)

	v1, err := loader.Resolve(imp, "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	obj, ok := v1.(*runtime.Object)
	if !ok {
		t.Fatalf("expected *runtime.Object, got %T", v1)
	}
	greeting, ok := obj.Props_["greeting"].(*runtime.String)
	if !ok || greeting.Value != "hi" {
		t.Fatalf("expected greeting=%q, got %+v", "hi", obj.Props_["greeting"])
	}

	v2, err := loader.Resolve(imp, "")
	if err != nil {
		t.Fatalf("second Resolve returned error: %v", err)
	}
	if v1 != v2 {
		t.Fatalf("expected the cached module object to be returned on re-import")
	}
}

func TestLoaderProjectModuleMissingFile(t *testing.T) {
	loader := NewLoader(nil, map[string]string{"missing": "/no/such/file.prb"}, runtime.NewScope())
	if _, err := loader.Resolve(parseImport(t, `import missing;`), ""); err == nil {
		t.Fatalf("expected an error for an unreadable module file")
	}
}
