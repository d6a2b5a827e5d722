package probescript

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectReadsMainFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "project.json"), []byte(`{"main": "main.prb"}`), 0o644)
	os.WriteFile(filepath.Join(dir, "main.prb"), []byte(`probe Main { Main() {} }`), 0o644)

	cfg, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject returned error: %v", err)
	}
	if cfg.MainFile != filepath.Join(dir, "main.prb") {
		t.Fatalf("expected MainFile %q, got %q", filepath.Join(dir, "main.prb"), cfg.MainFile)
	}
}

func TestLoadProjectIndexesModuleDeclarations(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "util.prb"), []byte(`module util; export const x = 1;`), 0o644)
	os.WriteFile(filepath.Join(dir, "plain.prb"), []byte(`var x = 1;`), 0o644)

	cfg, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject returned error: %v", err)
	}
	if cfg.ModuleMap["util"] != filepath.Join(dir, "util.prb") {
		t.Fatalf("expected util to map to util.prb, got %+v", cfg.ModuleMap)
	}
	if _, ok := cfg.ModuleMap["plain"]; ok {
		t.Fatalf("expected a file with no module declaration to be skipped")
	}
}

func TestLoadProjectWithNoProjectJSON(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject returned error: %v", err)
	}
	if cfg.MainFile != "" {
		t.Fatalf("expected empty MainFile, got %q", cfg.MainFile)
	}
}

func TestEngineWithProjectDirLoadsModules(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "greet.prb"), []byte(`module greet; export const msg = "hi";`), 0o644)

	e, err := New(WithProjectDir(dir), WithStdout(io.Discard))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	res := e.Eval(`
import greet;
probe Main { Main() { console.println(greet.msg); } }
`)
	if !res.Success {
		t.Fatalf("unexpected error: %v", res.Err)
	}
}
