package probescript

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/parser"
)

// ProjectConfig is what indexing a project directory produces: the
// entry file project.json names (if any) and a module name→path map
// built by scanning every .prb file under the directory for a leading
// `module <name>` declaration (spec §4.11 "Module files").
type ProjectConfig struct {
	MainFile  string
	ModuleMap map[string]string
}

// LoadProject indexes dir (spec §4.11): it reads project.json for
// project metadata with gjson rather than unmarshalling into a fixed
// struct, since the schema is a loose "whatever metadata the project
// wants" bag (SPEC_FULL.md's Configuration decision), and walks the
// directory for .prb files whose first statement is a `module <name>;`
// declaration.
func LoadProject(dir string) (*ProjectConfig, error) {
	cfg := &ProjectConfig{ModuleMap: map[string]string{}}

	if raw, err := os.ReadFile(filepath.Join(dir, "project.json")); err == nil {
		main := gjson.GetBytes(raw, "main")
		if main.Exists() {
			cfg.MainFile = filepath.Join(dir, main.String())
		}
	}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".prb") {
			return nil
		}
		name, ok := declaredModuleName(path)
		if ok {
			cfg.ModuleMap[name] = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// declaredModuleName parses path and reports the name bound by a
// leading `module <name>;` declaration, if present.
func declaredModuleName(path string) (string, bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	prog, err := parser.Parse(path, string(src))
	if err != nil || len(prog.Body) == 0 {
		return "", false
	}
	decl, ok := prog.Body[0].(*ast.ModuleDecl)
	if !ok {
		return "", false
	}
	return decl.Name, true
}
