// Package module implements Probescript's module loader (spec §4.11):
// standard-library modules are looked up in a process-wide table;
// project modules are resolved against a caller-supplied name→path map,
// parsed, and evaluated once under Exports mode, with the result cached
// for subsequent imports of the same module.
package module

import (
	"fmt"
	"os"

	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/interp"
	"github.com/slurpy-films/probescript/internal/parser"
	"github.com/slurpy-films/probescript/internal/runtime"
)

// Loader implements interp.ModuleResolver. It is shared by every
// Interp created for a single program run so that importing the same
// project module twice from different files returns the same Exports
// object rather than re-evaluating it.
type Loader struct {
	StdLib    map[string]runtime.Value
	ModuleMap map[string]string // module name -> filesystem path
	Global    *runtime.Scope    // seeded global scope new module Interps run against

	cache map[string]runtime.Value
}

func NewLoader(stdlib map[string]runtime.Value, moduleMap map[string]string, global *runtime.Scope) *Loader {
	return &Loader{StdLib: stdlib, ModuleMap: moduleMap, Global: global, cache: map[string]runtime.Value{}}
}

// Resolve implements interp.ModuleResolver (spec §4.11).
func (l *Loader) Resolve(stmt *ast.Import, fromFile string) (runtime.Value, error) {
	if v, ok := l.StdLib[stmt.Module]; ok {
		return v, nil
	}

	if cached, ok := l.cache[stmt.Module]; ok {
		return cached, nil
	}

	path, ok := l.ModuleMap[stmt.Module]
	if !ok {
		return nil, errors.New(errors.ImportError, stmt.Tok(), "no module named %q", stmt.Module)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.ImportError, stmt.Tok(), "reading module %q: %s", stmt.Module, err)
	}

	prog, err := parser.Parse(path, string(src))
	if err != nil {
		return nil, err
	}

	sub := interp.New(l.Global, l, interp.Context{Mode: interp.Exports, File: path})
	result, err := sub.Run(prog)
	if err != nil {
		return nil, fmt.Errorf("loading module %q: %w", stmt.Module, err)
	}

	l.cache[stmt.Module] = result
	return result, nil
}
