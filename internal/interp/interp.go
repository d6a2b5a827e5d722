package interp

import (
	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/token"
)

// ModuleResolver loads a module by name (standard-library or project)
// and returns the Value bound at the import site (spec §4.11). It is
// implemented by internal/module and injected here to avoid a package
// cycle (the loader needs to run an interpreter over module source;
// the interpreter needs to resolve imports).
type ModuleResolver interface {
	Resolve(stmt *ast.Import, fromFile string) (runtime.Value, error)
}

// Mode selects one of the three program execution modes (spec §4.8).
type Mode int

const (
	Normal Mode = iota
	REPL
	Exports
)

// Context carries the per-run configuration the original calls "the
// context": which mode to run in, the entry probe's name, and the
// current file (used for relative module resolution and diagnostics).
type Context struct {
	Mode      Mode
	ProbeName string // defaults to "Main"
	File      string
}

// Interp evaluates a single parsed program against a Context.
type Interp struct {
	Global   *runtime.Scope
	Modules  ModuleResolver
	Ctx      Context
	Exported map[string]runtime.Value
}

// New creates an Interp with the given global scope (pre-seeded with
// any stdlib globals by the caller) and resolver.
func New(global *runtime.Scope, modules ModuleResolver, ctx Context) *Interp {
	if ctx.ProbeName == "" {
		ctx.ProbeName = "Main"
	}
	return &Interp{Global: global, Modules: modules, Ctx: ctx}
}

func runtimeErrorAt(kind errors.Kind, tok token.Token, format string, args ...interface{}) error {
	return errors.New(kind, tok, format, args...)
}

// Run executes prog under i.Ctx.Mode (spec §4.8) and returns the mode's
// result value: Normal yields the probe's return value; REPL yields the
// last statement's expression value; Exports yields an Object whose
// properties are the recorded export bindings.
func (i *Interp) Run(prog *ast.Program) (runtime.Value, error) {
	switch i.Ctx.Mode {
	case Normal:
		return i.runNormal(prog)
	case REPL:
		return i.runREPL(prog)
	case Exports:
		return i.runExports(prog)
	default:
		return i.runNormal(prog)
	}
}

// runNormal checks that each top-level statement is an allowed kind and
// evaluates it, in order, for the whole program: every probe in the
// file is declared, and statements after the entry probe's declaration
// are evaluated too. Only then does it look up the probe named
// i.Ctx.ProbeName and invoke it with no arguments (spec §4.8 "Normal").
func (i *Interp) runNormal(prog *ast.Program) (runtime.Value, error) {
	scope := i.Global.NewChild()
	for _, stmt := range prog.Body {
		if !isTopLevelAllowed(stmt) {
			return nil, runtimeErrorAt(errors.ProgramError, stmt.Tok(), "top-level statement is not a var, function, class, probe, or import declaration")
		}
		if _, err := i.evalStmt(stmt, scope); err != nil {
			return nil, err
		}
	}

	v, ok := scope.Lookup(i.Ctx.ProbeName)
	if !ok {
		return nil, runtimeErrorAt(errors.MainError, prog.Tok(), "no probe named %q found", i.Ctx.ProbeName)
	}
	probe, ok := v.(*runtime.Probe)
	if !ok {
		return nil, runtimeErrorAt(errors.MainError, prog.Tok(), "%q is not a probe", i.Ctx.ProbeName)
	}
	return i.CallProbe(probe, nil)
}

func isTopLevelAllowed(stmt ast.Statement) bool {
	switch stmt.(type) {
	case *ast.VarDecl, *ast.FnDecl, *ast.ClassDecl, *ast.ProbeDecl, *ast.Import, *ast.ModuleDecl:
		return true
	default:
		return false
	}
}

// runREPL evaluates every statement and returns the last expression
// statement's value (spec §4.8 "REPL").
func (i *Interp) runREPL(prog *ast.Program) (runtime.Value, error) {
	scope := i.Global.NewChild()
	var last runtime.Value = runtime.NewUndef()
	for _, stmt := range prog.Body {
		v, err := i.evalStmt(stmt, scope)
		if err != nil {
			return nil, err
		}
		if _, ok := stmt.(*ast.ExprStmt); ok {
			last = v
		}
	}
	return last, nil
}

// runExports evaluates every statement, recording each Export
// statement's binding by name, and returns an Object carrying them
// (spec §4.8 "Exports").
func (i *Interp) runExports(prog *ast.Program) (runtime.Value, error) {
	scope := i.Global.NewChild()
	exports := runtime.NewObject()
	for _, stmt := range prog.Body {
		if exp, ok := stmt.(*ast.Export); ok {
			name, val, err := i.evalExport(exp, scope)
			if err != nil {
				return nil, err
			}
			exports.Props_[name] = val
			continue
		}
		if _, err := i.evalStmt(stmt, scope); err != nil {
			return nil, err
		}
	}
	return exports, nil
}
