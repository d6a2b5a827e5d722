package probescript

import (
	"github.com/slurpy-films/probescript/internal/checker"
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/interp"
	"github.com/slurpy-films/probescript/internal/module"
	"github.com/slurpy-films/probescript/internal/parser"
	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/stdlib/prbtest"
	"github.com/slurpy-films/probescript/internal/types"
)

// Engine is one configured Probescript environment: a global scope
// seeded with the always-available globals and a module loader wired
// to the standard library plus any project modules, shared across every
// Compile/Eval/RunTests call it serves.
type Engine struct {
	ctx       Context
	typeCheck bool

	global   *runtime.Scope
	interp   *interp.Interp
	loader   *module.Loader
	registry *prbtest.Registry
}

// New builds an Engine. Mirrors pkg/dwscript's New(opts...) (*Engine, error)
// shape; the error return exists for project indexing failures when
// WithProjectDir is given (no error case exists otherwise, but the
// signature is kept uniform with the teacher's).
func New(opts ...Option) (*Engine, error) {
	e := &Engine{ctx: defaultContext(), typeCheck: true}
	for _, opt := range opts {
		opt(e)
	}

	e.global = runtime.NewScope()

	moduleMap := map[string]string{}
	for k, v := range e.ctx.ModuleMap {
		moduleMap[k] = v
	}
	if e.ctx.ProjectDir != "" {
		cfg, err := LoadProject(e.ctx.ProjectDir)
		if err != nil {
			return nil, err
		}
		for k, v := range cfg.ModuleMap {
			moduleMap[k] = v
		}
		if e.ctx.Filename == "" {
			e.ctx.Filename = cfg.MainFile
		}
	}

	e.registry = prbtest.NewRegistry(func(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return e.interp.Invoke(fn, args)
	})

	e.interp = interp.New(e.global, nil, interp.Context{
		Mode:      e.ctx.Mode,
		ProbeName: e.ctx.ProbeName,
		File:      e.ctx.Filename,
	})

	projectRoot := e.ctx.ProjectDir
	if projectRoot == "" {
		projectRoot = "."
	}
	stdlib := buildStdlib(e.interp, projectRoot, e.registry)

	e.loader = module.NewLoader(stdlib, moduleMap, e.global)
	e.interp.Modules = e.loader

	seedGlobals(e.global, e.ctx.Stdout)

	return e, nil
}

// Compile lexes, parses, and (unless WithTypeCheck(false) was given)
// type-checks source, returning the resulting Program without running
// it.
func (e *Engine) Compile(source string) (*Program, error) {
	astProg, err := parser.Parse(e.ctx.Filename, source)
	if err != nil {
		return nil, err
	}

	p := &Program{ast: astProg}

	if e.typeCheck {
		c := checker.New()
		// console is available without an import at runtime (seedGlobals);
		// the checker needs the same ambient binding, as a permissive
		// Module type, so `console.println(...)` resolves without one.
		c.Global().DeclareForce("console", types.NewModule("console"))
		if err := c.Check(astProg); err != nil {
			return p, err
		}
		p.symbols = symbolsFromScope(c.Global())
	}

	return p, nil
}

// Eval compiles and runs source under the Engine's configured mode
// (spec §4.8), returning a Result whose Success reflects whether
// compilation and evaluation both completed without error.
func (e *Engine) Eval(source string) *Result {
	p, err := e.Compile(source)
	if err != nil {
		return &Result{Success: false, Err: err}
	}

	v, err := e.interp.Run(p.AST())
	if err != nil {
		return &Result{Success: false, Err: err}
	}
	return &Result{Success: true, Value: v}
}

// RunTests evaluates source (which is expected to call prbtest.test
// during load) and then runs every registered test, returning their
// individual outcomes.
func (e *Engine) RunTests(source string) ([]prbtest.Result, error) {
	res := e.Eval(source)
	if !res.Success {
		return nil, res.Err
	}
	return e.registry.Run(), nil
}

// Diagnostic renders err as a §6 source-window diagnostic if it came
// from the errors package, or its plain message otherwise.
func Diagnostic(err error, source string, color bool) string {
	if d, ok := err.(*errors.Diagnostic); ok {
		return errors.Format(d, source, color)
	}
	return err.Error()
}
