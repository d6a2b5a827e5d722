// Package probescript is the embedding facade over the Probescript
// engine: lex/parse/type-check/run a script or project, configured
// functionally the way pkg/dwscript's Engine is (spec §6 "Driver
// modes").
package probescript

import (
	"io"
	"os"

	"github.com/slurpy-films/probescript/internal/interp"
)

// Context is the per-run configuration record the spec calls simply
// "the context" (§4.8, §6, GLOSSARY): execution mode, entry probe
// name, source identity, and the project/module resolution inputs a
// caller-supplied indexer must have already populated.
type Context struct {
	Mode       interp.Mode
	ProbeName  string
	Filename   string
	ProjectDir string
	ModuleMap  map[string]string // module name -> file path
	Stdout     io.Writer
	Stderr     io.Writer
}

func defaultContext() Context {
	return Context{
		Mode:      interp.Normal,
		ProbeName: "Main",
		ModuleMap: map[string]string{},
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Option configures an Engine functionally, mirroring pkg/dwscript's
// WithTypeCheck/WithOutput/WithCompileMode pattern.
type Option func(*Engine)

func WithMode(mode interp.Mode) Option {
	return func(e *Engine) { e.ctx.Mode = mode }
}

func WithProbeName(name string) Option {
	return func(e *Engine) { e.ctx.ProbeName = name }
}

func WithProjectDir(dir string) Option {
	return func(e *Engine) { e.ctx.ProjectDir = dir }
}

func WithModuleMap(m map[string]string) Option {
	return func(e *Engine) {
		for k, v := range m {
			e.ctx.ModuleMap[k] = v
		}
	}
}

func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.ctx.Stdout = w }
}

func WithStderr(w io.Writer) Option {
	return func(e *Engine) { e.ctx.Stderr = w }
}

// WithTypeCheck toggles the static pass Compile runs before a program
// is executed (spec §4.10). Enabled by default.
func WithTypeCheck(enabled bool) Option {
	return func(e *Engine) { e.typeCheck = enabled }
}
