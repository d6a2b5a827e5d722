// Package prbtest implements the `prbtest` standard-library module
// (spec §6): a test registry plus an `assert` that raises a catchable
// exception on failure, mirroring the language's own try/catch model
// rather than a separate assertion-failure type outside the §6
// diagnostic taxonomy.
package prbtest

import (
	"fmt"

	"github.com/slurpy-films/probescript/internal/interp"
	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/stdlib/stdlibutil"
)

// Invoker calls a Probescript function value from Go code.
type Invoker func(fn runtime.Value, args []runtime.Value) (runtime.Value, error)

// Registry accumulates prbtest.test(name, fn) registrations so an
// embedding driver (pkg/probescript) can run them after the program
// finishes loading.
type Registry struct {
	order []string
	tests map[string]runtime.Value
	invoke Invoker
}

func NewRegistry(invoke Invoker) *Registry {
	return &Registry{tests: map[string]runtime.Value{}, invoke: invoke}
}

// Result is a single test's outcome.
type Result struct {
	Name   string
	Passed bool
	Err    error
}

// Run executes every registered test in registration order.
func (r *Registry) Run() []Result {
	results := make([]Result, 0, len(r.order))
	for _, name := range r.order {
		_, err := r.invoke(r.tests[name], nil)
		results = append(results, Result{Name: name, Passed: err == nil, Err: err})
	}
	return results
}

func New(registry *Registry) *runtime.Object {
	obj := runtime.NewObject()

	obj.Props_["test"] = &runtime.NativeFn{Name: "test", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		name, err := stdlibutil.StringArg(args, 0, "prbtest.test")
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, stdlibutil.Err("prbtest.test: missing function argument")
		}
		if _, exists := registry.tests[name]; !exists {
			registry.order = append(registry.order, name)
		}
		registry.tests[name] = args[1]
		return runtime.NewUndef(), nil
	}}

	obj.Props_["assert"] = &runtime.NativeFn{Name: "assert", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return nil, stdlibutil.Err("prbtest.assert: missing condition argument")
		}
		if runtime.ToBool(args[0]) {
			return runtime.NewUndef(), nil
		}
		msg := "assertion failed"
		if len(args) > 1 {
			msg = runtime.Stringify(args[1])
		}
		return nil, &interp.ThrowSignal{Value: runtime.NewString(fmt.Sprintf("assert: %s", msg))}
	}}

	return obj
}
