// Package consolemod implements the always-available `console` global
// (spec §6 "Standard-library surface"): output and simple
// human-friendly formatting, backed by the Context's configured
// writer rather than a bare os.Stdout so the facade can redirect it.
package consolemod

import (
	"fmt"
	"io"
	"strings"

	humanize "github.com/dustin/go-humanize"

	"github.com/slurpy-films/probescript/internal/runtime"
)

// New builds the console object bound into every program's global scope
// (not gated behind an import — spec §6's end-to-end scenarios call
// console.println with no import statement).
func New(out io.Writer) *runtime.Object {
	obj := runtime.NewObject()
	obj.Props_["println"] = &runtime.NativeFn{Name: "println", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		fmt.Fprintln(out, joinArgs(args))
		return runtime.NewUndef(), nil
	}}
	obj.Props_["print"] = &runtime.NativeFn{Name: "print", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		fmt.Fprint(out, joinArgs(args))
		return runtime.NewUndef(), nil
	}}
	obj.Props_["formatBytes"] = &runtime.NativeFn{Name: "formatBytes", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return runtime.NewString(""), nil
		}
		return runtime.NewString(humanize.Bytes(uint64(runtime.ToNum(args[0])))), nil
	}}
	return obj
}

func joinArgs(args []runtime.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = runtime.Stringify(a)
	}
	return strings.Join(parts, " ")
}
