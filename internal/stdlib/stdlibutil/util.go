// Package stdlibutil collects the argument-checking helpers shared by
// every standard-library module under internal/stdlib, so each module
// raises the same ArgumentError shape instead of reinventing it.
package stdlibutil

import (
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/token"
)

// Err builds an ArgumentError diagnostic with no source position — the
// native-function boundary has no AST node to point a caret at, unlike
// the interpreter's own eval errors.
func Err(format string, args ...interface{}) error {
	return errors.New(errors.ArgumentError, token.Token{}, format, args...)
}

func StringArg(args []runtime.Value, idx int, fn string) (string, error) {
	if idx >= len(args) {
		return "", Err("%s: missing argument %d", fn, idx+1)
	}
	s, ok := args[idx].(*runtime.String)
	if !ok {
		return "", Err("%s: expected a string argument at position %d", fn, idx+1)
	}
	return s.Value, nil
}

func NumberArg(args []runtime.Value, idx int, fn string) (float64, error) {
	if idx >= len(args) {
		return 0, Err("%s: missing argument %d", fn, idx+1)
	}
	n, ok := args[idx].(*runtime.Number)
	if !ok {
		return 0, Err("%s: expected a number argument at position %d", fn, idx+1)
	}
	return n.Value, nil
}

func OptionalNumberArg(args []runtime.Value, idx int, fallback float64) float64 {
	if idx >= len(args) {
		return fallback
	}
	if n, ok := args[idx].(*runtime.Number); ok {
		return n.Value
	}
	return fallback
}
