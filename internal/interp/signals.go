// Package interp implements Probescript's tree-walking interpreter
// (spec §4.5-§4.9): a single eval switch over the AST, with control
// transfers (return/break/continue/throw) carried as structured
// Go errors rather than panics — idiomatic for a Go port of the
// original's exception-based control flow (spec §4.5).
package interp

import (
	"fmt"

	"github.com/slurpy-films/probescript/internal/runtime"
)

// ReturnSignal unwinds to the nearest enclosing function call frame.
type ReturnSignal struct{ Value runtime.Value }

func (r *ReturnSignal) Error() string { return "return outside of a function" }

// BreakSignal unwinds to the nearest enclosing loop body.
type BreakSignal struct{}

func (b *BreakSignal) Error() string { return "break outside of a loop" }

// ContinueSignal unwinds to the nearest enclosing loop body.
type ContinueSignal struct{}

func (c *ContinueSignal) Error() string { return "continue outside of a loop" }

// ThrowSignal carries a user-thrown value (spec §7's ThrowException),
// caught by the nearest enclosing try block.
type ThrowSignal struct{ Value runtime.Value }

func (t *ThrowSignal) Error() string {
	return fmt.Sprintf("uncaught exception: %s", runtime.Stringify(t.Value))
}
