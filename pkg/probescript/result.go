package probescript

import "github.com/slurpy-films/probescript/internal/runtime"

// Result is the outcome of an Eval call (spec §6). Success is false
// whenever Err is non-nil; Value is the mode's result value (spec
// §4.8) when Success is true.
type Result struct {
	Success bool
	Value   runtime.Value
	Err     error
}
