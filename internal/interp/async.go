package interp

import "github.com/slurpy-films/probescript/internal/runtime"

// spawnAsync backs an `async fn` call with a background goroutine
// running the body to completion, returning immediately with a Future
// (spec §4.9). A ThrowSignal escaping the body resolves the future with
// that error so `await` can re-raise it at the await site; any other
// control signal escaping an async body (a stray return is normal and
// unwrapped by runFunctionBody already) is surfaced the same way.
func (i *Interp) spawnAsync(fn *runtime.Function, args []runtime.Value, this runtime.Value) *runtime.Future {
	fut := runtime.NewFuture()
	go func() {
		v, err := i.runFunctionBody(fn, args, this)
		fut.Resolve(v, err)
	}()
	return fut
}
