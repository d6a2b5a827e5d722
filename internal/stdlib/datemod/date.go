// Package datemod implements the `date` standard-library module (spec
// §6): wall-clock access plus go-humanize's relative-time formatting.
package datemod

import (
	"time"

	humanize "github.com/dustin/go-humanize"

	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/stdlib/stdlibutil"
)

func New() *runtime.Object {
	obj := runtime.NewObject()

	obj.Props_["now"] = &runtime.NativeFn{Name: "now", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		return runtime.NewNumber(float64(time.Now().UnixMilli())), nil
	}}

	// date.humanize(unixMillis) -> "3 days ago", grounded on
	// humanize.Time's relative-time formatting.
	obj.Props_["humanize"] = &runtime.NativeFn{Name: "humanize", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		ms, err := stdlibutil.NumberArg(args, 0, "date.humanize")
		if err != nil {
			return nil, err
		}
		t := time.UnixMilli(int64(ms))
		return runtime.NewString(humanize.Time(t)), nil
	}}

	return obj
}
