// Package randmod implements the `random` standard-library module
// (spec §6): GUIDs via google/uuid layered over math/rand/v2 for
// numeric ranges, matching the DOMAIN STACK's pairing of the two.
package randmod

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/stdlib/stdlibutil"
)

func New() *runtime.Object {
	obj := runtime.NewObject()

	obj.Props_["guid"] = &runtime.NativeFn{Name: "guid", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		return runtime.NewString(uuid.New().String()), nil
	}}

	obj.Props_["int"] = &runtime.NativeFn{Name: "int", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		lo := int(stdlibutil.OptionalNumberArg(args, 0, 0))
		hi := int(stdlibutil.OptionalNumberArg(args, 1, 100))
		if hi <= lo {
			return runtime.NewNumber(float64(lo)), nil
		}
		return runtime.NewNumber(float64(lo + rand.IntN(hi-lo))), nil
	}}

	obj.Props_["float"] = &runtime.NativeFn{Name: "float", Fn: func(args []runtime.Value, this runtime.Value) (runtime.Value, error) {
		return runtime.NewNumber(rand.Float64()), nil
	}}

	return obj
}
