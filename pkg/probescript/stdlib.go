package probescript

import (
	"io"

	"github.com/slurpy-films/probescript/internal/interp"
	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/stdlib/consolemod"
	"github.com/slurpy-films/probescript/internal/stdlib/datemod"
	"github.com/slurpy-films/probescript/internal/stdlib/fsmod"
	"github.com/slurpy-films/probescript/internal/stdlib/httpmod"
	"github.com/slurpy-films/probescript/internal/stdlib/jsonmod"
	"github.com/slurpy-films/probescript/internal/stdlib/prbtest"
	"github.com/slurpy-films/probescript/internal/stdlib/randmod"
)

// buildStdlib assembles the module-name→object table the loader
// consults before falling back to a project's module map (spec §4.11,
// §6). console is not in this table: it is declared straight into the
// global scope, since it is available without an import (spec §6
// "Hello probe").
//
// httpmod and prbtest both need to call back into script functions
// (a request handler, a registered test); that requires a live *Interp.
// The interpreter is constructed first, then these two tables are built
// against its Invoke method. The returned table is handed to the module
// loader; only console is declared into the global scope (seedGlobals).
func buildStdlib(in *interp.Interp, projectRoot string, registry *prbtest.Registry) map[string]runtime.Value {
	return map[string]runtime.Value{
		"fs":      fsmod.New(projectRoot),
		"json":    jsonmod.New(),
		"random":  randmod.New(),
		"date":    datemod.New(),
		"http":    httpmod.New(in.Invoke),
		"prbtest": prbtest.New(registry),
	}
}

func seedGlobals(scope *runtime.Scope, stdout io.Writer) {
	scope.Declare("console", consolemod.New(stdout))
}
