package interp

import (
	"bytes"

	"github.com/slurpy-films/probescript/internal/parser"
	"github.com/slurpy-films/probescript/internal/runtime"
	"github.com/slurpy-films/probescript/internal/stdlib/consolemod"

	"testing"
)

// runNormalSrc parses src and evaluates it under Normal mode with
// "console" seeded into the global scope, returning stdout and the
// probe's result.
func runNormalSrc(t *testing.T, src string) (string, runtime.Value, error) {
	t.Helper()
	prog, err := parser.Parse("test.prb", src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	var out bytes.Buffer
	global := runtime.NewScope()
	global.Declare("console", consolemod.New(&out))
	in := New(global, nil, Context{Mode: Normal})
	v, err := in.Run(prog)
	return out.String(), v, err
}

func TestRunNormalHelloProbe(t *testing.T) {
	out, _, err := runNormalSrc(t, `probe Main { Main() { console.println("hi"); } }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hi\n" {
		t.Fatalf("expected %q, got %q", "hi\n", out)
	}
}

func TestRunNormalMissingProbe(t *testing.T) {
	_, _, err := runNormalSrc(t, `var x = 1;`)
	if err == nil {
		t.Fatalf("expected an error when no Main probe is declared")
	}
}

func TestRunNormalRejectsNonDeclarationTopLevel(t *testing.T) {
	_, _, err := runNormalSrc(t, `
probe Main { Main() {} }
while (false) {}
`)
	if err == nil {
		t.Fatalf("expected an error for a disallowed top-level statement")
	}
}

func TestLogicalOperatorsDoNotShortCircuit(t *testing.T) {
	// Open Question (a): both operands of && / || are evaluated even
	// when the left operand alone determines the result. A side
	// effect on the right-hand side must still run.
	out, _, err := runNormalSrc(t, `
probe Main {
	Main() {
		var calls = 0;
		fn sideEffect() { calls += 1; return true; }
		var a = false && sideEffect();
		var b = true || sideEffect();
		console.println(calls);
	}
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "2\n" {
		t.Fatalf("expected both right-hand sides to run (calls=2), got %q", out)
	}
}

func TestArrayPlusAppendsElement(t *testing.T) {
	out, _, err := runNormalSrc(t, `
probe Main {
	Main() {
		var a = [1, 2];
		var b = a + 3;
		console.println(b);
		console.println(a);
	}
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "[1, 2, 3]\n[1, 2]\n" {
		t.Fatalf("expected appended array and unmutated original, got %q", out)
	}
}

func TestArrayEqualityIsElementWise(t *testing.T) {
	out, _, err := runNormalSrc(t, `
probe Main {
	Main() {
		var a = [1, 2, 3];
		var b = [1, 2, 3];
		var c = [1, 2];
		console.println(a == b);
		console.println(a == c);
	}
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "true\nfalse\n" {
		t.Fatalf("expected %q, got %q", "true\nfalse\n", out)
	}
}

func TestObjectEqualityIsByIdentity(t *testing.T) {
	out, _, err := runNormalSrc(t, `
probe Main {
	Main() {
		var a = {x: 1};
		var b = {x: 1};
		var c = a;
		console.println(a == b);
		console.println(a == c);
	}
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "false\ntrue\n" {
		t.Fatalf("expected %q, got %q", "false\ntrue\n", out)
	}
}

func TestClosureCapturesDeclarationScope(t *testing.T) {
	out, _, err := runNormalSrc(t, `
fn makeCounter() {
	var n = 0;
	fn inc() {
		n += 1;
		return n;
	}
	return inc;
}

probe Main {
	Main() {
		var counter = makeCounter();
		console.println(counter());
		console.println(counter());
		console.println(counter());
	}
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "1\n2\n3\n" {
		t.Fatalf("expected %q, got %q", "1\n2\n3\n", out)
	}
}

func TestBreakUnwindsOnlyInnermostLoop(t *testing.T) {
	out, _, err := runNormalSrc(t, `
probe Main {
	Main() {
		var total = 0;
		for (var i = 0; i < 3; i++) {
			for (var j = 0; j < 10; j++) {
				if (j == 2) break;
				total += 1;
			}
		}
		console.println(total);
	}
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "6\n" {
		t.Fatalf("expected %q, got %q", "6\n", out)
	}
}

func TestUncaughtThrowPropagatesAsError(t *testing.T) {
	_, _, err := runNormalSrc(t, `
probe Main {
	Main() {
		throw "boom";
	}
}
`)
	if err == nil {
		t.Fatalf("expected an uncaught throw to surface as an error")
	}
}

func TestAsyncFunctionReturnsAwaitableFuture(t *testing.T) {
	out, _, err := runNormalSrc(t, `
async fn f() { return 42; }
probe Main { Main() { console.println(await f()); } }
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "42\n" {
		t.Fatalf("expected %q, got %q", "42\n", out)
	}
}

func TestAwaitOnNonFutureIsAnError(t *testing.T) {
	_, _, err := runNormalSrc(t, `
probe Main {
	Main() {
		await 5;
	}
}
`)
	if err == nil {
		t.Fatalf("expected an error awaiting a non-future value")
	}
}

func TestAsyncThrowPropagatesThroughAwait(t *testing.T) {
	_, _, err := runNormalSrc(t, `
async fn f() { throw "boom"; }
probe Main { Main() { await f(); } }
`)
	if err == nil {
		t.Fatalf("expected an uncaught throw from inside an async function to surface at await")
	}
}

func TestSuperCallsInheritedConstructor(t *testing.T) {
	out, _, err := runNormalSrc(t, `
class A {
	new(x) { this.x = x; }
}
class B extends A {
	new(x) { super(x); this.y = x + 1; }
	sum() { return this.x + this.y; }
}

probe Main {
	Main() {
		var b = new B(3);
		console.println(b.sum());
	}
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "7\n" {
		t.Fatalf("expected %q, got %q", "7\n", out)
	}
}

func TestDivisionByZeroIsAnError(t *testing.T) {
	_, _, err := runNormalSrc(t, `
probe Main {
	Main() {
		var x = 1 / 0;
	}
}
`)
	if err == nil {
		t.Fatalf("expected division by zero to error")
	}
}
