package probescript

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, *Result) {
	t.Helper()
	var out bytes.Buffer
	e, err := New(WithStdout(&out))
	require.NoError(t, err)
	return out.String(), e.Eval(src)
}

// TestEvalHelloProbe pins down end-to-end scenario 1.
func TestEvalHelloProbe(t *testing.T) {
	out, res := run(t, `probe Main { Main() { console.println("hi"); } }`)
	require.NoError(t, res.Err)
	require.True(t, res.Success)
	require.Equal(t, "hi\n", out)
}

// TestEvalFibonacci pins down end-to-end scenario 2.
func TestEvalFibonacci(t *testing.T) {
	out, res := run(t, `
fn fib(n) { if (n < 2) return n; return fib(n-1) + fib(n-2); }
probe Main { Main() { console.println(fib(10)); } }
`)
	require.NoError(t, res.Err)
	require.Equal(t, "55\n", out)
}

// TestEvalForLoopBreak pins down end-to-end scenario 3.
func TestEvalForLoopBreak(t *testing.T) {
	out, res := run(t, `
probe Main {
	Main() {
		var s = 0;
		for (var i = 0; i < 10; i++) {
			if (i == 5) break;
			s += i;
		}
		console.println(s);
	}
}
`)
	require.NoError(t, res.Err)
	require.Equal(t, "10\n", out)
}

// TestEvalClassInheritance pins down end-to-end scenario 4.
func TestEvalClassInheritance(t *testing.T) {
	out, res := run(t, `
class A { new(x) { this.x = x; } hi() { return this.x; } }
class B extends A { }
probe Main { Main() { var b = new B(7); console.println(b.hi()); } }
`)
	require.NoError(t, res.Err)
	require.Equal(t, "7\n", out)
}

// TestEvalSuperCall confirms a subclass constructor calling super(...)
// type-checks and runs under the engine's default typeCheck: true — a
// false FunctionCallError here would mean super was bound to the raw
// parent class type instead of its constructor's Function type.
func TestEvalSuperCall(t *testing.T) {
	out, res := run(t, `
class A {
	new(x) { this.x = x; }
}
class B extends A {
	new(x) { super(x); this.y = x + 1; }
	sum() { return this.x + this.y; }
}
probe Main { Main() { var b = new B(3); console.println(b.sum()); } }
`)
	require.NoError(t, res.Err)
	require.True(t, res.Success)
	require.Equal(t, "7\n", out)
}

// TestEvalTryCatch pins down end-to-end scenario 5.
func TestEvalTryCatch(t *testing.T) {
	out, res := run(t, `
probe Main {
	Main() {
		try {
			throw "oops";
		} catch (e) {
			console.println(e);
		}
	}
}
`)
	require.NoError(t, res.Err)
	require.Equal(t, "oops\n", out)
}

// TestEvalAsyncAwait pins down end-to-end scenario 6.
func TestEvalAsyncAwait(t *testing.T) {
	out, res := run(t, `
async fn f() { return 42; }
probe Main { Main() { console.println(await f()); } }
`)
	require.NoError(t, res.Err)
	require.Equal(t, "42\n", out)
}

// TestEvalTypeMismatchRejected pins down end-to-end scenario 7: a
// static type error must be caught before the program ever runs, and
// the error must name both types involved.
func TestEvalTypeMismatchRejected(t *testing.T) {
	_, res := run(t, `var x: num = "s";`)
	require.False(t, res.Success)
	require.ErrorContains(t, res.Err, "num")
	require.ErrorContains(t, res.Err, "str")
}

// TestEvalWithTypeCheckDisabledRunsAnyway confirms WithTypeCheck(false)
// skips the static pass entirely, so a script that would fail checking
// still runs under Normal mode.
func TestEvalWithTypeCheckDisabledRunsAnyway(t *testing.T) {
	var out bytes.Buffer
	e, err := New(WithStdout(&out), WithTypeCheck(false))
	require.NoError(t, err)
	res := e.Eval(`
var x: num = "s";
probe Main { Main() { console.println("ran"); } }
`)
	require.NoError(t, res.Err)
	require.Equal(t, "ran\n", out.String())
}

func TestCompileReportsSymbols(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	p, err := e.Compile(`var x: num = 5; fn f() { return 1; }`)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, s := range p.Symbols() {
		names[s.Name] = true
	}
	require.True(t, names["x"])
	require.True(t, names["f"])
}

// TestEvalEndToEndScenariosSnapshot snapshots the stdout of every §8
// end-to-end scenario together, the way the teacher's fixture suite
// snapshots fixture output (internal/interp/fixture_test.go).
func TestEvalEndToEndScenariosSnapshot(t *testing.T) {
	scenarios := []struct {
		name string
		src  string
	}{
		{"hello", `probe Main { Main() { console.println("hi"); } }`},
		{"fibonacci", `
fn fib(n) { if (n < 2) return n; return fib(n-1) + fib(n-2); }
probe Main { Main() { console.println(fib(10)); } }
`},
		{"inheritance", `
class A { new(x) { this.x = x; } hi() { return this.x; } }
class B extends A { }
probe Main { Main() { var b = new B(7); console.println(b.hi()); } }
`},
	}

	for _, sc := range scenarios {
		out, res := run(t, sc.src)
		require.NoError(t, res.Err)
		snaps.MatchSnapshot(t, sc.name+"_output", out)
	}
}
