package parser

import (
	"testing"

	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/token"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse("test.prb", src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parseProgram(t, `var x = 5;`)
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
	v, ok := prog.Body[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Body[0])
	}
	if v.Name != "x" || v.Const {
		t.Fatalf("unexpected var decl: %+v", v)
	}
	lit, ok := v.Value.(*ast.NumberLit)
	if !ok || lit.Value != 5 {
		t.Fatalf("expected numeric literal 5, got %+v", v.Value)
	}
}

func TestParseConstDecl(t *testing.T) {
	prog := parseProgram(t, `const pi = 3;`)
	v := prog.Body[0].(*ast.VarDecl)
	if !v.Const {
		t.Fatalf("expected const declaration")
	}
}

func TestParseBinOpPrecedence(t *testing.T) {
	prog := parseProgram(t, `var x = 1 + 2 * 3;`)
	v := prog.Body[0].(*ast.VarDecl)
	add, ok := v.Value.(*ast.BinOp)
	if !ok || add.Op != token.PLUS {
		t.Fatalf("expected top-level +, got %+v", v.Value)
	}
	if _, ok := add.Left.(*ast.NumberLit); !ok {
		t.Fatalf("expected left operand to be a literal, got %T", add.Left)
	}
	mul, ok := add.Right.(*ast.BinOp)
	if !ok || mul.Op != token.STAR {
		t.Fatalf("expected right operand to be *, got %+v", add.Right)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := parseProgram(t, `if (x) { return 1; } else { return 2; }`)
	ifStmt, ok := prog.Body[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Body[0])
	}
	if ifStmt.Then == nil || ifStmt.Else == nil {
		t.Fatalf("expected both branches to be present")
	}
}

func TestParseForLoop(t *testing.T) {
	prog := parseProgram(t, `for (var i = 0; i < 10; i = i + 1) { break; }`)
	forStmt, ok := prog.Body[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", prog.Body[0])
	}
	if len(forStmt.Init) != 1 || len(forStmt.Cond) != 1 || len(forStmt.Update) != 1 {
		t.Fatalf("unexpected for-loop shape: %+v", forStmt)
	}
}

func TestParseFnDecl(t *testing.T) {
	prog := parseProgram(t, `fn add(a, b) { return a + b; }`)
	fn, ok := prog.Body[0].(*ast.FnDecl)
	if !ok {
		t.Fatalf("expected *ast.FnDecl, got %T", prog.Body[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected fn decl: %+v", fn)
	}
}

func TestParseAsyncFnDecl(t *testing.T) {
	prog := parseProgram(t, `async fn work() { return 1; }`)
	fn, ok := prog.Body[0].(*ast.FnDecl)
	if !ok || !fn.IsAsync {
		t.Fatalf("expected an async *ast.FnDecl, got %+v", prog.Body[0])
	}
}

func TestParseClassDecl(t *testing.T) {
	prog := parseProgram(t, `
class Animal {
	name = "";
	speak() { return "..."; }
}

class Dog extends Animal {
	speak() { return "Woof"; }
}
`)
	if len(prog.Body) != 2 {
		t.Fatalf("expected 2 class declarations, got %d", len(prog.Body))
	}
	dog, ok := prog.Body[1].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", prog.Body[1])
	}
	ident, ok := dog.Extends.(*ast.Ident)
	if !ok || ident.Name != "Animal" {
		t.Fatalf("expected Dog to extend Animal, got %+v", dog.Extends)
	}
}

// TestParseProbeRenamesSelfMethod pins down spec §4.2's "a method whose
// name equals the probe's name is renamed to run".
func TestParseProbeRenamesSelfMethod(t *testing.T) {
	prog := parseProgram(t, `
probe Main {
	Main() {
		console.println("hi");
	}
}
`)
	probe, ok := prog.Body[0].(*ast.ProbeDecl)
	if !ok {
		t.Fatalf("expected *ast.ProbeDecl, got %T", prog.Body[0])
	}
	if probe.Name != "Main" {
		t.Fatalf("expected probe named Main, got %q", probe.Name)
	}
	if len(probe.Body) != 1 {
		t.Fatalf("expected 1 member, got %d", len(probe.Body))
	}
	fn, ok := probe.Body[0].(*ast.FnDecl)
	if !ok || fn.Name != "run" {
		t.Fatalf("expected self-named method renamed to run, got %+v", probe.Body[0])
	}
}

func TestParseTryCatch(t *testing.T) {
	prog := parseProgram(t, `try { throw "boom"; } catch (e) { return e; }`)
	tryStmt, ok := prog.Body[0].(*ast.Try)
	if !ok {
		t.Fatalf("expected *ast.Try, got %T", prog.Body[0])
	}
	if tryStmt.CatchName != "e" || tryStmt.Catch == nil {
		t.Fatalf("unexpected try/catch shape: %+v", tryStmt)
	}
}

func TestParseImportExport(t *testing.T) {
	prog := parseProgram(t, `
import math;
export const answer = 42;
`)
	imp, ok := prog.Body[0].(*ast.Import)
	if !ok || imp.Module != "math" {
		t.Fatalf("expected import of math, got %+v", prog.Body[0])
	}
	exp, ok := prog.Body[1].(*ast.Export)
	if !ok || exp.Decl == nil {
		t.Fatalf("expected export wrapping a declaration, got %+v", prog.Body[1])
	}
}

func TestParseNewExpression(t *testing.T) {
	prog := parseProgram(t, `var d = new Dog("Rex");`)
	v := prog.Body[0].(*ast.VarDecl)
	n, ok := v.Value.(*ast.New)
	if !ok {
		t.Fatalf("expected *ast.New, got %T", v.Value)
	}
	if len(n.Args) != 1 {
		t.Fatalf("expected 1 constructor argument, got %d", len(n.Args))
	}
}

// TestObjectLiteralPrecedence pins down Open Question (d): object-literal
// precedence sits below relational operators, so a bare, unparenthesized
// `{...}` used as a comparison operand is a syntax error — it must be
// parenthesized.
func TestObjectLiteralPrecedence(t *testing.T) {
	if _, err := Parse("test.prb", `var ok = {a: 1} < 2;`); err == nil {
		t.Fatalf("expected a syntax error for a bare object literal as a relational operand")
	}

	prog := parseProgram(t, `var ok = ({a: 1}) < 2;`)
	v := prog.Body[0].(*ast.VarDecl)
	if _, ok := v.Value.(*ast.BinOp); !ok {
		t.Fatalf("expected a comparison expression, got %T", v.Value)
	}
}

// TestObjectLiteralUnambiguousPositionsStillParse confirms the
// relational-operand gate doesn't overcorrect: object literals remain
// legal wherever they aren't a bare relational/additive/postfix operand.
func TestObjectLiteralUnambiguousPositionsStillParse(t *testing.T) {
	prog := parseProgram(t, `var obj = {a: 1, b: 2};`)
	v := prog.Body[0].(*ast.VarDecl)
	if _, ok := v.Value.(*ast.MapLit); !ok {
		t.Fatalf("expected *ast.MapLit, got %T", v.Value)
	}

	prog = parseProgram(t, `var arr = [{a: 1}, {b: 2}];`)
	v = prog.Body[0].(*ast.VarDecl)
	arr, ok := v.Value.(*ast.ArrayLit)
	if !ok {
		t.Fatalf("expected *ast.ArrayLit, got %T", v.Value)
	}
	if len(arr.Elements) != 2 {
		t.Fatalf("expected 2 array elements, got %d", len(arr.Elements))
	}

	prog = parseProgram(t, `console.println({a: 1});`)
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
}

func TestParseArrowFunction(t *testing.T) {
	prog := parseProgram(t, `var inc = fn(x) => x + 1;`)
	v := prog.Body[0].(*ast.VarDecl)
	arrow, ok := v.Value.(*ast.Arrow)
	if !ok {
		t.Fatalf("expected *ast.Arrow, got %T", v.Value)
	}
	if len(arrow.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(arrow.Params))
	}
}

func TestParseSyntaxErrorHasNoRecovery(t *testing.T) {
	_, err := Parse("test.prb", `var x = ;`)
	if err == nil {
		t.Fatalf("expected a syntax error")
	}
}
