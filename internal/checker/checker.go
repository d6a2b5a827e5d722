// Package checker implements Probescript's static type checker (spec
// §4.10): a tree-walk over the AST that assigns every expression a
// types.Type and verifies declared/assigned/argument types are
// structurally compatible, aborting with the first TypeError found
// (spec §7 — checking is one of the four error layers that abort on
// first failure).
package checker

import (
	"fmt"

	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/types"
)

// Checker walks a single program's AST, threading a chain of
// types.Scope exactly the way the interpreter threads runtime scopes
// (spec §4.4's "same shadowing rules" applied at compile time).
type Checker struct {
	global    *types.Scope
	loopDepth int
	retStack  []*types.Type
}

// New creates a Checker with an empty global scope. Callers that need
// extra bindings seed them through Global() before calling Check
// (pkg/probescript's Compile declares `console` this way).
func New() *Checker {
	return &Checker{global: types.NewScope()}
}

// Global exposes the checker's root scope so a module loader can seed
// stdlib/import bindings before Check runs.
func (c *Checker) Global() *types.Scope { return c.global }

// Check type-checks an entire program, returning the first TypeError
// (or ReferenceError, ArgumentError, etc. — any of the taxonomy's
// checking-layer kinds) encountered.
func (c *Checker) Check(prog *ast.Program) error {
	scope := c.global.NewChild()
	for _, stmt := range prog.Body {
		if _, err := c.checkStmt(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) typeErrorAt(n ast.Node, format string, args ...interface{}) error {
	return errors.New(errors.TypeError, n.Tok(), format, args...)
}

func (c *Checker) refErrorAt(n ast.Node, format string, args ...interface{}) error {
	return errors.New(errors.ReferenceError, n.Tok(), format, args...)
}

func (c *Checker) argErrorAt(n ast.Node, format string, args ...interface{}) error {
	return errors.New(errors.ArgumentError, n.Tok(), format, args...)
}

// checkStmt dispatches on concrete statement type and returns the
// "value" type of the statement where one is meaningful (declarations
// return the declared type; most statements return Undef).
func (c *Checker) checkStmt(stmt ast.Statement, scope *types.Scope) (*types.Type, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return c.checkVarDecl(s, scope)
	case *ast.ExprStmt:
		return c.checkExpr(s.Expr, scope)
	case *ast.Block:
		child := scope.NewChild()
		for _, inner := range s.Body {
			if _, err := c.checkStmt(inner, child); err != nil {
				return nil, err
			}
		}
		return types.NewUndef(), nil
	case *ast.If:
		return types.NewUndef(), c.checkIf(s, scope)
	case *ast.While:
		if _, err := c.checkExpr(s.Cond, scope); err != nil {
			return nil, err
		}
		c.loopDepth++
		_, err := c.checkStmt(s.Body, scope)
		c.loopDepth--
		return types.NewUndef(), err
	case *ast.For:
		return types.NewUndef(), c.checkFor(s, scope)
	case *ast.Return:
		return types.NewUndef(), c.checkReturn(s, scope)
	case *ast.Break:
		if c.loopDepth == 0 {
			return nil, errors.New(errors.BreakError, s.Tok(), "break used outside of a loop")
		}
		return types.NewUndef(), nil
	case *ast.Continue:
		if c.loopDepth == 0 {
			return nil, errors.New(errors.ContinueError, s.Tok(), "continue used outside of a loop")
		}
		return types.NewUndef(), nil
	case *ast.Throw:
		_, err := c.checkExpr(s.Value, scope)
		return types.NewUndef(), err
	case *ast.Try:
		return types.NewUndef(), c.checkTry(s, scope)
	case *ast.Import:
		return types.NewUndef(), c.checkImport(s, scope)
	case *ast.Export:
		return types.NewUndef(), c.checkExport(s, scope)
	case *ast.ModuleDecl:
		return types.NewUndef(), nil
	case *ast.FnDecl:
		return c.checkFnDecl(s, scope, nil)
	case *ast.ClassDecl:
		return c.checkClassDecl(s, scope)
	case *ast.ProbeDecl:
		return c.checkProbeDecl(s, scope)
	default:
		return nil, fmt.Errorf("checker: unhandled statement %T", stmt)
	}
}

func (c *Checker) checkVarDecl(s *ast.VarDecl, scope *types.Scope) (*types.Type, error) {
	var declared *types.Type
	var err error
	if s.TypeAnn != nil {
		declared, err = c.resolveTypeExpr(s.TypeAnn, scope)
		if err != nil {
			return nil, err
		}
	}

	var valueType *types.Type
	if s.Value != nil {
		valueType, err = c.checkExpr(s.Value, scope)
		if err != nil {
			return nil, err
		}
	}

	result := declared
	switch {
	case declared != nil && valueType != nil:
		if !types.Compatible(declared, valueType) {
			return nil, c.typeErrorAt(s, "cannot assign %s to variable %q of type %s", valueType, s.Name, declared)
		}
	case declared == nil && valueType != nil:
		result = valueType
	case declared == nil && valueType == nil:
		result = types.NewAny()
	}

	if err := scope.Declare(s.Name, result); err != nil {
		return nil, errors.New(errors.RedefinitionError, s.Tok(), "%s", err.Error())
	}
	return result, nil
}

func (c *Checker) checkIf(s *ast.If, scope *types.Scope) error {
	if _, err := c.checkExpr(s.Cond, scope); err != nil {
		return err
	}
	if _, err := c.checkStmt(s.Then, scope); err != nil {
		return err
	}
	if s.Else != nil {
		if _, err := c.checkStmt(s.Else, scope); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkFor(s *ast.For, scope *types.Scope) error {
	child := scope.NewChild()
	for _, init := range s.Init {
		if _, err := c.checkStmt(init, child); err != nil {
			return err
		}
	}
	for _, cond := range s.Cond {
		if _, err := c.checkExpr(cond, child); err != nil {
			return err
		}
	}
	for _, upd := range s.Update {
		if _, err := c.checkExpr(upd, child); err != nil {
			return err
		}
	}
	c.loopDepth++
	_, err := c.checkStmt(s.Body, child)
	c.loopDepth--
	return err
}

func (c *Checker) checkReturn(s *ast.Return, scope *types.Scope) error {
	var got *types.Type = types.NewUndef()
	if s.Value != nil {
		var err error
		got, err = c.checkExpr(s.Value, scope)
		if err != nil {
			return err
		}
	}
	if len(c.retStack) == 0 {
		return errors.New(errors.ReturnError, s.Tok(), "return used outside of a function")
	}
	want := c.retStack[len(c.retStack)-1]
	if want != nil && !types.Compatible(want, got) {
		return c.typeErrorAt(s, "function returns %s, cannot return %s", want, got)
	}
	return nil
}

func (c *Checker) checkTry(s *ast.Try, scope *types.Scope) error {
	if _, err := c.checkStmt(s.Block, scope); err != nil {
		return err
	}
	catchScope := scope.NewChild()
	if s.CatchName != "" {
		catchScope.DeclareForce(s.CatchName, types.NewAny())
	}
	for _, inner := range s.Catch.Body {
		if _, err := c.checkStmt(inner, catchScope); err != nil {
			return err
		}
	}
	return nil
}

// checkImport binds the imported module (or its single dotted member)
// under its local name as a Module type, whose members are not tracked
// statically (spec §6).
func (c *Checker) checkImport(s *ast.Import, scope *types.Scope) error {
	local := s.Module
	if len(s.MemberPath) > 0 {
		local = s.MemberPath[len(s.MemberPath)-1]
	}
	if s.Alias != "" {
		local = s.Alias
	}
	scope.DeclareForce(local, types.NewModule(s.Module))
	return nil
}

func (c *Checker) checkExport(s *ast.Export, scope *types.Scope) error {
	if s.Decl != nil {
		_, err := c.checkStmt(s.Decl, scope)
		return err
	}
	if s.Value != nil {
		if _, err := c.checkExpr(s.Value, scope); err != nil {
			return err
		}
	}
	if _, ok := scope.Lookup(s.Name); !ok {
		return c.refErrorAt(s, "%s is not defined", s.Name)
	}
	return nil
}
