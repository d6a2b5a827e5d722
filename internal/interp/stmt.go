package interp

import (
	"fmt"

	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/runtime"
)

// evalStmt evaluates a statement for effect, returning the value it
// produced where one is meaningful (expression statements) and nil
// otherwise. Control transfers are returned as the *ReturnSignal /
// *BreakSignal / *ContinueSignal / *ThrowSignal error types.
func (i *Interp) evalStmt(stmt ast.Statement, scope *runtime.Scope) (runtime.Value, error) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return i.evalVarDecl(s, scope)
	case *ast.ExprStmt:
		return i.evalExpr(s.Expr, scope)
	case *ast.Block:
		return nil, i.evalBlockStmts(s.Body, scope.NewChild())
	case *ast.If:
		return nil, i.evalIf(s, scope)
	case *ast.While:
		return nil, i.evalWhile(s, scope)
	case *ast.For:
		return nil, i.evalFor(s, scope)
	case *ast.Return:
		var v runtime.Value = runtime.NewUndef()
		if s.Value != nil {
			var err error
			v, err = i.evalExpr(s.Value, scope)
			if err != nil {
				return nil, err
			}
		}
		return nil, &ReturnSignal{Value: v}
	case *ast.Break:
		return nil, &BreakSignal{}
	case *ast.Continue:
		return nil, &ContinueSignal{}
	case *ast.Throw:
		v, err := i.evalExpr(s.Value, scope)
		if err != nil {
			return nil, err
		}
		return nil, &ThrowSignal{Value: runtime.NewString(runtime.Stringify(v))}
	case *ast.Try:
		return nil, i.evalTry(s, scope)
	case *ast.Import:
		return nil, i.evalImport(s, scope)
	case *ast.Export:
		_, _, err := i.evalExport(s, scope)
		return nil, err
	case *ast.ModuleDecl:
		return nil, nil
	case *ast.FnDecl:
		fn := i.makeFunction(s, scope)
		if err := scope.Declare(s.Name, fn); err != nil {
			return nil, runtimeErrorAt(errors.RedefinitionError, s.Tok(), "%s", err.Error())
		}
		return fn, nil
	case *ast.ClassDecl:
		classTok := s.Tok()
		cls := &runtime.Class{Name: s.Name, Body: s.Body, Extends: s.Extends, DeclScope: scope, Tok: &classTok}
		if err := scope.Declare(s.Name, cls); err != nil {
			return nil, runtimeErrorAt(errors.RedefinitionError, s.Tok(), "%s", err.Error())
		}
		return cls, nil
	case *ast.ProbeDecl:
		probeTok := s.Tok()
		prb := &runtime.Probe{Name: s.Name, Body: s.Body, Extends: s.Extends, DeclScope: scope, Tok: &probeTok}
		if err := scope.Declare(s.Name, prb); err != nil {
			return nil, runtimeErrorAt(errors.RedefinitionError, s.Tok(), "%s", err.Error())
		}
		return prb, nil
	default:
		return nil, fmt.Errorf("interp: unhandled statement %T", stmt)
	}
}

func (i *Interp) evalVarDecl(s *ast.VarDecl, scope *runtime.Scope) (runtime.Value, error) {
	var v runtime.Value = runtime.NewUndef()
	if s.Value != nil {
		var err error
		v, err = i.evalExpr(s.Value, scope)
		if err != nil {
			return nil, err
		}
	}
	if err := scope.Declare(s.Name, v); err != nil {
		return nil, runtimeErrorAt(errors.RedefinitionError, s.Tok(), "%s", err.Error())
	}
	return v, nil
}

// evalBlockStmts runs a statement list in scope, stopping at the first
// control signal or error.
func (i *Interp) evalBlockStmts(body []ast.Statement, scope *runtime.Scope) error {
	for _, stmt := range body {
		if _, err := i.evalStmt(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interp) evalIf(s *ast.If, scope *runtime.Scope) error {
	cond, err := i.evalExpr(s.Cond, scope)
	if err != nil {
		return err
	}
	if runtime.ToBool(cond) {
		return i.evalBlockStmts(s.Then.Body, scope.NewChild())
	}
	if s.Else != nil {
		_, err := i.evalStmt(s.Else, scope)
		return err
	}
	return nil
}

func (i *Interp) evalWhile(s *ast.While, scope *runtime.Scope) error {
	for {
		cond, err := i.evalExpr(s.Cond, scope)
		if err != nil {
			return err
		}
		if !runtime.ToBool(cond) {
			return nil
		}
		if err := i.evalBlockStmts(s.Body.Body, scope.NewChild()); err != nil {
			if _, ok := err.(*BreakSignal); ok {
				return nil
			}
			if _, ok := err.(*ContinueSignal); ok {
				continue
			}
			return err
		}
	}
}

func (i *Interp) evalFor(s *ast.For, scope *runtime.Scope) error {
	loopScope := scope.NewChild()
	for _, init := range s.Init {
		if _, err := i.evalStmt(init, loopScope); err != nil {
			return err
		}
	}
	for {
		cont := true
		for _, cond := range s.Cond {
			v, err := i.evalExpr(cond, loopScope)
			if err != nil {
				return err
			}
			cont = runtime.ToBool(v)
		}
		if !cont {
			return nil
		}

		bodyErr := i.evalBlockStmts(s.Body.Body, loopScope.NewChild())
		if bodyErr != nil {
			if _, ok := bodyErr.(*BreakSignal); ok {
				return nil
			}
			if _, ok := bodyErr.(*ContinueSignal); !ok {
				return bodyErr
			}
		}

		for _, upd := range s.Update {
			if _, err := i.evalExpr(upd, loopScope); err != nil {
				return err
			}
		}
	}
}

// evalTry runs the try block, and on a caught ThrowSignal, binds the
// thrown value (if named) and runs the catch block (spec §7). Any other
// error (return/break/continue, or a real failure) propagates through
// unchanged.
func (i *Interp) evalTry(s *ast.Try, scope *runtime.Scope) error {
	err := i.evalBlockStmts(s.Block.Body, scope.NewChild())
	if err == nil {
		return nil
	}
	thrown, ok := err.(*ThrowSignal)
	if !ok {
		return err
	}
	catchScope := scope.NewChild()
	if s.CatchName != "" {
		catchScope.Declare(s.CatchName, thrown.Value)
	}
	return i.evalBlockStmts(s.Catch.Body, catchScope)
}

func (i *Interp) evalImport(s *ast.Import, scope *runtime.Scope) error {
	if i.Modules == nil {
		return runtimeErrorAt(errors.ImportError, s.Tok(), "no module resolver configured")
	}
	val, err := i.Modules.Resolve(s, i.Ctx.File)
	if err != nil {
		return err
	}
	local := s.Module
	if len(s.MemberPath) > 0 {
		local = s.MemberPath[len(s.MemberPath)-1]
	}
	if s.Alias != "" {
		local = s.Alias
	}
	if err := scope.Declare(local, val); err != nil {
		return runtimeErrorAt(errors.RedefinitionError, s.Tok(), "%s", err.Error())
	}
	return nil
}

// evalExport evaluates an Export statement and returns the bound
// name/value pair it records for Exports mode (spec §4.8).
func (i *Interp) evalExport(s *ast.Export, scope *runtime.Scope) (string, runtime.Value, error) {
	if s.Decl != nil {
		v, err := i.evalStmt(s.Decl, scope)
		if err != nil {
			return "", nil, err
		}
		return s.Name, v, nil
	}
	if s.Value != nil {
		v, err := i.evalExpr(s.Value, scope)
		if err != nil {
			return "", nil, err
		}
		if err := scope.Assign(s.Name, v); err != nil {
			scope.Declare(s.Name, v)
		}
		return s.Name, v, nil
	}
	v, ok := scope.Lookup(s.Name)
	if !ok {
		return "", nil, runtimeErrorAt(errors.ExportError, s.Tok(), "%s is not defined", s.Name)
	}
	return s.Name, v, nil
}
