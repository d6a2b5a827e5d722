package probescript

import (
	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/types"
)

// Symbol describes one top-level binding a checked Program declared.
type Symbol struct {
	Name string
	Kind types.Kind
}

// Program is a parsed and (unless WithTypeCheck(false)) type-checked
// script, as returned by Engine.Compile.
type Program struct {
	ast     *ast.Program
	symbols []Symbol
}

func (p *Program) AST() *ast.Program { return p.ast }

func (p *Program) Symbols() []Symbol { return p.symbols }

func symbolsFromScope(scope *types.Scope) []Symbol {
	own := scope.Own()
	syms := make([]Symbol, 0, len(own))
	for name, t := range own {
		syms = append(syms, Symbol{Name: name, Kind: t.Kind})
	}
	return syms
}
