// Package ast defines the Probescript abstract syntax tree: a sum type of
// roughly 35 node variants (spec §3), each carrying the token it
// originated from so every diagnostic raised later can point back at
// source.
package ast

import "github.com/slurpy-films/probescript/internal/token"

// Node is the root interface every AST node satisfies.
type Node interface {
	// Tok returns the token the node was built from. Every node must
	// return a non-nil token (invariant (i), spec §3).
	Tok() token.Token
	String() string
}

// Statement is a node executed for effect.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	exprNode()
}

// Base embeds the originating token and implements Tok() for every
// concrete node type by embedding it. It is exported so callers outside
// the package (the parser) can build node literals directly.
type Base struct {
	Token token.Token
}

func (b Base) Tok() token.Token { return b.Token }

// Program is the root of every parsed file.
type Program struct {
	Base
	Body []Statement
}

func (p *Program) String() string { return "Program" }

// Type annotations (`: num`, `: MyClass`, `: function<num, str>`) are not
// a distinct grammar — they are ordinary Expressions (an Identifier, a
// TemplateCall, or a MemberAccess for a qualified module type), parsed
// at the same precedence template arguments are. This mirrors the
// original implementation, whose `VarDeclarationType` stores its type
// annotation as an `Expr` (commonly an `IdentifierType` node) rather
// than a dedicated type-syntax node. The checker (internal/checker)
// interprets such an Expression as a type by name/shape.
