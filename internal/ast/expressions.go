package ast

import "github.com/slurpy-films/probescript/internal/token"

// --- literals ---

type NumberLit struct {
	Base
	Value float64
}

func (n *NumberLit) String() string { return n.Token.Lexeme }
func (n *NumberLit) exprNode()      {}

type StringLit struct {
	Base
	Value string
}

func (s *StringLit) String() string { return s.Value }
func (s *StringLit) exprNode()      {}

type BoolLit struct {
	Base
	Value bool
}

func (b *BoolLit) String() string { return b.Token.Lexeme }
func (b *BoolLit) exprNode()      {}

type NullLit struct{ Base }

func (n *NullLit) String() string { return "null" }
func (n *NullLit) exprNode()      {}

type UndefinedLit struct{ Base }

func (u *UndefinedLit) String() string { return "undefined" }
func (u *UndefinedLit) exprNode()      {}

type Ident struct {
	Base
	Name string
}

func (i *Ident) String() string { return i.Name }
func (i *Ident) exprNode()      {}

// --- compound literals ---

type ArrayLit struct {
	Base
	Elements []Expression
}

func (a *ArrayLit) String() string { return "ArrayLit" }
func (a *ArrayLit) exprNode()      {}

// Property is a single key:value pair inside a MapLit.
type Property struct {
	Base
	Key   string
	Value Expression
}

func (p *Property) String() string { return p.Key }
func (p *Property) exprNode()      {}

type MapLit struct {
	Base
	Properties []*Property
}

func (m *MapLit) String() string { return "MapLit" }
func (m *MapLit) exprNode()      {}

// --- operators ---

type BinOp struct {
	Base
	Op    token.Kind
	Left  Expression
	Right Expression
}

func (b *BinOp) String() string { return b.Op.String() }
func (b *BinOp) exprNode()      {}

type UnaryPrefix struct {
	Base
	Op      token.Kind
	Operand Expression
}

func (u *UnaryPrefix) String() string { return u.Op.String() }
func (u *UnaryPrefix) exprNode()      {}

type UnaryPostfix struct {
	Base
	Op      token.Kind
	Operand Expression
}

func (u *UnaryPostfix) String() string { return u.Op.String() }
func (u *UnaryPostfix) exprNode()      {}

type Ternary struct {
	Base
	Cond Expression
	Then Expression
	Else Expression
}

func (t *Ternary) String() string { return "Ternary" }
func (t *Ternary) exprNode()      {}

// Assign is a plain or compound assignment whose left side is a simple
// identifier. Assignments to member expressions parse as MemberAssign
// instead (spec §4.2 "Member expressions").
type Assign struct {
	Base
	Op     token.Kind // ASSIGN, PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ
	Target *Ident
	Value  Expression
}

func (a *Assign) String() string { return "Assign" }
func (a *Assign) exprNode()      {}

// MemberAccess is `obj.prop` or `obj[expr]`.
type MemberAccess struct {
	Base
	Object   Expression
	Property string     // set when Computed is false
	Index    Expression // set when Computed is true
	Computed bool
}

func (m *MemberAccess) String() string { return "MemberAccess" }
func (m *MemberAccess) exprNode()      {}

// MemberAssign is `obj.prop = v` / `obj[i] += v`, produced by the parser
// whenever the left-hand side of an assignment operator is a
// MemberAccess (spec §4.2).
type MemberAssign struct {
	Base
	Op     token.Kind
	Target *MemberAccess
	Value  Expression
}

func (m *MemberAssign) String() string { return "MemberAssign" }
func (m *MemberAssign) exprNode()      {}

// Call is `callee(args...)`.
type Call struct {
	Base
	Callee Expression
	Args   []Expression
}

func (c *Call) String() string { return "Call" }
func (c *Call) exprNode()      {}

// TemplateCall is `callee<args...>`, optionally immediately followed by
// a Call (spec §4.2). TemplateArgs are parsed as ordinary expressions
// (commonly an Ident naming a type, or a nested TemplateCall for
// `function<R, A, B>`); the checker interprets them as types.
type TemplateCall struct {
	Base
	Callee       Expression
	TemplateArgs []Expression
}

func (t *TemplateCall) String() string { return "TemplateCall" }
func (t *TemplateCall) exprNode()      {}

// New is `new Ctor(args...)`.
type New struct {
	Base
	Constructor Expression
	Args        []Expression
}

func (n *New) String() string { return "New" }
func (n *New) exprNode()      {}

// Arrow is a first-class function literal: `fn(params) => expr` or
// `fn(params) { stmts }`.
type Arrow struct {
	Base
	Params     []*Param
	Body       []Statement // a single Return of the expression for the expr form
	IsExpr     bool
	IsAsync    bool
	ReturnType Expression
}

func (a *Arrow) String() string { return "Arrow" }
func (a *Arrow) exprNode()      {}

// Await is `await expr`.
type Await struct {
	Base
	Operand Expression
}

func (a *Await) String() string { return "Await" }
func (a *Await) exprNode()      {}

// Cast is `expr as Type`.
type Cast struct {
	Base
	Operand  Expression
	TypeExpr Expression
}

func (c *Cast) String() string { return "Cast" }
func (c *Cast) exprNode()      {}
