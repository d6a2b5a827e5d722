// Package parser implements Probescript's recursive-descent,
// precedence-climbing parser (spec §4.2). Entry point is Parse, which
// loops parseStmt to EOF. There is no error recovery: the first
// SyntaxError aborts parsing (spec §1 Non-goals).
package parser

import (
	"fmt"

	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/errors"
	"github.com/slurpy-films/probescript/internal/lexer"
	"github.com/slurpy-films/probescript/internal/token"
)

// Parser walks a flat token slice produced by the lexer.
type Parser struct {
	toks   []token.Token
	pos    int
	file   string
	source string
}

// New constructs a Parser by first lexing src in its entirety (spec §4.1
// says the lexer produces the full token vector up front, terminated by
// an END token, before the parser runs).
func New(file, src string) (*Parser, error) {
	l := lexer.New(file, src)
	toks, err := l.Tokenize()
	if err != nil {
		return nil, err
	}
	return &Parser{toks: toks, file: file, source: src}, nil
}

// Parse runs parse_program: loop parseStmt to EOF (spec §4.2).
func Parse(file, src string) (*ast.Program, error) {
	p, err := New(file, src)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	if len(p.toks) > 0 {
		prog.Token = p.toks[0]
	}
	for !p.atEnd() {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, stmt)
	}
	return prog, nil
}

// --- token cursor ---

func (p *Parser) at() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // END
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) atEnd() bool {
	return p.at().Kind == token.END
}

func (p *Parser) advance() token.Token {
	tok := p.at()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(k token.Kind) bool {
	return p.at().Kind == k
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

// expect consumes the current token if it has kind k, else raises a
// SyntaxError carrying the §6 source window.
func (p *Parser) expect(k token.Kind, what string) (token.Token, error) {
	if !p.check(k) {
		return token.Token{}, p.syntaxErrorAt(p.at(), "expected %s, got %q", what, p.at().Lexeme)
	}
	return p.advance(), nil
}

// mark/reset implement the lightweight backtracking the template-call
// disambiguation needs (spec §9 "try_parse_template_call that can roll
// back cleanly").
func (p *Parser) mark() int   { return p.pos }
func (p *Parser) reset(m int) { p.pos = m }

func (p *Parser) syntaxErrorAt(tok token.Token, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return errors.New(errors.SyntaxError, tok, "%s", msg)
}

// SourceWindow renders the full §6 diagnostic window for a SyntaxError
// produced during this parse, given the original source text.
func (p *Parser) SourceWindow(err error, color bool) string {
	if d, ok := err.(*errors.Diagnostic); ok {
		return errors.Format(d, p.source, color)
	}
	return err.Error()
}

func consumeOptionalSemicolon(p *Parser) {
	// A trailing semicolon is consumed but never required (spec §4.2).
	if p.check(token.SEMICOLON) {
		p.advance()
	}
}
