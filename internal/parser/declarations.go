package parser

import (
	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/token"
)

// parseFnDeclStmt parses `fn name<T1,T2>(params): RetType { body }`.
// isMethod is unused at the grammar level (methods and free functions
// share a shape) but documents the call site.
func (p *Parser) parseFnDeclStmt(isMethod bool) (ast.Statement, error) {
	fnTok := p.advance() // consume 'fn'
	return p.parseFnDeclAfterKeyword(fnTok, false)
}

// parseAsyncDeclStmt parses `async fn name(...) { ... }`.
func (p *Parser) parseAsyncDeclStmt() (ast.Statement, error) {
	asyncTok := p.advance()
	if _, err := p.expect(token.FN, "'fn'"); err != nil {
		return nil, err
	}
	return p.parseFnDeclAfterKeyword(asyncTok, true)
}

func (p *Parser) parseFnDeclAfterKeyword(fnTok token.Token, isAsync bool) (ast.Statement, error) {
	nameTok, err := p.expect(token.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	decl := &ast.FnDecl{Name: nameTok.Lexeme, IsAsync: isAsync}
	decl.Token = fnTok

	if p.check(token.LT) {
		tparams, err := p.parseTemplateParamNames()
		if err != nil {
			return nil, err
		}
		decl.TemplateParams = tparams
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	decl.Params = params

	if p.check(token.COLON) {
		p.advance()
		retType, err := p.parseTemplateArg()
		if err != nil {
			return nil, err
		}
		decl.ReturnType = retType
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	decl.Body = body.Body
	return decl, nil
}

// parseTemplateParamNames parses `<T1, T2, ...>` where each argument is
// a bare identifier naming a template parameter (spec §4.2's template
// declaration form, distinct from a template *call*'s argument
// expressions).
func (p *Parser) parseTemplateParamNames() ([]string, error) {
	if _, err := p.expect(token.LT, "'<'"); err != nil {
		return nil, err
	}
	var names []string
	for !p.check(token.GT) {
		nameTok, err := p.expect(token.IDENT, "template parameter name")
		if err != nil {
			return nil, err
		}
		names = append(names, nameTok.Lexeme)
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.GT, "'>'"); err != nil {
		return nil, err
	}
	return names, nil
}

func (p *Parser) parseClassDecl() (ast.Statement, error) {
	classTok := p.advance()
	nameTok, err := p.expect(token.IDENT, "class name")
	if err != nil {
		return nil, err
	}
	decl := &ast.ClassDecl{Name: nameTok.Lexeme}
	decl.Token = classTok

	if p.check(token.EXTENDS) {
		p.advance()
		super, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		decl.Extends = super
	}

	body, err := p.parseMembersBody(nameTok.Lexeme)
	if err != nil {
		return nil, err
	}
	decl.Body = body
	return decl, nil
}

// parseProbeDecl parses a probe declaration. Syntactically identical to
// a class; the one difference is a method named identically to the
// probe itself is renamed to "run" while parsing the body (spec §4.2,
// §4.7 — the probe's entry point).
func (p *Parser) parseProbeDecl() (ast.Statement, error) {
	probeTok := p.advance()
	nameTok, err := p.expect(token.IDENT, "probe name")
	if err != nil {
		return nil, err
	}
	decl := &ast.ProbeDecl{Name: nameTok.Lexeme}
	decl.Token = probeTok

	if p.check(token.EXTENDS) {
		p.advance()
		super, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		decl.Extends = super
	}

	body, err := p.parseMembersBody(nameTok.Lexeme)
	if err != nil {
		return nil, err
	}
	decl.Body = body
	return decl, nil
}

// parseMembersBody parses a class/probe body in "methods mode": a
// leading Identifier (or `new`, the constructor name) followed by `(`
// or `<` is a method declaration; a bare leading Identifier is an
// implicit field declaration with no `var`/`const` keyword; anything
// else falls through to an ordinary statement, left for the interpreter
// to reject per invariant (iv) (spec §4.6/§4.7). selfName renames a
// same-named method to "run".
func (p *Parser) parseMembersBody(selfName string) ([]ast.Statement, error) {
	if _, err := p.expect(token.LBRACE, "'{'"); err != nil {
		return nil, err
	}

	var body []ast.Statement
	for !p.check(token.RBRACE) && !p.atEnd() {
		stmt, err := p.parseMember(selfName)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}

	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseMember(selfName string) (ast.Statement, error) {
	cur := p.at()

	isNameLike := cur.Kind == token.IDENT || cur.Kind == token.NEW
	if isNameLike {
		next := p.peekAt(1)
		if next.Kind == token.LPAREN || next.Kind == token.LT {
			return p.parseMethodDecl(selfName)
		}
		if cur.Kind == token.IDENT {
			decl, err := p.parseVarDecl(false)
			if err != nil {
				return nil, err
			}
			consumeOptionalSemicolon(p)
			return decl, nil
		}
	}

	if cur.Kind == token.ASYNC {
		return p.parseAsyncDeclStmt()
	}

	return p.parseStmt()
}

// parseMethodDecl parses a method's name, optional template parameters,
// parameter list, optional return type, and body, renaming a
// same-named method to "run" (the probe entry point) along the way.
// `new` is accepted as a method name to support a constructor literally
// called `new`.
func (p *Parser) parseMethodDecl(selfName string) (ast.Statement, error) {
	nameTok := p.advance()
	name := nameTok.Lexeme
	if nameTok.Kind == token.NEW {
		name = "new"
	}
	if name == selfName {
		name = "run"
	}

	decl := &ast.FnDecl{Name: name}
	decl.Token = nameTok

	if p.check(token.LT) {
		tparams, err := p.parseTemplateParamNames()
		if err != nil {
			return nil, err
		}
		decl.TemplateParams = tparams
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	decl.Params = params

	if p.check(token.COLON) {
		p.advance()
		retType, err := p.parseTemplateArg()
		if err != nil {
			return nil, err
		}
		decl.ReturnType = retType
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	decl.Body = body.Body
	return decl, nil
}
