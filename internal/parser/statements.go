package parser

import (
	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/token"
)

// parseStmt dispatches on the current token's kind (spec §4.2).
func (p *Parser) parseStmt() (ast.Statement, error) {
	switch p.at().Kind {
	case token.VAR, token.CONST:
		return p.parseVarDeclStmt()
	case token.FN:
		return p.parseFnDeclStmt(false)
	case token.ASYNC:
		return p.parseAsyncDeclStmt()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		tok := p.advance()
		consumeOptionalSemicolon(p)
		return &ast.Break{Base: ast.Base{Token: tok}}, nil
	case token.CONTINUE:
		tok := p.advance()
		consumeOptionalSemicolon(p)
		return &ast.Continue{Base: ast.Base{Token: tok}}, nil
	case token.THROW:
		return p.parseThrow()
	case token.TRY:
		return p.parseTry()
	case token.IMPORT:
		return p.parseImport()
	case token.EXPORT:
		return p.parseExport()
	case token.MODULE:
		return p.parseModuleDecl()
	case token.CLASS:
		return p.parseClassDecl()
	case token.PROBE:
		return p.parseProbeDecl()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	lb, err := p.expect(token.LBRACE, "'{'")
	if err != nil {
		return nil, err
	}
	blk := &ast.Block{}
	blk.Token = lb
	for !p.check(token.RBRACE) && !p.atEnd() {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		blk.Body = append(blk.Body, stmt)
	}
	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return blk, nil
}

func (p *Parser) parseVarDeclStmt() (ast.Statement, error) {
	decl, err := p.parseVarDecl(true)
	if err != nil {
		return nil, err
	}
	consumeOptionalSemicolon(p)
	return decl, nil
}

// parseVarDecl parses `(var|const) name (: type)? (= expr)?`. When
// tkEaten is false there is no leading var/const keyword to consume and
// the declaration is never const (used by the class/probe "methods mode"
// body parser, which treats a bare leading identifier as an implicit
// field declaration -- spec §4.6/§4.7).
func (p *Parser) parseVarDecl(tkEaten bool) (*ast.VarDecl, error) {
	isConst := false
	startTok := p.at()
	if tkEaten {
		kw := p.advance()
		startTok = kw
		isConst = kw.Kind == token.CONST
	}
	nameTok, err := p.expect(token.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Name: nameTok.Lexeme, Const: isConst}
	decl.Token = startTok

	if p.check(token.COLON) {
		p.advance()
		typeExpr, err := p.parseTemplateArg()
		if err != nil {
			return nil, err
		}
		decl.TypeAnn = typeExpr
	}

	if p.check(token.ASSIGN) {
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decl.Value = val
	}

	return decl, nil
}

func (p *Parser) parseExprStmt() (ast.Statement, error) {
	tok := p.at()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	consumeOptionalSemicolon(p)
	return &ast.ExprStmt{Base: ast.Base{Token: tok}, Expr: expr}, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	tok := p.advance()
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	var then *ast.Block
	if p.check(token.LBRACE) {
		then, err = p.parseBlock()
	} else {
		// a braceless body is a single statement, wrapped as a block
		var body ast.Statement
		body, err = p.parseStmt()
		then = &ast.Block{Body: []ast.Statement{body}}
		then.Token = tok
	}
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{Cond: cond, Then: then}
	stmt.Token = tok

	if p.check(token.ELSE) {
		p.advance()
		if p.check(token.IF) {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseIf
		} else {
			elseBlk, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseBlk
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	tok := p.advance()
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Base: ast.Base{Token: tok}, Cond: cond, Body: body}, nil
}

// parseFor implements the C-style `for (init; cond; update) body`, each
// clause a comma-separated list of statements/expressions (spec §4.2).
func (p *Parser) parseFor() (ast.Statement, error) {
	tok := p.advance()
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}

	var init []ast.Statement
	for !p.check(token.SEMICOLON) {
		var stmt ast.Statement
		var err error
		if p.match(token.VAR, token.CONST) {
			stmt, err = p.parseVarDecl(true)
		} else {
			exprTok := p.at()
			var e ast.Expression
			e, err = p.parseExpr()
			if err == nil {
				stmt = &ast.ExprStmt{Base: ast.Base{Token: exprTok}, Expr: e}
			}
		}
		if err != nil {
			return nil, err
		}
		init = append(init, stmt)
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}

	var cond []ast.Expression
	for !p.check(token.SEMICOLON) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cond = append(cond, e)
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}

	var update []ast.Expression
	for !p.check(token.RPAREN) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		update = append(update, e)
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.For{Base: ast.Base{Token: tok}, Init: init, Cond: cond, Update: update, Body: body}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	tok := p.advance()
	stmt := &ast.Return{}
	stmt.Token = tok
	if !p.check(token.SEMICOLON) && !p.check(token.RBRACE) && !p.atEnd() {
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Value = val
	}
	consumeOptionalSemicolon(p)
	return stmt, nil
}

func (p *Parser) parseThrow() (ast.Statement, error) {
	tok := p.advance()
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	consumeOptionalSemicolon(p)
	return &ast.Throw{Base: ast.Base{Token: tok}, Value: val}, nil
}

// parseTry implements `try { ... } catch (name) { ... }` (spec §4.2,
// §7). The catch binding name and its parens are both optional:
// `catch { ... }`, `catch () { ... }` and `catch (e) { ... }` all parse.
func (p *Parser) parseTry() (ast.Statement, error) {
	tok := p.advance()
	tryBlk, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.Try{Block: tryBlk}
	stmt.Token = tok

	if _, err := p.expect(token.CATCH, "'catch'"); err != nil {
		return nil, err
	}
	if p.check(token.LPAREN) {
		p.advance()
		if p.check(token.IDENT) {
			nameTok := p.advance()
			stmt.CatchName = nameTok.Lexeme
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
	}
	catchBlk, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.Catch = catchBlk
	return stmt, nil
}

// parseImport handles both `import m;`, `import m as alias;`, and the
// dotted `import m.sub;` form (spec §6).
func (p *Parser) parseImport() (ast.Statement, error) {
	tok := p.advance()
	nameTok, err := p.expect(token.IDENT, "module name")
	if err != nil {
		return nil, err
	}
	stmt := &ast.Import{Module: nameTok.Lexeme}
	stmt.Token = tok

	for p.check(token.DOT) {
		p.advance()
		memberTok, err := p.expect(token.IDENT, "module member")
		if err != nil {
			return nil, err
		}
		stmt.MemberPath = append(stmt.MemberPath, memberTok.Lexeme)
	}

	if p.check(token.AS) {
		p.advance()
		aliasTok, err := p.expect(token.IDENT, "alias")
		if err != nil {
			return nil, err
		}
		stmt.Alias = aliasTok.Lexeme
	}

	consumeOptionalSemicolon(p)
	return stmt, nil
}

// parseExport handles `export fn/class/probe ...`, `export var/const
// name = expr;`, `export name;`, and `export name = expr;` (spec §4.8's
// Exports mode).
func (p *Parser) parseExport() (ast.Statement, error) {
	tok := p.advance()
	stmt := &ast.Export{}
	stmt.Token = tok

	switch p.at().Kind {
	case token.FN:
		decl, err := p.parseFnDeclStmt(false)
		if err != nil {
			return nil, err
		}
		stmt.Decl = decl
		stmt.Name = decl.(*ast.FnDecl).Name
		return stmt, nil
	case token.ASYNC:
		decl, err := p.parseAsyncDeclStmt()
		if err != nil {
			return nil, err
		}
		stmt.Decl = decl
		stmt.Name = decl.(*ast.FnDecl).Name
		return stmt, nil
	case token.CLASS:
		decl, err := p.parseClassDecl()
		if err != nil {
			return nil, err
		}
		stmt.Decl = decl
		stmt.Name = decl.(*ast.ClassDecl).Name
		return stmt, nil
	case token.PROBE:
		decl, err := p.parseProbeDecl()
		if err != nil {
			return nil, err
		}
		stmt.Decl = decl
		stmt.Name = decl.(*ast.ProbeDecl).Name
		return stmt, nil
	case token.VAR, token.CONST:
		decl, err := p.parseVarDeclStmt()
		if err != nil {
			return nil, err
		}
		stmt.Decl = decl
		stmt.Name = decl.(*ast.VarDecl).Name
		return stmt, nil
	}

	nameTok, err := p.expect(token.IDENT, "export name")
	if err != nil {
		return nil, err
	}
	stmt.Name = nameTok.Lexeme
	if p.check(token.ASSIGN) {
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Value = val
	}
	consumeOptionalSemicolon(p)
	return stmt, nil
}

// parseModuleDecl parses `module name;`, retaining the name so
// pkg/probescript's LoadProject can index project files by module name
// without re-scanning raw source (SPEC_FULL.md "Supplemented features").
func (p *Parser) parseModuleDecl() (ast.Statement, error) {
	tok := p.advance()
	nameTok, err := p.expect(token.IDENT, "module name")
	if err != nil {
		return nil, err
	}
	consumeOptionalSemicolon(p)
	return &ast.ModuleDecl{Base: ast.Base{Token: tok}, Name: nameTok.Lexeme}, nil
}
