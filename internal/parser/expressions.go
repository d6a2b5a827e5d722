package parser

import (
	"strconv"

	"github.com/slurpy-films/probescript/internal/ast"
	"github.com/slurpy-films/probescript/internal/token"
)

// parseExpr is the expression entry point (spec §4.2's precedence
// ladder, lowest to highest: assignment, ternary, logical or/and,
// equality, relational, additive, multiplicative, cast, unary/await,
// postfix call/member/template, primary).
func (p *Parser) parseExpr() (ast.Expression, error) {
	return p.parseAssign()
}

func (p *Parser) parseAssign() (ast.Expression, error) {
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if !p.at().Kind.IsAssignOp() {
		return left, nil
	}
	opTok := p.advance()
	value, err := p.parseAssign()
	if err != nil {
		return nil, err
	}

	switch t := left.(type) {
	case *ast.Ident:
		return &ast.Assign{Base: ast.Base{Token: opTok}, Op: opTok.Kind, Target: t, Value: value}, nil
	case *ast.MemberAccess:
		return &ast.MemberAssign{Base: ast.Base{Token: opTok}, Op: opTok.Kind, Target: t, Value: value}, nil
	default:
		return nil, p.syntaxErrorAt(opTok, "invalid assignment target")
	}
}

func (p *Parser) parseTernary() (ast.Expression, error) {
	cond, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if !p.check(token.QUESTION) {
		return cond, nil
	}
	qTok := p.advance()
	then, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON, "':'"); err != nil {
		return nil, err
	}
	els, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	return &ast.Ternary{Base: ast.Base{Token: qTok}, Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.OR) {
		opTok := p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Token: opTok}, Op: opTok.Kind, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(token.AND) {
		opTok := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Token: opTok}, Op: opTok.Kind, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseEqualityOperand()
	if err != nil {
		return nil, err
	}
	for p.match(token.EQ, token.NEQ) {
		opTok := p.advance()
		right, err := p.parseEqualityOperand()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Token: opTok}, Op: opTok.Kind, Left: left, Right: right}
	}
	return left, nil
}

// parseEqualityOperand implements Open Question (d): object-literal
// precedence sits below relational operators, so a bare `{...}` is only
// reachable here (equality level and looser) — parseRelational and
// everything tighter than it (additive, postfix, primary, ...) never
// recognizes `{` as the start of an expression. Using an object literal
// as a relational/additive/postfix operand requires wrapping it in
// parens, which restarts the full ladder from parsePrimary's LPAREN
// case.
func (p *Parser) parseEqualityOperand() (ast.Expression, error) {
	if p.check(token.LBRACE) {
		return p.parseMapLit()
	}
	return p.parseRelational()
}

// parseRelational handles <, >, <=, >=. By the time control reaches
// here, a leading `<` following an identifier/call has already been
// offered to tryParseTemplateCall inside parsePostfix; if that rolled
// back, the `<` surfaces here as an ordinary comparison operator (spec
// §9's template-call-vs-comparison disambiguation).
func (p *Parser) parseRelational() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.match(token.LT, token.GT, token.LE, token.GE) {
		opTok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Token: opTok}, Op: opTok.Kind, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.match(token.PLUS, token.MINUS) {
		opTok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Token: opTok}, Op: opTok.Kind, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseCast()
	if err != nil {
		return nil, err
	}
	for p.match(token.STAR, token.SLASH, token.PERCENT) {
		opTok := p.advance()
		right, err := p.parseCast()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Base: ast.Base{Token: opTok}, Op: opTok.Kind, Left: left, Right: right}
	}
	return left, nil
}

// parseCast handles the postfix `expr as Type` form.
func (p *Parser) parseCast() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(token.AS) {
		asTok := p.advance()
		typeExpr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.Cast{Base: ast.Base{Token: asTok}, Operand: left, TypeExpr: typeExpr}
	}
	return left, nil
}

// parseUnary handles prefix !, -, ++, --, and `await`.
func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.match(token.BANG, token.MINUS, token.INC, token.DEC) {
		opTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryPrefix{Base: ast.Base{Token: opTok}, Op: opTok.Kind, Operand: operand}, nil
	}
	if p.check(token.AWAIT) {
		awaitTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Await{Base: ast.Base{Token: awaitTok}, Operand: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix chains member access, computed index, call, template
// call, and trailing ++/-- onto a primary expression (spec §4.2).
func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.check(token.DOT):
			dotTok := p.advance()
			nameTok, err := p.expect(token.IDENT, "property name")
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberAccess{Base: ast.Base{Token: dotTok}, Object: expr, Property: nameTok.Lexeme}

		case p.check(token.LBRACKET):
			lbTok := p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET, "']'"); err != nil {
				return nil, err
			}
			expr = &ast.MemberAccess{Base: ast.Base{Token: lbTok}, Object: expr, Index: idx, Computed: true}

		case p.check(token.LPAREN):
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			tok := expr.Tok()
			expr = &ast.Call{Base: ast.Base{Token: tok}, Callee: expr, Args: args}

		case p.check(token.LT):
			tmpl, ok, err := p.tryParseTemplateCall(expr)
			if err != nil {
				return nil, err
			}
			if !ok {
				return expr, nil
			}
			expr = tmpl

		case p.match(token.INC, token.DEC):
			opTok := p.advance()
			expr = &ast.UnaryPostfix{Base: ast.Base{Token: opTok}, Op: opTok.Kind, Operand: expr}

		default:
			return expr, nil
		}
	}
}

// tryParseTemplateCall attempts `callee<arg, arg, ...>` starting at the
// current `<`. It parses each argument at additive precedence
// (parseTemplateArg) — below relational so the closing `>` can never be
// swallowed as a comparison operator — and backtracks cleanly to a plain
// `<` comparison if the shape doesn't hold together (spec §9).
func (p *Parser) tryParseTemplateCall(callee ast.Expression) (ast.Expression, bool, error) {
	mark := p.mark()
	ltTok := p.advance() // consume '<'

	first, err := p.parseTemplateArg()
	if err != nil {
		p.reset(mark)
		return nil, false, nil
	}
	args := []ast.Expression{first}

	for p.check(token.COMMA) {
		p.advance()
		arg, err := p.parseTemplateArg()
		if err != nil {
			p.reset(mark)
			return nil, false, nil
		}
		args = append(args, arg)
	}

	if !p.check(token.GT) {
		p.reset(mark)
		return nil, false, nil
	}
	p.advance() // consume '>'

	tmpl := &ast.TemplateCall{Base: ast.Base{Token: ltTok}, Callee: callee, TemplateArgs: args}

	if p.check(token.LPAREN) {
		callArgs, err := p.parseArgs()
		if err != nil {
			return nil, false, err
		}
		return &ast.Call{Base: ast.Base{Token: ltTok}, Callee: tmpl, Args: callArgs}, true, nil
	}
	return tmpl, true, nil
}

// parseTemplateArg parses a single type/template argument at additive
// precedence, used both by `<...>` template argument lists and by `:
// Type` annotations (they share a grammar position in the original).
func (p *Parser) parseTemplateArg() (ast.Expression, error) {
	return p.parseAdditive()
}

func (p *Parser) parseArgs() ([]ast.Expression, error) {
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !p.check(token.RPAREN) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.at()

	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.syntaxErrorAt(tok, "invalid number literal %q", tok.Lexeme)
		}
		return &ast.NumberLit{Base: ast.Base{Token: tok}, Value: v}, nil

	case token.STRING:
		p.advance()
		return &ast.StringLit{Base: ast.Base{Token: tok}, Value: tok.Lexeme}, nil

	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.BoolLit{Base: ast.Base{Token: tok}, Value: tok.Kind == token.TRUE}, nil

	case token.NULL:
		p.advance()
		return &ast.NullLit{Base: ast.Base{Token: tok}}, nil

	case token.UNDEFINED:
		p.advance()
		return &ast.UndefinedLit{Base: ast.Base{Token: tok}}, nil

	case token.IDENT:
		p.advance()
		return &ast.Ident{Base: ast.Base{Token: tok}, Name: tok.Lexeme}, nil

	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return expr, nil

	case token.LBRACKET:
		return p.parseArrayLit()

	case token.NEW:
		return p.parseNewExpr()

	case token.FN:
		return p.parseArrowLit(false)

	case token.ASYNC:
		asyncTok := p.advance()
		if !p.check(token.FN) {
			return nil, p.syntaxErrorAt(asyncTok, "expected 'fn' after 'async'")
		}
		return p.parseArrowLit(true)
	}

	return nil, p.syntaxErrorAt(tok, "unexpected token %q", tok.Lexeme)
}

func (p *Parser) parseArrayLit() (ast.Expression, error) {
	lbTok := p.advance()
	lit := &ast.ArrayLit{Base: ast.Base{Token: lbTok}}
	for !p.check(token.RBRACKET) {
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, elem)
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACKET, "']'"); err != nil {
		return nil, err
	}
	return lit, nil
}

// parseMapLit parses `{ key: value, ... }`, an object literal. Keys may
// be identifiers or string literals.
func (p *Parser) parseMapLit() (ast.Expression, error) {
	lbTok := p.advance()
	lit := &ast.MapLit{Base: ast.Base{Token: lbTok}}
	for !p.check(token.RBRACE) {
		keyTok := p.at()
		var key string
		switch keyTok.Kind {
		case token.IDENT, token.STRING:
			p.advance()
			key = keyTok.Lexeme
		default:
			return nil, p.syntaxErrorAt(keyTok, "expected property key")
		}
		if _, err := p.expect(token.COLON, "':'"); err != nil {
			return nil, err
		}
		val, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		lit.Properties = append(lit.Properties, &ast.Property{Base: ast.Base{Token: keyTok}, Key: key, Value: val})
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) parseNewExpr() (ast.Expression, error) {
	newTok := p.advance()
	ctor, err := p.parsePostfixNoCallTemplateGuard()
	if err != nil {
		return nil, err
	}
	// Allow `new Ctor<T>(...)`: the template call, if any, was already
	// folded into ctor by parsePostfixNoCallTemplateGuard's member loop.
	var args []ast.Expression
	if p.check(token.LPAREN) {
		args, err = p.parseArgs()
		if err != nil {
			return nil, err
		}
	}
	return &ast.New{Base: ast.Base{Token: newTok}, Constructor: ctor, Args: args}, nil
}

// parsePostfixNoCallTemplateGuard parses the constructor-name part of a
// `new` expression: an identifier optionally followed by `.member` or a
// template-call, but stopping before consuming the constructor-call
// parens themselves (those belong to `new`, not to a plain Call).
func (p *Parser) parsePostfixNoCallTemplateGuard() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(token.DOT):
			dotTok := p.advance()
			nameTok, err := p.expect(token.IDENT, "property name")
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberAccess{Base: ast.Base{Token: dotTok}, Object: expr, Property: nameTok.Lexeme}
		case p.check(token.LT):
			tmpl, ok, err := p.tryParseTemplateCallBare(expr)
			if err != nil {
				return nil, err
			}
			if !ok {
				return expr, nil
			}
			expr = tmpl
		default:
			return expr, nil
		}
	}
}

// tryParseTemplateCallBare is tryParseTemplateCall without the trailing
// "absorb a following call" step, used by `new` so the call's parens
// remain the constructor-call's own.
func (p *Parser) tryParseTemplateCallBare(callee ast.Expression) (ast.Expression, bool, error) {
	mark := p.mark()
	ltTok := p.advance()

	first, err := p.parseTemplateArg()
	if err != nil {
		p.reset(mark)
		return nil, false, nil
	}
	args := []ast.Expression{first}

	for p.check(token.COMMA) {
		p.advance()
		arg, err := p.parseTemplateArg()
		if err != nil {
			p.reset(mark)
			return nil, false, nil
		}
		args = append(args, arg)
	}

	if !p.check(token.GT) {
		p.reset(mark)
		return nil, false, nil
	}
	p.advance()

	return &ast.TemplateCall{Base: ast.Base{Token: ltTok}, Callee: callee, TemplateArgs: args}, true, nil
}

// parseArrowLit parses a first-class function literal: `fn(params) =>
// expr` or `fn(params) { stmts }`, optionally `async`-prefixed (spec
// §4.2, §4.9).
func (p *Parser) parseArrowLit(isAsync bool) (ast.Expression, error) {
	fnTok := p.advance() // consume 'fn'
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	arrow := &ast.Arrow{Base: ast.Base{Token: fnTok}, Params: params, IsAsync: isAsync}

	if p.check(token.COLON) {
		p.advance()
		retType, err := p.parseTemplateArg()
		if err != nil {
			return nil, err
		}
		arrow.ReturnType = retType
	}

	if p.check(token.ARROW) {
		arrowTok := p.advance()
		expr, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		arrow.IsExpr = true
		arrow.Body = []ast.Statement{&ast.Return{Base: ast.Base{Token: arrowTok}, Value: expr}}
		return arrow, nil
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	arrow.Body = body.Body
	return arrow, nil
}

// parseParams parses a parenthesized, comma-separated formal parameter
// list shared by fn declarations, arrows, and methods.
func (p *Parser) parseParams() ([]*ast.Param, error) {
	if _, err := p.expect(token.LPAREN, "'('"); err != nil {
		return nil, err
	}
	var params []*ast.Param
	for !p.check(token.RPAREN) {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if p.check(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseParam() (*ast.Param, error) {
	nameTok, err := p.expect(token.IDENT, "parameter name")
	if err != nil {
		return nil, err
	}
	param := &ast.Param{Name: nameTok.Lexeme}

	if p.check(token.COLON) {
		p.advance()
		typeExpr, err := p.parseTemplateArg()
		if err != nil {
			return nil, err
		}
		param.TypeAnn = typeExpr
	}

	if p.check(token.ASSIGN) {
		p.advance()
		def, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		param.Default = def
		param.HasDefault = true
	}

	return param, nil
}
