package parser

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/token"
)

// parseExpression parses operators by precedence climbing. Operators bind
// looser than application, so operands are parsed by parseApplication.
func (p *Parser) parseExpression(minPrecedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.errorf(p.cur(), "expression too complex: recursion depth limit exceeded")
		p.pos = len(p.tokens) - 1
		return nil
	}

	left := p.parseApplication()
	for p.curTokenIs(token.OPERATOR) && !p.offside() {
		symbol := p.cur().Lexeme
		info := ast.Operators[symbol]
		if info.Precedence < minPrecedence {
			break
		}
		p.nextToken()
		next := info.Precedence + 1
		if info.Assoc == ast.AssocRight {
			next = info.Precedence
		}
		right := p.parseExpression(next)
		left = &ast.Operator{Symbol: symbol, Left: left, Right: right}
		if info.Assoc == ast.AssocNone && p.curTokenIs(token.OPERATOR) && ast.Operators[p.cur().Lexeme].Precedence == info.Precedence {
			p.errorf(p.cur(), "operator %s is non-associative, add parentheses", p.cur().Lexeme)
		}
	}
	return left
}

// parseApplication parses a callee followed by its arguments. let, case, if
// and lambdas extend as far right as possible and take no arguments.
func (p *Parser) parseApplication() ast.Expression {
	switch p.cur().Type {
	case token.LET:
		return p.parseLetExpression()
	case token.CASE:
		return p.parseCaseExpression()
	case token.IF:
		return p.parseIfExpression()
	case token.BACKSLASH:
		return p.parseLambdaExpression()
	}
	fn := p.parseAtom()
	var args []ast.Expression
	for startsAtom(p.cur()) && !p.offside() {
		args = append(args, p.parseAtom())
	}
	if len(args) == 0 {
		return fn
	}
	return &ast.Application{Function: fn, Arguments: args}
}

func startsAtom(tok token.Token) bool {
	switch tok.Type {
	case token.IDENT, token.IDENT_UPPER, token.INT, token.FLOAT, token.STRING, token.CHAR,
		token.LPAREN, token.LBRACKET, token.LBRACE:
		return true
	default:
		return false
	}
}

// parseAtom parses a literal, reference or bracketed expression followed by
// any number of field accesses.
func (p *Parser) parseAtom() ast.Expression {
	tok := p.cur()
	var expr ast.Expression
	switch tok.Type {
	case token.INT:
		expr = ast.Int(tok.Literal.(int64))
		p.nextToken()
	case token.FLOAT:
		expr = ast.Float(tok.Literal.(float64))
		p.nextToken()
	case token.STRING:
		expr = ast.String(tok.Literal.(string))
		p.nextToken()
	case token.CHAR:
		expr = ast.Char(tok.Literal.(rune))
		p.nextToken()
	case token.IDENT, token.IDENT_UPPER:
		expr = p.parseIdentifier()
	case token.LPAREN:
		expr = p.parseGroupedExpression()
	case token.LBRACKET:
		expr = p.parseListLiteral()
	case token.LBRACE:
		expr = p.parseRecordLiteral()
	default:
		p.unexpected("expected an expression")
		if !p.curTokenIs(token.EOF) {
			p.nextToken()
		}
		return nil
	}
	for p.curTokenIs(token.FIELD) {
		expr = ast.Access(expr, p.cur().Literal.(string))
		p.nextToken()
	}
	return expr
}

func (p *Parser) parseIdentifier() ast.Expression {
	lexeme := p.cur().Lexeme
	p.nextToken()
	switch lexeme {
	case "True":
		return ast.Bool(true)
	case "False":
		return ast.Bool(false)
	}
	module, name := splitQualified(lexeme)
	return ast.Ref(module, name)
}

// splitQualified splits "Json.Decode.string" into its module and name.
func splitQualified(lexeme string) (string, string) {
	for i := len(lexeme) - 1; i >= 0; i-- {
		if lexeme[i] == '.' {
			return lexeme[:i], lexeme[i+1:]
		}
	}
	return "", lexeme
}

// parseGroupedExpression parses (), (e) and tuples.
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken() // consume '('
	if p.curTokenIs(token.RPAREN) {
		p.nextToken()
		return ast.Unit()
	}
	elements := withLimit(p, 0, func() []ast.Expression {
		return p.parseExpressionList(token.RPAREN)
	})
	if len(elements) == 1 {
		return elements[0]
	}
	return ast.Tuple(elements...)
}

// parseExpressionList parses comma-separated expressions up to and
// including the closing token.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	var list []ast.Expression
	if p.curTokenIs(end) {
		p.nextToken()
		return list
	}
	for {
		list = append(list, p.parseExpression(0))
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expect(end)
	return list
}

func (p *Parser) parseListLiteral() ast.Expression {
	p.nextToken() // consume '['
	elements := withLimit(p, 0, func() []ast.Expression {
		return p.parseExpressionList(token.RBRACKET)
	})
	return ast.List(elements...)
}

// parseRecordLiteral parses {}, { a = 1 } and { base | a = 1 }.
func (p *Parser) parseRecordLiteral() ast.Expression {
	start := p.cur()
	p.nextToken() // consume '{'
	return withLimit(p, 0, func() ast.Expression {
		if p.curTokenIs(token.RBRACE) {
			p.nextToken()
			return &ast.RecordLiteral{}
		}
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
			fields := p.parseFields()
			p.expect(token.RBRACE)
			rec, err := ast.Record(fields...)
			if err != nil {
				p.errorf(start, "%v", err)
				return &ast.RecordLiteral{Fields: fields}
			}
			return rec
		}
		base := p.parseAtom()
		if !p.expect(token.PIPE) {
			return base
		}
		fields := p.parseFields()
		p.expect(token.RBRACE)
		upd, err := ast.Update(base, fields...)
		if err != nil {
			p.errorf(start, "%v", err)
			return &ast.RecordUpdate{Base: base, Fields: fields}
		}
		return upd
	})
}

func (p *Parser) parseFields() []ast.RecordField {
	var fields []ast.RecordField
	for {
		if !p.curTokenIs(token.IDENT) {
			p.unexpected("expected a field name")
			return fields
		}
		name := p.cur().Lexeme
		p.nextToken()
		if !p.expect(token.ASSIGN) {
			return fields
		}
		fields = append(fields, ast.Field(name, p.parseExpression(0)))
		if !p.curTokenIs(token.COMMA) {
			return fields
		}
		p.nextToken()
	}
}
