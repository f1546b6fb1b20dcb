package parser

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/config"
	"github.com/funvibe/gencode/internal/token"
)

// parseLetExpression parses a let block. Bindings start at the column of the
// first one; the body follows "in".
func (p *Parser) parseLetExpression() ast.Expression {
	start := p.cur()
	p.nextToken() // consume 'let'
	column := p.cur().Column
	var bindings []ast.Binding
	for p.curTokenIs(token.IDENT) && p.cur().Column == column {
		name, value := p.parseDefinition(column)
		bindings = append(bindings, ast.Bind(name, value))
	}
	if !p.expect(token.IN) {
		return nil
	}
	body := p.parseExpression(0)
	let, err := ast.Let(bindings, body)
	if err != nil {
		p.errorf(start, "%v", err)
		return &ast.LetIn{Bindings: bindings, Body: body}
	}
	return let
}

// parseDefinition parses "name params = body" where the body ends at the
// given column. Parameters become a lambda.
func (p *Parser) parseDefinition(column int) (string, ast.Expression) {
	start := p.cur()
	name := start.Lexeme
	p.nextToken()
	var params []string
	for p.curTokenIs(token.IDENT) || p.curTokenIs(token.UNDERSCORE) {
		params = append(params, p.cur().Lexeme)
		p.nextToken()
	}
	if !p.expect(token.ASSIGN) {
		p.skipBlock(column)
		return name, nil
	}
	body := withLimit(p, column, func() ast.Expression { return p.parseExpression(0) })
	if len(params) == 0 {
		return name, body
	}
	fn, err := ast.Fn(params, body)
	if err != nil {
		p.errorf(start, "%v", err)
		return name, body
	}
	return name, fn
}

// skipBlock drops tokens up to the next one at or left of column.
func (p *Parser) skipBlock(column int) {
	for !p.curTokenIs(token.EOF) && p.cur().Column > column {
		p.nextToken()
	}
}

// parseCaseExpression parses "case subject of" followed by branches aligned
// on the column of the first pattern.
func (p *Parser) parseCaseExpression() ast.Expression {
	start := p.cur()
	p.nextToken() // consume 'case'
	subject := withLimit(p, 0, func() ast.Expression { return p.parseExpression(0) })
	if !p.expect(token.OF) {
		return nil
	}
	column := p.cur().Column
	var branches []ast.Branch
	for !p.curTokenIs(token.EOF) && p.cur().Column == column && column > p.limit {
		br, ok := p.parseBranch(column)
		if !ok {
			break
		}
		branches = append(branches, br)
	}
	c, err := ast.Case(subject, nil, branches...)
	if err != nil {
		p.errorf(start, "%v", err)
		return &ast.CaseOf{Subject: subject, Branches: branches}
	}
	return c
}

func (p *Parser) parseBranch(column int) (ast.Branch, bool) {
	var br ast.Branch
	switch p.cur().Type {
	case token.UNDERSCORE:
		br.Constructor = config.WildcardPattern
		p.nextToken()
	case token.IDENT_UPPER:
		module, name := splitQualified(p.cur().Lexeme)
		br.Module = ast.ModulePath(module)
		br.Constructor = name
		p.nextToken()
		for p.curTokenIs(token.IDENT) || p.curTokenIs(token.UNDERSCORE) {
			br.Bindings = append(br.Bindings, ast.PatternBinding{Name: p.cur().Lexeme})
			p.nextToken()
		}
	default:
		p.unexpected("expected a pattern")
		p.skipBlock(column)
		return br, false
	}
	if !p.expect(token.ARROW) {
		p.skipBlock(column)
		return br, false
	}
	br.Body = withLimit(p, column, func() ast.Expression { return p.parseExpression(0) })
	return br, true
}

// parseIfExpression parses if/then/else. "then" and "else" end the
// preceding expression, so no layout column is involved.
func (p *Parser) parseIfExpression() ast.Expression {
	p.nextToken() // consume 'if'
	cond := withLimit(p, 0, func() ast.Expression { return p.parseExpression(0) })
	if !p.expect(token.THEN) {
		return nil
	}
	then := withLimit(p, 0, func() ast.Expression { return p.parseExpression(0) })
	if !p.expect(token.ELSE) {
		return nil
	}
	otherwise := p.parseExpression(0)
	return ast.If(cond, then, otherwise)
}

func (p *Parser) parseLambdaExpression() ast.Expression {
	start := p.cur()
	p.nextToken() // consume '\'
	var params []string
	for p.curTokenIs(token.IDENT) || p.curTokenIs(token.UNDERSCORE) {
		params = append(params, p.cur().Lexeme)
		p.nextToken()
	}
	if len(params) == 0 {
		p.unexpected("expected a lambda parameter")
	}
	if !p.expect(token.ARROW) {
		return nil
	}
	body := p.parseExpression(0)
	fn, err := ast.Fn(params, body)
	if err != nil {
		p.errorf(start, "%v", err)
		return nil
	}
	return fn
}
