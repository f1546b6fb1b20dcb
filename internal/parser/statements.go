package parser

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/token"
)

// topColumn is the column every top-level declaration starts at.
const topColumn = 1

func (p *Parser) parseFile() ast.File {
	var f ast.File
	if !p.expect(token.MODULE) {
		return f
	}
	if !p.curTokenIs(token.IDENT_UPPER) {
		p.unexpected("expected a module name")
		return f
	}
	f.Module = p.cur().Lexeme
	p.nextToken()
	if !p.expect(token.EXPOSING) {
		return f
	}
	f.Exposing = p.parseExposing()
	for p.curTokenIs(token.IMPORT) {
		p.parseImportStatement()
	}
	f.Declarations = p.parseDeclarations()
	return f
}

// parseExposing parses "(..)" as nil or "(a, B, C(..))" as the listed names.
func (p *Parser) parseExposing() []string {
	if !p.expect(token.LPAREN) {
		return nil
	}
	if p.curTokenIs(token.DOT_DOT) {
		p.nextToken()
		p.expect(token.RPAREN)
		return nil
	}
	names := []string{}
	for {
		switch p.cur().Type {
		case token.IDENT:
			names = append(names, p.cur().Lexeme)
			p.nextToken()
		case token.IDENT_UPPER:
			name := p.cur().Lexeme
			p.nextToken()
			if p.curTokenIs(token.LPAREN) && p.peekTokenIs(token.DOT_DOT) {
				p.nextToken()
				p.nextToken()
				p.expect(token.RPAREN)
				name += "(..)"
			}
			names = append(names, name)
		default:
			p.unexpected("expected an exposed name")
			return names
		}
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expect(token.RPAREN)
	return names
}

// parseImportStatement parses "import A.B as C exposing (..)".
func (p *Parser) parseImportStatement() {
	p.nextToken() // consume 'import'
	if !p.curTokenIs(token.IDENT_UPPER) {
		p.unexpected("expected a module name")
		p.skipBlock(topColumn)
		return
	}
	p.nextToken()
	if p.curTokenIs(token.AS) {
		p.nextToken()
		p.expect(token.IDENT_UPPER)
	}
	if p.curTokenIs(token.EXPOSING) {
		p.nextToken()
		p.parseExposing()
	}
}

// parseDeclarations parses declarations until the end of input. Each may be
// preceded by a doc comment and a signature line.
func (p *Parser) parseDeclarations() []*ast.Declaration {
	var decls []*ast.Declaration
	p.limit = topColumn
	for !p.curTokenIs(token.EOF) {
		if decl := p.parseDeclaration(); decl != nil {
			decls = append(decls, decl)
		}
	}
	return decls
}

func (p *Parser) parseDeclaration() *ast.Declaration {
	var doc string
	if p.curTokenIs(token.DOC) {
		doc = p.cur().Literal.(string)
		p.nextToken()
	}
	if !p.curTokenIs(token.IDENT) || p.cur().Column != topColumn {
		p.unexpected("expected a declaration")
		p.nextToken()
		p.skipBlock(topColumn)
		return nil
	}

	start := p.cur()
	decl := &ast.Declaration{Doc: doc}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		decl.Signature = p.parseType()
		if !p.curTokenIs(token.IDENT) || p.cur().Lexeme != start.Lexeme {
			p.errorf(p.cur(), "expected the definition of %s after its signature", start.Lexeme)
			p.skipBlock(topColumn)
			return nil
		}
	}
	decl.Name, decl.Expr = p.parseDefinition(topColumn)
	return decl
}
