package parser

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/config"
	"github.com/funvibe/gencode/internal/token"
	"github.com/funvibe/gencode/internal/typesystem"
)

// parseType parses a function type. A chain a -> b -> c becomes one
// function of two parameters; a parenthesized result stays nested.
func (p *Parser) parseType() typesystem.Type {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.errorf(p.cur(), "type too complex: recursion depth limit exceeded")
		p.pos = len(p.tokens) - 1
		return nil
	}

	parts := []typesystem.Type{p.parseTypeApplication()}
	for p.curTokenIs(token.ARROW) && !p.offside() {
		p.nextToken()
		parts = append(parts, p.parseTypeApplication())
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return typesystem.TFunc{Params: parts[:len(parts)-1], ReturnType: parts[len(parts)-1]}
}

// parseTypeApplication parses "Name arg1 arg2" or a single type atom.
func (p *Parser) parseTypeApplication() typesystem.Type {
	if !p.curTokenIs(token.IDENT_UPPER) {
		return p.parseTypeAtom()
	}
	name := p.cur().Lexeme
	p.nextToken()
	var args []typesystem.Type
	for startsTypeAtom(p.cur()) && !p.offside() {
		args = append(args, p.parseTypeAtom())
	}
	return namedType(name, args)
}

func startsTypeAtom(tok token.Token) bool {
	switch tok.Type {
	case token.IDENT, token.IDENT_UPPER, token.LPAREN, token.LBRACE:
		return true
	default:
		return false
	}
}

// namedType maps a possibly qualified type name to its representation.
// Primitive names become constants.
func namedType(lexeme string, args []typesystem.Type) typesystem.Type {
	module, name := splitQualified(lexeme)
	if module == "" && len(args) == 0 {
		switch name {
		case config.IntTypeName:
			return typesystem.Int
		case config.FloatTypeName:
			return typesystem.Float
		case config.StringTypeName:
			return typesystem.String
		case config.BoolTypeName:
			return typesystem.Bool
		case config.CharTypeName:
			return typesystem.Char
		}
	}
	return typesystem.TNamed{Module: ast.ModulePath(module), Name: name, Args: args}
}

func (p *Parser) parseTypeAtom() typesystem.Type {
	tok := p.cur()
	switch tok.Type {
	case token.IDENT:
		p.nextToken()
		if _, name := splitQualified(tok.Lexeme); name != tok.Lexeme {
			p.errorf(tok, "type variables cannot be qualified: %s", tok.Lexeme)
		}
		return typesystem.Var(tok.Lexeme)
	case token.IDENT_UPPER:
		p.nextToken()
		return namedType(tok.Lexeme, nil)
	case token.LPAREN:
		p.nextToken()
		if p.curTokenIs(token.RPAREN) {
			p.nextToken()
			return typesystem.Unit
		}
		elements := withLimit(p, 0, func() []typesystem.Type {
			var list []typesystem.Type
			for {
				list = append(list, p.parseType())
				if !p.curTokenIs(token.COMMA) {
					break
				}
				p.nextToken()
			}
			p.expect(token.RPAREN)
			return list
		})
		if len(elements) == 1 {
			return elements[0]
		}
		return typesystem.TTuple{Elements: elements}
	case token.LBRACE:
		p.nextToken()
		return withLimit(p, 0, p.parseRecordType)
	default:
		p.unexpected("expected a type")
		if !p.curTokenIs(token.EOF) {
			p.nextToken()
		}
		return nil
	}
}

// parseRecordType parses the part of a record type after '{'.
func (p *Parser) parseRecordType() typesystem.Type {
	var rec typesystem.TRecord
	if p.curTokenIs(token.RBRACE) {
		p.nextToken()
		return rec
	}
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.PIPE) {
		row := typesystem.Var(p.cur().Lexeme)
		rec.Row = &row
		p.nextToken()
		p.nextToken()
	}
	seen := map[string]bool{}
	for {
		if !p.curTokenIs(token.IDENT) {
			p.unexpected("expected a field name")
			return rec
		}
		name := p.cur()
		p.nextToken()
		if !p.expect(token.COLON) {
			return rec
		}
		if seen[name.Lexeme] {
			p.errorf(name, "duplicate record field %s", name.Lexeme)
		}
		seen[name.Lexeme] = true
		rec.Fields = append(rec.Fields, typesystem.Field{Name: name.Lexeme, Type: p.parseType()})
		if !p.curTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	p.expect(token.RBRACE)
	return rec
}
