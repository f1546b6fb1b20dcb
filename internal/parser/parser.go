package parser

import (
	"fmt"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/lexer"
	"github.com/funvibe/gencode/internal/token"
	"github.com/funvibe/gencode/internal/typesystem"
	"strings"
)

// MaxRecursionDepth bounds nesting so that hostile input cannot overflow
// the stack.
const MaxRecursionDepth = 500

// ParseError is a syntax error at a source position.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Errors is the list of syntax errors found in one input.
type Errors []*ParseError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Parser reads the layout-sensitive syntax produced by the renderer.
//
// Layout follows the offside rule: while a block is open, a token at or left
// of the block's column ends the current expression. Brackets reset the
// rule until they close.
type Parser struct {
	tokens []token.Token
	pos    int
	limit  int // tokens at this column or less end the current expression
	depth  int
	errors Errors
}

func New(input string) *Parser {
	return &Parser{tokens: lexer.New(input).Tokenize()}
}

func (p *Parser) cur() token.Token { return p.tokens[p.pos] }

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.cur().Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peek().Type == t
}

// offside reports whether the current token lies outside the open block.
func (p *Parser) offside() bool {
	return p.curTokenIs(token.EOF) || p.cur().Column <= p.limit
}

// withLimit runs f with a different offside column.
func withLimit[T any](p *Parser, limit int, f func() T) T {
	saved := p.limit
	p.limit = limit
	defer func() { p.limit = saved }()
	return f()
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, &ParseError{Line: tok.Line, Column: tok.Column, Msg: fmt.Sprintf(format, args...)})
}

// expect consumes a token of type t or records an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.unexpected("expected " + string(t))
	return false
}

func (p *Parser) unexpected(context string) {
	tok := p.cur()
	if tok.Type == token.ILLEGAL {
		p.errorf(tok, "%v", tok.Literal)
		return
	}
	if tok.Type == token.EOF {
		p.errorf(tok, "%s, found end of input", context)
		return
	}
	p.errorf(tok, "%s, found %q", context, tok.Lexeme)
}

func (p *Parser) err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return p.errors
}

// ParseExpression parses a single expression.
func ParseExpression(input string) (ast.Expression, error) {
	p := New(input)
	expr := p.parseExpression(0)
	if !p.curTokenIs(token.EOF) {
		p.unexpected("expected end of expression")
	}
	return expr, p.err()
}

// ParseType parses a type expression such as "(a -> b) -> List a -> List b".
func ParseType(input string) (typesystem.Type, error) {
	p := New(input)
	t := p.parseType()
	if !p.curTokenIs(token.EOF) {
		p.unexpected("expected end of type")
	}
	return t, p.err()
}

// ParseDeclarations parses top-level declarations without a module header.
func ParseDeclarations(input string) ([]*ast.Declaration, error) {
	p := New(input)
	decls := p.parseDeclarations()
	return decls, p.err()
}

// ParseFile parses a whole module. Import lines are checked for syntax and
// dropped: the renderer derives them from the declarations.
func ParseFile(input string) (ast.File, error) {
	p := New(input)
	f := p.parseFile()
	return f, p.err()
}

// NewFromTokens creates a parser over already lexed input. The slice must
// end with an EOF token.
func NewFromTokens(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF})
	}
	return &Parser{tokens: tokens}
}

// File parses a whole module from the parser's tokens.
func (p *Parser) File() (ast.File, error) {
	f := p.parseFile()
	return f, p.err()
}
