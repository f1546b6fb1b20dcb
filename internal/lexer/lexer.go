package lexer

import (
	"fmt"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/token"
	"golang.org/x/text/unicode/norm"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
	prev         token.Token
	spaced       bool // whitespace or a comment preceded the current token
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

// Tokenize lexes the whole input. The last token is always EOF.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	tok := l.next()
	l.prev = tok
	return tok
}

func (l *Lexer) next() token.Token {
	doc, ok := l.skipWhitespace()
	if ok {
		return doc
	}
	line, col := l.line, l.column

	switch {
	case l.ch == 0:
		return token.Token{Type: token.EOF, Line: line, Column: col}
	case l.ch == '"':
		return l.readString()
	case l.ch == '\'':
		return l.readCharLiteral()
	case isDigit(l.ch):
		return l.readNumber(l.position)
	case l.ch == '-' && isDigit(l.peekChar()) && (l.spaced || !l.prev.EndsValue()):
		start := l.position
		l.readChar()
		return l.readNumber(start)
	case isLetter(l.ch):
		return l.readName()
	case l.ch == '.':
		return l.readDot()
	case l.ch == '\\':
		l.readChar()
		return newToken(token.BACKSLASH, "\\", line, col)
	case strings.ContainsRune(operatorChars, l.ch):
		return l.readOperator()
	}

	var typ token.TokenType
	switch l.ch {
	case ',':
		typ = token.COMMA
	case '(':
		typ = token.LPAREN
	case ')':
		typ = token.RPAREN
	case '[':
		typ = token.LBRACKET
	case ']':
		typ = token.RBRACKET
	case '{':
		typ = token.LBRACE
	case '}':
		typ = token.RBRACE
	default:
		typ = token.ILLEGAL
	}
	lexeme := string(l.ch)
	l.readChar()
	return newToken(typ, lexeme, line, col)
}

const operatorChars = "+-*/=<>|&:^"

func (l *Lexer) readOperator() token.Token {
	line, col := l.line, l.column
	start := l.position
	for strings.ContainsRune(operatorChars, l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.position]
	switch lexeme {
	case "=":
		return newToken(token.ASSIGN, lexeme, line, col)
	case ":":
		return newToken(token.COLON, lexeme, line, col)
	case "->":
		return newToken(token.ARROW, lexeme, line, col)
	case "|":
		return newToken(token.PIPE, lexeme, line, col)
	}
	if ast.IsOperator(lexeme) {
		return newToken(token.OPERATOR, lexeme, line, col)
	}
	return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "unknown operator " + lexeme, Line: line, Column: col}
}

// readDot lexes ".field" after a value, or "..".
func (l *Lexer) readDot() token.Token {
	line, col := l.line, l.column
	if l.peekChar() == '.' {
		l.readChar()
		l.readChar()
		return newToken(token.DOT_DOT, "..", line, col)
	}
	if !l.spaced && l.prev.EndsValue() && unicode.IsLower(l.peekChar()) {
		l.readChar()
		name := l.readIdentifier()
		return token.Token{Type: token.FIELD, Lexeme: "." + name, Literal: name, Line: line, Column: col}
	}
	l.readChar()
	return token.Token{Type: token.ILLEGAL, Lexeme: ".", Literal: "unexpected '.'", Line: line, Column: col}
}

// readName lexes an identifier. Capitalized segments followed by a dot are
// module qualifiers and belong to the same token.
func (l *Lexer) readName() token.Token {
	line, col := l.line, l.column
	start := l.position
	for {
		segment := l.readIdentifier()
		if !unicode.IsUpper(firstRune(segment)) || l.ch != '.' || !isLetter(l.peekChar()) {
			break
		}
		l.readChar() // .
	}
	lexeme := l.input[start:l.position]
	last := lexeme[strings.LastIndexByte(lexeme, '.')+1:]
	switch {
	case lexeme == "_":
		return newToken(token.UNDERSCORE, lexeme, line, col)
	case unicode.IsUpper(firstRune(last)):
		return newToken(token.IDENT_UPPER, lexeme, line, col)
	case last == lexeme:
		return newToken(token.LookupIdent(lexeme), lexeme, line, col)
	default:
		return newToken(token.IDENT, lexeme, line, col)
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func (l *Lexer) readNumber(start int) token.Token {
	line, col := l.line, l.column
	if start < l.position {
		col-- // leading '-'
	}
	isFloat := false
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.ch == '.' && isDigit(l.peekChar()) {
			isFloat = true
			l.readChar() // .
			for isDigit(l.ch) {
				l.readChar()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	lexeme := l.input[start:l.position]

	if isFloat {
		val, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: err.Error(), Line: line, Column: col}
		}
		return token.Token{Type: token.FLOAT, Lexeme: lexeme, Literal: val, Line: line, Column: col}
	}
	// strconv.ParseInt(s, 0, 64) auto-detects the 0x prefix
	val, err := strconv.ParseInt(lexeme, 0, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: "integer out of range", Line: line, Column: col}
	}
	return token.Token{Type: token.INT, Lexeme: lexeme, Literal: val, Line: line, Column: col}
}

// readString lexes "..." and """...""". The decoded value is NFC-normalized.
func (l *Lexer) readString() token.Token {
	line, col := l.line, l.column
	start := l.position
	triple := strings.HasPrefix(l.input[l.position:], `"""`)
	l.readChar()
	if triple {
		l.readChar()
		l.readChar()
	}
	var b strings.Builder
	for {
		switch {
		case l.ch == 0:
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: "unterminated string", Line: line, Column: col}
		case l.ch == '\n' && !triple:
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: "newline in string", Line: line, Column: col}
		case l.ch == '"' && (!triple || strings.HasPrefix(l.input[l.position:], `"""`)):
			l.readChar()
			if triple {
				l.readChar()
				l.readChar()
			}
			lexeme := l.input[start:l.position]
			return token.Token{Type: token.STRING, Lexeme: lexeme, Literal: norm.NFC.String(b.String()), Line: line, Column: col}
		case l.ch == '\\':
			r, err := l.readEscape()
			if err != nil {
				return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: err.Error(), Line: line, Column: col}
			}
			b.WriteRune(r)
		default:
			b.WriteRune(l.ch)
			l.readChar()
		}
	}
}

func (l *Lexer) readCharLiteral() token.Token {
	line, col := l.line, l.column
	start := l.position
	l.readChar() // opening '
	var char rune
	if l.ch == '\\' {
		r, err := l.readEscape()
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: err.Error(), Line: line, Column: col}
		}
		char = r
	} else {
		char = l.ch
		l.readChar()
	}
	// Strict check: character literal must be closed with '
	if l.ch != '\'' {
		return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: "unterminated character literal, expected '", Line: line, Column: col}
	}
	l.readChar()
	return token.Token{Type: token.CHAR, Lexeme: l.input[start:l.position], Literal: char, Line: line, Column: col}
}

// readEscape decodes an escape sequence starting at the backslash.
func (l *Lexer) readEscape() (rune, error) {
	l.readChar() // backslash
	var r rune
	switch l.ch {
	case 'n':
		r = '\n'
	case 'r':
		r = '\r'
	case 't':
		r = '\t'
	case '"', '\'', '\\':
		r = l.ch
	case 'u':
		l.readChar()
		if l.ch != '{' {
			return 0, fmt.Errorf("invalid unicode escape, expected \\u{XXXX}")
		}
		l.readChar()
		start := l.position
		for isHexDigit(l.ch) {
			l.readChar()
		}
		val, err := strconv.ParseUint(l.input[start:l.position], 16, 32)
		if err != nil || l.ch != '}' || val > unicode.MaxRune {
			return 0, fmt.Errorf("invalid unicode escape \\u{%s}", l.input[start:l.position])
		}
		r = rune(val)
	default:
		return 0, fmt.Errorf("unknown escape sequence \\%c", l.ch)
	}
	l.readChar()
	return r, nil
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func newToken(tokenType token.TokenType, lexeme string, line, col int) token.Token {
	return token.Token{Type: tokenType, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
}

// skipWhitespace skips blanks and comments. A documentation comment is
// returned as a DOC token instead.
func (l *Lexer) skipWhitespace() (token.Token, bool) {
	l.spaced = false
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '{' && l.peekChar() == '-':
			if strings.HasPrefix(l.input[l.position:], "{-|") {
				return l.readDoc(), true
			}
			l.skipBlockComment()
		default:
			return token.Token{}, false
		}
		l.spaced = true
	}
}

// skipBlockComment skips a possibly nested {- -} comment.
func (l *Lexer) skipBlockComment() {
	depth := 0
	for l.ch != 0 {
		switch {
		case l.ch == '{' && l.peekChar() == '-':
			depth++
			l.readChar()
		case l.ch == '-' && l.peekChar() == '}':
			depth--
			l.readChar()
			if depth == 0 {
				l.readChar()
				return
			}
		}
		l.readChar()
	}
}

// readDoc lexes {-| text -}. The literal drops the space after the opening
// marker and the newline before the closing one.
func (l *Lexer) readDoc() token.Token {
	line, col := l.line, l.column
	start := l.position
	l.skipBlockComment()
	lexeme := l.input[start:l.position]
	body := strings.TrimPrefix(lexeme, "{-|")
	body = strings.TrimSuffix(body, "-}")
	body = strings.TrimPrefix(body, " ")
	body = strings.TrimSuffix(body, "\n")
	return token.Token{Type: token.DOC, Lexeme: lexeme, Literal: body, Line: line, Column: col}
}
