package token

import "fmt"

// TokenType is a string so that tokens print readably in parse errors.
type TokenType string

// Token is a lexed token. Literal holds the decoded value: int64 for INT,
// float64 for FLOAT, rune for CHAR and string for everything else.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int // 1-based, in runes
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// IDENT is a lowercase name, possibly qualified: Json.Decode.string.
	IDENT TokenType = "IDENT"
	// IDENT_UPPER is a capitalized name, possibly qualified: Maybe.Just.
	IDENT_UPPER TokenType = "IDENT_UPPER"
	INT         TokenType = "INT"
	FLOAT       TokenType = "FLOAT"
	STRING      TokenType = "STRING"
	CHAR        TokenType = "CHAR"
	// FIELD is ".name" written directly after a value.
	FIELD TokenType = "FIELD"
	// DOC is a {-| ... -} documentation comment.
	DOC TokenType = "DOC"
	// OPERATOR is any binary operator of the language.
	OPERATOR TokenType = "OPERATOR"

	ASSIGN     TokenType = "="
	COLON      TokenType = ":"
	ARROW      TokenType = "->"
	BACKSLASH  TokenType = "\\"
	PIPE       TokenType = "|"
	COMMA      TokenType = ","
	DOT_DOT    TokenType = ".."
	UNDERSCORE TokenType = "_"
	LPAREN     TokenType = "("
	RPAREN     TokenType = ")"
	LBRACKET   TokenType = "["
	RBRACKET   TokenType = "]"
	LBRACE     TokenType = "{"
	RBRACE     TokenType = "}"

	LET      TokenType = "LET"
	IN       TokenType = "IN"
	CASE     TokenType = "CASE"
	OF       TokenType = "OF"
	IF       TokenType = "IF"
	THEN     TokenType = "THEN"
	ELSE     TokenType = "ELSE"
	MODULE   TokenType = "MODULE"
	EXPOSING TokenType = "EXPOSING"
	IMPORT   TokenType = "IMPORT"
	AS       TokenType = "AS"
	// KEYWORD covers reserved words that no supported construct uses.
	KEYWORD TokenType = "KEYWORD"
)

var keywords = map[string]TokenType{
	"let":      LET,
	"in":       IN,
	"case":     CASE,
	"of":       OF,
	"if":       IF,
	"then":     THEN,
	"else":     ELSE,
	"module":   MODULE,
	"exposing": EXPOSING,
	"import":   IMPORT,
	"as":       AS,
	"type":     KEYWORD,
	"alias":    KEYWORD,
	"port":     KEYWORD,
	"where":    KEYWORD,
	"infix":    KEYWORD,
}

// LookupIdent returns the keyword type of ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// EndsValue reports whether a token can end an operand, so that a
// following '-' or '.' attaches to it.
func (t Token) EndsValue() bool {
	switch t.Type {
	case IDENT, IDENT_UPPER, INT, FLOAT, STRING, CHAR, FIELD, RPAREN, RBRACKET, RBRACE:
		return true
	default:
		return false
	}
}
