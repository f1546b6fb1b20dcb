package ast

// Associativity of a binary operator.
type Associativity int

const (
	AssocLeft Associativity = iota
	AssocRight
	AssocNone
)

// OperatorInfo describes how an operator binds.
type OperatorInfo struct {
	Precedence int // Higher binds tighter
	Assoc      Associativity
}

// Operators lists the binary operators of the target language.
var Operators = map[string]OperatorInfo{
	"<|": {0, AssocRight},
	"|>": {0, AssocLeft},
	"||": {2, AssocRight},
	"&&": {3, AssocRight},
	"==": {4, AssocNone},
	"/=": {4, AssocNone},
	"<":  {4, AssocNone},
	">":  {4, AssocNone},
	"<=": {4, AssocNone},
	">=": {4, AssocNone},
	"++": {5, AssocRight},
	"::": {5, AssocRight},
	"+":  {6, AssocLeft},
	"-":  {6, AssocLeft},
	"*":  {7, AssocLeft},
	"/":  {7, AssocLeft},
	"//": {7, AssocLeft},
	"^":  {8, AssocRight},
	"<<": {9, AssocLeft},
	">>": {9, AssocRight},
}

// IsOperator reports whether symbol is a known binary operator.
func IsOperator(symbol string) bool {
	_, ok := Operators[symbol]
	return ok
}
