package analyzer

import (
	"github.com/funvibe/gencode/internal/config"
	"github.com/funvibe/gencode/internal/typesystem"
	"strings"
)

var (
	tvA          = typesystem.Var("a")
	tvB          = typesystem.Var("b")
	tvC          = typesystem.Var("c")
	tvNumber     = typesystem.Var("number")
	tvComparable = typesystem.Var("comparable")
	tvAppendable = typesystem.Var("appendable")
)

func binary(operand, result typesystem.Type) typesystem.Type {
	return typesystem.Func(result, operand, operand)
}

// operatorSignatures gives every infix operator the type of the function it
// stands for. Class-constrained variables are named after their class.
var operatorSignatures = map[string]typesystem.Type{
	"+":  binary(tvNumber, tvNumber),
	"-":  binary(tvNumber, tvNumber),
	"*":  binary(tvNumber, tvNumber),
	"^":  binary(tvNumber, tvNumber),
	"/":  binary(typesystem.Float, typesystem.Float),
	"//": binary(typesystem.Int, typesystem.Int),
	"==": binary(tvA, typesystem.Bool),
	"/=": binary(tvA, typesystem.Bool),
	"<":  binary(tvComparable, typesystem.Bool),
	">":  binary(tvComparable, typesystem.Bool),
	"<=": binary(tvComparable, typesystem.Bool),
	">=": binary(tvComparable, typesystem.Bool),
	"&&": binary(typesystem.Bool, typesystem.Bool),
	"||": binary(typesystem.Bool, typesystem.Bool),
	"++": binary(tvAppendable, tvAppendable),
	"::": typesystem.Func(typesystem.List(tvA), tvA, typesystem.List(tvA)),
	"|>": typesystem.Func(tvB, tvA, typesystem.Func(tvB, tvA)),
	"<|": typesystem.Func(tvB, typesystem.Func(tvB, tvA), tvA),
	">>": typesystem.Func(typesystem.Func(tvC, tvA), typesystem.Func(tvB, tvA), typesystem.Func(tvC, tvB)),
	"<<": typesystem.Func(typesystem.Func(tvC, tvA), typesystem.Func(tvC, tvB), typesystem.Func(tvB, tvA)),
}

func operatorType(symbol string) (typesystem.Type, bool) {
	t, ok := operatorSignatures[symbol]
	return t, ok
}

// lookupUnion finds a custom type by name, built-in types first.
func (ctx *InferenceContext) lookupUnion(module []string, name string) (*typesystem.Union, bool) {
	if isImplicit(module) {
		for _, u := range typesystem.BuiltinUnions {
			if u.Name == name {
				return u, true
			}
		}
	}
	if ctx.facts != nil {
		return ctx.facts.LookupUnion(module, name)
	}
	return nil, false
}

// lookupConstructor finds the custom type owning a constructor, built-in
// types first.
func (ctx *InferenceContext) lookupConstructor(module []string, name string) (*typesystem.Union, bool) {
	if isImplicit(module) {
		for _, u := range typesystem.BuiltinUnions {
			if _, ok := u.Variant(name); ok {
				return u, true
			}
		}
	}
	if ctx.facts != nil {
		return ctx.facts.LookupConstructor(module, name)
	}
	return nil, false
}

func isImplicit(module []string) bool {
	if len(module) == 0 {
		return true
	}
	return config.ImplicitModules[strings.Join(module, ".")]
}
