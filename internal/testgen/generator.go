// Package testgen builds random expression trees for fuzz tests.
package testgen

import (
	"github.com/funvibe/gencode/internal/ast"
	"math/rand"
	"strconv"
)

// RandomSource abstracts the source of randomness.
type RandomSource interface {
	Intn(n int) int
}

// RandSource wraps math/rand.
type RandSource struct {
	*rand.Rand
}

// ByteSource uses a byte slice as a source of randomness. Once the data is
// exhausted every choice is 0, which always picks the simplest option.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

const (
	MaxDepth    = 3
	MaxElements = 3
)

// Generator produces trees that are valid by construction: every builder
// invariant holds, but the trees are not necessarily well typed.
type Generator struct {
	src    RandomSource
	params int
}

func New(seed int64) *Generator {
	return &Generator{src: &RandSource{rand.New(rand.NewSource(seed))}}
}

func NewFromData(data []byte) *Generator {
	return &Generator{src: &ByteSource{data: data}}
}

// Intn exposes the random source.
func (g *Generator) Intn(n int) int {
	return g.src.Intn(n)
}

var (
	locals  = []string{"x", "model", "count", "name", "items"}
	words   = []string{"", "hello", "a b", "quote\"d", "line\nbreak", "ünï"}
	fields  = []string{"count", "name", "label"}
	symbols = []string{"+", "-", "*", "++", "::", "==", "<", "&&", "||", "|>"}
)

type external struct {
	module, name string
}

var externals = []external{
	{"String", "fromInt"},
	{"List", "map"},
	{"Maybe", "withDefault"},
	{"Html", "text"},
	{"Json.Decode", "field"},
}

// Expression generates a tree. The root may be a let, case or if.
func (g *Generator) Expression() ast.Expression {
	return g.expr(0, true)
}

// Declaration wraps a generated tree in a top-level definition.
func (g *Generator) Declaration(name string) *ast.Declaration {
	return ast.Declare(name, g.Expression())
}

// expr generates a node at depth. Block forms (let, case, if) are only
// produced where block is set: at the root, in bodies and in branches.
func (g *Generator) expr(depth int, block bool) ast.Expression {
	if depth >= MaxDepth {
		return g.leaf()
	}
	choice := g.src.Intn(16)
	switch {
	case choice < 4:
		return g.leaf()
	case choice < 5:
		return ast.List(g.elements(depth, 0)...)
	case choice < 6:
		return ast.Tuple(g.elements(depth, 2)...)
	case choice < 7:
		return g.record(depth)
	case choice < 8:
		return g.update(depth)
	case choice < 10:
		return g.apply(depth)
	case choice < 12:
		return g.operator(depth)
	case choice < 13:
		return ast.Access(ast.Local(g.pick(locals)), g.pick(fields))
	case choice < 14:
		return g.lambda(depth, block)
	case !block:
		return g.leaf()
	case choice < 15:
		return ast.If(g.expr(depth+1, false), g.expr(depth+1, true), g.expr(depth+1, true))
	default:
		if g.src.Intn(2) == 0 {
			return g.let(depth)
		}
		return g.caseOf(depth)
	}
}

func (g *Generator) leaf() ast.Expression {
	switch g.src.Intn(8) {
	case 0:
		return ast.Int(int64(g.src.Intn(100)))
	case 1:
		return ast.Local(g.pick(locals))
	case 2:
		return ast.String(g.pick(words))
	case 3:
		return ast.Bool(g.src.Intn(2) == 1)
	case 4:
		return ast.Char(rune('a' + g.src.Intn(26)))
	case 5:
		return ast.Float(float64(g.src.Intn(100)) + 0.5)
	case 6:
		return ast.Unit()
	default:
		ext := externals[g.src.Intn(len(externals))]
		return ast.Ref(ext.module, ext.name)
	}
}

// elements generates between least and MaxElements non-block children.
func (g *Generator) elements(depth, least int) []ast.Expression {
	n := least + g.src.Intn(MaxElements-least+1)
	out := make([]ast.Expression, n)
	for i := range out {
		out[i] = g.expr(depth+1, false)
	}
	return out
}

func (g *Generator) recordFields(depth int) []ast.RecordField {
	n := 1 + g.src.Intn(len(fields))
	out := make([]ast.RecordField, n)
	for i := range out {
		out[i] = ast.Field(fields[i], g.expr(depth+1, false))
	}
	return out
}

func (g *Generator) record(depth int) ast.Expression {
	r, err := ast.Record(g.recordFields(depth)...)
	if err != nil {
		panic(err)
	}
	return r
}

func (g *Generator) update(depth int) ast.Expression {
	u, err := ast.Update(ast.Local(g.pick(locals)), g.recordFields(depth)...)
	if err != nil {
		panic(err)
	}
	return u
}

func (g *Generator) apply(depth int) ast.Expression {
	var fn ast.Expression
	if g.src.Intn(2) == 0 {
		ext := externals[g.src.Intn(len(externals))]
		fn = ast.Ref(ext.module, ext.name)
	} else {
		fn = ast.Local(g.pick(locals))
	}
	return ast.Apply(fn, g.elements(depth, 1)...)
}

func (g *Generator) operator(depth int) ast.Expression {
	op, err := ast.Op(g.pick(symbols), g.expr(depth+1, false), g.expr(depth+1, false))
	if err != nil {
		panic(err)
	}
	return op
}

// lambda parameters are numbered so that they never repeat.
func (g *Generator) lambda(depth int, block bool) ast.Expression {
	n := 1 + g.src.Intn(2)
	params := make([]string, n)
	for i := range params {
		params[i] = g.param()
	}
	fn, err := ast.Fn(params, g.expr(depth+1, block))
	if err != nil {
		panic(err)
	}
	return fn
}

func (g *Generator) param() string {
	g.params++
	return "p" + strconv.Itoa(g.params)
}

func (g *Generator) let(depth int) ast.Expression {
	n := 1 + g.src.Intn(2)
	bindings := make([]ast.Binding, n)
	for i := range bindings {
		bindings[i] = ast.Bind(g.param(), g.expr(depth+1, true))
	}
	l, err := ast.Let(bindings, g.expr(depth+1, true))
	if err != nil {
		panic(err)
	}
	return l
}

func (g *Generator) caseOf(depth int) ast.Expression {
	subject := g.expr(depth+1, false)
	var branches []ast.Branch
	if g.src.Intn(2) == 0 {
		branches = []ast.Branch{
			ast.Pattern("Just", []string{g.param()}, g.expr(depth+1, true)),
			ast.Pattern("Nothing", nil, g.expr(depth+1, true)),
		}
	} else {
		branches = []ast.Branch{
			ast.Pattern("Ok", []string{g.param()}, g.expr(depth+1, true)),
			ast.Wildcard(g.expr(depth+1, true)),
		}
	}
	c, err := ast.Case(subject, nil, branches...)
	if err != nil {
		panic(err)
	}
	return c
}

func (g *Generator) pick(from []string) string {
	return from[g.src.Intn(len(from))]
}
