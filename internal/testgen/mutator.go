package testgen

import (
	"github.com/funvibe/gencode/internal/ast"
	"math/rand"
)

// Mutator applies random mutations to a tree, in place. Mutations keep the
// builder invariants but usually break the typing.
type Mutator struct {
	src RandomSource
}

// NewMutator creates a Mutator with the given seed.
func NewMutator(seed int64) *Mutator {
	return &Mutator{src: &RandSource{rand.New(rand.NewSource(seed))}}
}

func NewMutatorFromData(data []byte) *Mutator {
	return &Mutator{src: &ByteSource{data: data}}
}

// Mutate changes one node of e and reports whether it found one to change.
func (m *Mutator) Mutate(e ast.Expression) bool {
	var nodes []ast.Node
	ast.Inspect(e, func(n ast.Node) bool {
		nodes = append(nodes, n)
		return true
	})
	if len(nodes) == 0 {
		return false
	}
	start := m.src.Intn(len(nodes))
	for i := range nodes {
		if m.mutate(nodes[(start+i)%len(nodes)]) {
			return true
		}
	}
	return false
}

func (m *Mutator) mutate(n ast.Node) bool {
	switch e := n.(type) {
	case *ast.IntegerLiteral:
		e.Value += int64(m.src.Intn(21)) - 10
	case *ast.BooleanLiteral:
		e.Value = !e.Value
	case *ast.StringLiteral:
		if e.Value == "" {
			return false
		}
		runes := []rune(e.Value)
		runes[m.src.Intn(len(runes))] = rune(' ' + m.src.Intn(95))
		e.Value = string(runes)
	case *ast.Operator:
		e.Symbol = symbols[m.src.Intn(len(symbols))]
	case *ast.ValueRef:
		if len(e.Module) > 0 {
			ext := externals[m.src.Intn(len(externals))]
			e.Module, e.Name = ast.ModulePath(ext.module), ext.name
		} else {
			e.Name = locals[m.src.Intn(len(locals))]
		}
	case *ast.Application:
		// Drop or duplicate the last argument to break the arity.
		if len(e.Arguments) == 0 {
			return false
		}
		if len(e.Arguments) > 1 && m.src.Intn(2) == 0 {
			e.Arguments = e.Arguments[:len(e.Arguments)-1]
		} else {
			e.Arguments = append(e.Arguments, e.Arguments[len(e.Arguments)-1])
		}
	case *ast.IfThenElse:
		e.Then, e.Else = e.Else, e.Then
	default:
		return false
	}
	return true
}
