package testgen

import (
	"github.com/funvibe/gencode/internal/ast"
	"reflect"
	"testing"
)

func TestGeneratorEmptyDataPicksSimplestTree(t *testing.T) {
	expr := NewFromData(nil).Expression()
	if lit, ok := expr.(*ast.IntegerLiteral); !ok || lit.Value != 0 {
		t.Errorf("expected 0, got %#v", expr)
	}
}

func TestGeneratorFromData(t *testing.T) {
	expr := NewFromData([]byte{14, 1, 1, 2, 0, 4}).Expression()
	expected := ast.If(ast.Local("count"), ast.Char('a'), ast.Int(0))
	if !reflect.DeepEqual(expr, expected) {
		t.Errorf("expected %#v, got %#v", expected, expr)
	}
}

func TestGeneratorDeterminism(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		a := New(seed).Expression()
		b := New(seed).Expression()
		NewMutator(seed).Mutate(a)
		NewMutator(seed).Mutate(b)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("seed %d produced different trees", seed)
		}
	}
}

func TestGeneratedDepthIsBounded(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		if d := depth(New(seed).Expression()); d > 2*MaxDepth+2 {
			t.Errorf("seed %d: tree depth %d", seed, d)
		}
	}
}

func depth(n ast.Node) int {
	deepest := 0
	first := true
	ast.Inspect(n, func(child ast.Node) bool {
		if first {
			first = false
			return true
		}
		if d := depth(child); d > deepest {
			deepest = d
		}
		return false
	})
	return deepest + 1
}

func TestMutatorChangesTree(t *testing.T) {
	expr := NewFromData([]byte{14, 1, 1, 2, 0, 4}).Expression()
	before := ast.If(ast.Local("count"), ast.Char('a'), ast.Int(0))
	if !NewMutatorFromData([]byte{0}).Mutate(expr) {
		t.Fatal("expected a mutation")
	}
	if reflect.DeepEqual(expr, before) {
		t.Error("tree is unchanged")
	}
}

func TestMutatorOnLiteralWithoutCandidates(t *testing.T) {
	if NewMutatorFromData(nil).Mutate(ast.Unit()) {
		t.Error("unit has nothing to mutate")
	}
}
