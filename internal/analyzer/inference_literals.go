package analyzer

import (
	"fmt"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/typesystem"
)

func inferLiteral(e ast.Expression) typesystem.Type {
	switch e.(type) {
	case *ast.StringLiteral:
		return typesystem.String
	case *ast.IntegerLiteral:
		return typesystem.Int
	case *ast.FloatLiteral:
		return typesystem.Float
	case *ast.BooleanLiteral:
		return typesystem.Bool
	case *ast.CharLiteral:
		return typesystem.Char
	default:
		return typesystem.Unit
	}
}

// All elements must agree with the first one.
func (ctx *InferenceContext) inferList(n *ast.ListLiteral) typesystem.Type {
	elem := ctx.store.Fresh("")
	for i, el := range n.Elements {
		t := ctx.infer(el)
		ctx.unify(elem, t, fmt.Sprintf("list element %d", i+1))
	}
	return typesystem.List(elem)
}

func (ctx *InferenceContext) inferTuple(n *ast.TupleLiteral) typesystem.Type {
	elements := make([]typesystem.Type, len(n.Elements))
	for i, el := range n.Elements {
		elements[i] = ctx.infer(el)
	}
	return typesystem.TTuple{Elements: elements}
}
