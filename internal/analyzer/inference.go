package analyzer

import (
	"fmt"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/typesystem"
)

// InferenceContext holds the state for a type inference pass.
// Using a context instead of global state keeps type variable numbering
// predictable and lets independent passes run in parallel.
type InferenceContext struct {
	store *typesystem.Store
	facts Facts
	scope *Scope
	// TypeMap records the (unresolved) type of every visited expression.
	TypeMap map[ast.Expression]typesystem.Type
	errors  []typesystem.InferenceError
}

// NewInferenceContext creates a context whose variables are numbered after start.
func NewInferenceContext(start int, opts ...Option) *InferenceContext {
	ctx := &InferenceContext{
		store:   typesystem.NewStore(start),
		scope:   NewScope(nil),
		TypeMap: make(map[ast.Expression]typesystem.Type),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// Store exposes the union-find store, mainly for tests.
func (ctx *InferenceContext) Store() *typesystem.Store {
	return ctx.store
}

func (ctx *InferenceContext) report(err typesystem.InferenceError) {
	ctx.errors = append(ctx.errors, err)
}

// unify unifies expected with actual and records a failure under the given
// context label. It reports whether unification succeeded.
func (ctx *InferenceContext) unify(expected, actual typesystem.Type, label string) bool {
	if _, err := ctx.store.Unify(expected, actual); err != nil {
		if label != "" {
			err = typesystem.WithContext(err, label)
		}
		if ie, ok := err.(typesystem.InferenceError); ok {
			ctx.report(ie)
		} else {
			ctx.report(&typesystem.CannotUnify{Left: expected, Right: actual, Reason: err.Error()})
		}
		return false
	}
	return true
}

// infer computes the type of e, records it in TypeMap and checks it against
// the caller-supplied type of the node, if any.
func (ctx *InferenceContext) infer(e ast.Expression) typesystem.Type {
	if e == nil {
		return ctx.store.Fresh("")
	}
	var t typesystem.Type
	switch n := e.(type) {
	case *ast.StringLiteral, *ast.IntegerLiteral, *ast.FloatLiteral,
		*ast.BooleanLiteral, *ast.CharLiteral, *ast.UnitLiteral:
		t = inferLiteral(n)
	case *ast.ListLiteral:
		t = ctx.inferList(n)
	case *ast.TupleLiteral:
		t = ctx.inferTuple(n)
	case *ast.RecordLiteral:
		t = ctx.inferRecord(n)
	case *ast.RecordUpdate:
		t = ctx.inferRecordUpdate(n)
	case *ast.FieldAccess:
		t = ctx.inferFieldAccess(n)
	case *ast.ValueRef:
		// A known type on a reference is the reference's type, not a check.
		t = ctx.inferValueRef(n)
		ctx.TypeMap[e] = t
		return t
	case *ast.Lambda:
		t = ctx.inferLambda(n)
	case *ast.Application:
		t = ctx.inferApplication(n)
	case *ast.Operator:
		t = ctx.inferOperator(n)
	case *ast.LetIn:
		t = ctx.inferLet(n)
	case *ast.CaseOf:
		t = ctx.inferCase(n)
	case *ast.IfThenElse:
		t = ctx.inferIf(n)
	default:
		ctx.report(&typesystem.CannotUnify{Reason: fmt.Sprintf("unsupported expression %T", e)})
		t = ctx.store.Fresh("")
	}
	if known := e.KnownType(); known != nil {
		ctx.unify(ctx.store.Instantiate(known, map[string]typesystem.TVar{}), t, "the annotated type")
	}
	ctx.TypeMap[e] = t
	return t
}

// details resolves every recorded type once inference is done.
func (ctx *InferenceContext) details(root typesystem.Type) *Details {
	types := make(map[ast.Expression]typesystem.Type, len(ctx.TypeMap))
	for e, t := range ctx.TypeMap {
		types[e] = ctx.store.Resolve(t)
	}
	return &Details{
		Type:   ctx.store.Resolve(root),
		Errors: ctx.errors,
		Types:  types,
	}
}

// envTypes returns the types of every name in scope, for generalization.
func (ctx *InferenceContext) envTypes() []typesystem.Type {
	var types []typesystem.Type
	for s := ctx.scope; s != nil; s = s.parent {
		for _, sc := range s.values {
			types = append(types, sc.Type)
		}
	}
	return types
}
