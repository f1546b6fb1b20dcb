package analyzer

import (
	"fmt"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/config"
	"github.com/funvibe/gencode/internal/typesystem"
	"unicode"
)

// inferValueRef resolves a reference. A caller-supplied type wins; then local
// names, external facts and constructors are tried in that order. Anything
// still unknown is opaque and gets a fresh variable.
func (ctx *InferenceContext) inferValueRef(n *ast.ValueRef) typesystem.Type {
	if known := n.KnownType(); known != nil {
		return ctx.store.Instantiate(known, map[string]typesystem.TVar{})
	}
	if len(n.Module) == 0 {
		if sc, ok := ctx.scope.Lookup(n.Name); ok {
			return ctx.store.InstantiateScheme(sc)
		}
	}
	if ctx.facts != nil {
		if t, ok := ctx.facts.LookupValue(n.Module, n.Name); ok {
			return ctx.store.Instantiate(t, map[string]typesystem.TVar{})
		}
	}
	if isConstructorName(n.Name) {
		if u, ok := ctx.lookupConstructor(n.Module, n.Name); ok {
			v, _ := u.Variant(n.Name)
			return ctx.store.Instantiate(u.ConstructorType(v), map[string]typesystem.TVar{})
		}
	}
	return ctx.store.Fresh("")
}

func (ctx *InferenceContext) inferLambda(n *ast.Lambda) typesystem.Type {
	outer := ctx.scope
	ctx.scope = outer.Child()
	defer func() { ctx.scope = outer }()

	mapping := map[string]typesystem.TVar{}
	params := make([]typesystem.Type, len(n.Params))
	for i, p := range n.Params {
		if p.Type != nil {
			params[i] = ctx.store.Instantiate(p.Type, mapping)
		} else if p.Name == config.WildcardPattern {
			params[i] = ctx.store.Fresh("")
		} else {
			params[i] = ctx.store.Fresh(p.Name)
		}
		if p.Name != config.WildcardPattern {
			ctx.scope.Set(p.Name, typesystem.Mono(params[i]))
		}
	}
	body := ctx.infer(n.Body)
	return typesystem.TFunc{Params: params, ReturnType: body}
}

// inferApplication unifies the callee with a function taking exactly the
// supplied arguments.
func (ctx *InferenceContext) inferApplication(n *ast.Application) typesystem.Type {
	fn := ctx.infer(n.Function)
	if len(n.Arguments) == 0 {
		return fn
	}
	args := make([]typesystem.Type, len(n.Arguments))
	for i, arg := range n.Arguments {
		args[i] = ctx.infer(arg)
	}
	ret := ctx.store.Fresh("")
	if f, ok := ctx.store.Find(fn).(typesystem.TFunc); ok && len(f.Params) != len(args) {
		ctx.report(&typesystem.ArityMismatch{
			Expected: len(f.Params),
			Found:    len(args),
			Context:  calleeName(n.Function),
		})
		return ret
	}
	ctx.unify(fn, typesystem.TFunc{Params: args, ReturnType: ret}, calleeLabel(n.Function))
	return ret
}

func calleeName(fn ast.Expression) string {
	if ref, ok := fn.(*ast.ValueRef); ok {
		return fmt.Sprintf("function `%s`", ref.QualifiedName())
	}
	return "function"
}

func (ctx *InferenceContext) inferOperator(n *ast.Operator) typesystem.Type {
	left := ctx.infer(n.Left)
	right := ctx.infer(n.Right)
	sig, ok := operatorType(n.Symbol)
	if !ok {
		ctx.report(&typesystem.UnknownConstructor{Name: "(" + n.Symbol + ")"})
		return ctx.store.Fresh("")
	}
	ret := ctx.store.Fresh("")
	expected := ctx.store.Instantiate(sig, map[string]typesystem.TVar{})
	ctx.unify(expected, typesystem.TFunc{Params: []typesystem.Type{left, right}, ReturnType: ret}, "operator ("+n.Symbol+")")
	return ret
}

func calleeLabel(fn ast.Expression) string {
	if ref, ok := fn.(*ast.ValueRef); ok {
		return fmt.Sprintf("the call to `%s`", ref.QualifiedName())
	}
	return "the call"
}

func isConstructorName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
