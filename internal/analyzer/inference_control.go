package analyzer

import (
	"fmt"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/config"
	"github.com/funvibe/gencode/internal/typesystem"
)

// inferLet infers bindings in order. Each binding sees itself (for recursive
// functions) and the bindings before it, and is generalized before the next
// one is inferred.
func (ctx *InferenceContext) inferLet(n *ast.LetIn) typesystem.Type {
	outer := ctx.scope
	ctx.scope = outer.Child()
	defer func() { ctx.scope = outer }()

	for _, b := range n.Bindings {
		self := ctx.store.Fresh("")
		ctx.scope.Set(b.Name, typesystem.Mono(self))
		t := ctx.infer(b.Value)
		ctx.unify(self, t, "let binding `"+b.Name+"`")
		delete(ctx.scope.values, b.Name)
		ctx.scope.Set(b.Name, ctx.store.Generalize(t, ctx.envTypes()))
	}
	return ctx.infer(n.Body)
}

func (ctx *InferenceContext) inferIf(n *ast.IfThenElse) typesystem.Type {
	cond := ctx.infer(n.Condition)
	ctx.unify(typesystem.Bool, cond, "the if condition")
	then := ctx.infer(n.Then)
	otherwise := ctx.infer(n.Else)
	ctx.unify(then, otherwise, "the else branch")
	return then
}

// inferCase checks every branch against the subject type and makes all
// branch bodies agree.
func (ctx *InferenceContext) inferCase(n *ast.CaseOf) typesystem.Type {
	subject := ctx.infer(n.Subject)
	if n.SubjectType != nil {
		declared := ctx.store.Instantiate(n.SubjectType, map[string]typesystem.TVar{})
		ctx.unify(declared, subject, "the case subject")
	}
	result := ctx.store.Fresh("")
	for i, b := range n.Branches {
		outer := ctx.scope
		ctx.scope = outer.Child()
		if !b.IsWildcard() {
			ctx.bindPattern(b, subject)
		}
		body := ctx.infer(b.Body)
		ctx.scope = outer
		ctx.unify(result, body, fmt.Sprintf("branch %d `%s`", i+1, b.QualifiedConstructor()))
	}
	return result
}

// bindPattern puts the variables of a constructor pattern in scope.
func (ctx *InferenceContext) bindPattern(b ast.Branch, subject typesystem.Type) {
	args, known := ctx.patternArgs(b, subject)
	mapping := map[string]typesystem.TVar{}
	for i, pb := range b.Bindings {
		var t typesystem.Type
		if known {
			t = args[i]
		} else {
			t = ctx.store.Fresh(pb.Name)
		}
		if pb.Type != nil {
			declared := ctx.store.Instantiate(pb.Type, mapping)
			if known {
				ctx.unify(declared, t, "pattern variable `"+pb.Name+"`")
			} else {
				t = declared
			}
		}
		if pb.Name != config.WildcardPattern {
			ctx.scope.Set(pb.Name, typesystem.Mono(t))
		}
	}
}

// patternArgs returns the types of the constructor's arguments. known is
// false when the constructor belongs to a type nothing is known about; its
// arguments are then unconstrained.
func (ctx *InferenceContext) patternArgs(b ast.Branch, subject typesystem.Type) (args []typesystem.Type, known bool) {
	resolved := ctx.store.Resolve(subject)
	var u *typesystem.Union
	switch st := resolved.(type) {
	case typesystem.TNamed:
		u, _ = ctx.lookupUnion(st.Module, st.Name)
	case typesystem.TCon:
		var ok bool
		if u, ok = ctx.lookupUnion(nil, st.Name); !ok {
			ctx.report(&typesystem.UnknownConstructor{Name: b.QualifiedConstructor(), Type: resolved})
			return nil, false
		}
	case typesystem.TVar:
	default:
		ctx.report(&typesystem.UnknownConstructor{Name: b.QualifiedConstructor(), Type: resolved})
		return nil, false
	}

	if u == nil {
		var ok bool
		if u, ok = ctx.lookupConstructor(b.Module, b.Constructor); !ok {
			return nil, false
		}
	}
	v, ok := u.Variant(b.Constructor)
	if !ok {
		ctx.report(&typesystem.UnknownConstructor{Name: b.QualifiedConstructor(), Type: resolved})
		return nil, false
	}
	if len(v.Args) != len(b.Bindings) {
		ctx.report(&typesystem.ArityMismatch{
			Expected: len(v.Args),
			Found:    len(b.Bindings),
			Context:  "pattern " + b.QualifiedConstructor(),
		})
		return nil, false
	}

	mapping := map[string]typesystem.TVar{}
	owner := ctx.store.Instantiate(u.Type(), mapping)
	if !ctx.unify(owner, subject, "pattern "+b.QualifiedConstructor()) {
		return nil, false
	}
	args = make([]typesystem.Type, len(v.Args))
	for i, a := range v.Args {
		args[i] = ctx.store.Instantiate(a, mapping)
	}
	return args, true
}
