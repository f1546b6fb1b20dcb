package analyzer

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/typesystem"
	"sort"
)

// Facts answers questions about values and types defined outside the tree
// being inferred. A nil Facts knows nothing: unknown external values get a
// fresh, unconstrained type.
type Facts interface {
	// LookupValue returns the type of an exported value. Type variables in
	// the result are caller-named and get instantiated at every use.
	LookupValue(module []string, name string) (typesystem.Type, bool)
	// LookupUnion returns the custom type named module.name.
	LookupUnion(module []string, name string) (*typesystem.Union, bool)
	// LookupConstructor returns the custom type owning the constructor.
	LookupConstructor(module []string, name string) (*typesystem.Union, bool)
}

// Option configures an inference pass.
type Option func(*InferenceContext)

// WithFacts supplies knowledge about external modules.
func WithFacts(f Facts) Option {
	return func(ctx *InferenceContext) {
		ctx.facts = f
	}
}

// WithScope makes names visible to the expression as if bound by an
// enclosing lambda. Variables in the given types are caller-named.
func WithScope(values map[string]typesystem.Type) Option {
	return func(ctx *InferenceContext) {
		for _, name := range sortedNames(values) {
			ctx.scope.Set(name, typesystem.Mono(ctx.store.Instantiate(values[name], map[string]typesystem.TVar{})))
		}
	}
}

// WithGlobals makes top-level values visible. Unlike WithScope, each use of
// a global gets fresh copies of its type variables.
func WithGlobals(values map[string]typesystem.Type) Option {
	return func(ctx *InferenceContext) {
		for _, name := range sortedNames(values) {
			inst := ctx.store.Instantiate(values[name], map[string]typesystem.TVar{})
			ctx.scope.Set(name, typesystem.Scheme{Vars: inst.FreeTypeVariables(), Type: inst})
		}
	}
}

// sortedNames fixes the order in which option types receive fresh variables.
func sortedNames(values map[string]typesystem.Type) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Details is the outcome of one inference pass.
type Details struct {
	// Type is the resolved type of the root expression. When Errors is not
	// empty it is a best-effort partial result.
	Type typesystem.Type
	// Errors lists every failure found, in tree order.
	Errors []typesystem.InferenceError
	// Types holds the resolved type of every sub-expression. A node shared by
	// several parents has a single entry.
	Types map[ast.Expression]typesystem.Type
}

// Annotation returns the inferred type, or the accumulated errors.
func (d *Details) Annotation() (typesystem.Type, error) {
	if len(d.Errors) > 0 {
		return nil, typesystem.ErrorList(d.Errors)
	}
	return d.Type, nil
}

// OK reports whether inference succeeded.
func (d *Details) OK() bool {
	return len(d.Errors) == 0
}

// TypeOf returns the resolved type of a sub-expression.
func (d *Details) TypeOf(e ast.Expression) (typesystem.Type, bool) {
	t, ok := d.Types[e]
	return t, ok
}

// Infer computes the type of expr. start is the counter left by the previous
// pass (0 for the first one); the returned counter must be handed to the
// next pass so that variables of different passes never collide.
//
// Inference never stops at the first failure: a failing sub-expression is
// given an unconstrained type and its siblings are still checked.
func Infer(start int, expr ast.Expression, opts ...Option) (int, *Details) {
	ctx := NewInferenceContext(start, opts...)
	t := ctx.infer(expr)
	return ctx.store.Next(), ctx.details(t)
}

// InferDeclaration infers a top-level declaration. The name is in scope
// inside its own body, and an explicit signature is unified with the
// inferred type.
func InferDeclaration(start int, decl *ast.Declaration, opts ...Option) (int, *Details) {
	ctx := NewInferenceContext(start, opts...)
	sigVars := map[string]typesystem.TVar{}
	var self typesystem.Type
	if decl.Signature != nil {
		self = ctx.store.Instantiate(decl.Signature, sigVars)
	} else {
		self = ctx.store.Fresh("")
	}
	ctx.scope = ctx.scope.Child()
	ctx.scope.Set(decl.Name, typesystem.Mono(self))
	t := ctx.infer(decl.Expr)
	label := "the signature of `" + decl.Name + "`"
	if ctx.unify(self, t, label) && decl.Signature != nil {
		ctx.checkRigid(decl.Signature, sigVars, label)
	}
	if decl.Signature != nil {
		t = self
	}
	return ctx.store.Next(), ctx.details(t)
}

// checkRigid reports signature variables that the body forced to a concrete
// type or merged with each other: the signature claims more generality than
// the body provides.
func (ctx *InferenceContext) checkRigid(sig typesystem.Type, vars map[string]typesystem.TVar, label string) {
	seen := map[int]string{}
	for _, v := range sig.FreeTypeVariables() {
		fresh, ok := vars[v.Key()]
		if !ok {
			continue
		}
		switch found := ctx.store.Find(fresh).(type) {
		case typesystem.TVar:
			if other, dup := seen[found.ID]; dup {
				ctx.report(&typesystem.CannotUnify{
					Left:    v,
					Right:   typesystem.Var(other),
					Reason:  "the body needs both variables to be the same type",
					Context: []string{label},
				})
				continue
			}
			seen[found.ID] = v.Name
		default:
			ctx.report(&typesystem.CannotUnify{
				Left:    v,
				Right:   ctx.store.Resolve(found),
				Reason:  "the signature is more general than the body",
				Context: []string{label},
			})
		}
	}
}
