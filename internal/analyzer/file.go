package analyzer

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/typesystem"
)

// InferFile infers every declaration of f in order, threading the variable
// counter. Explicit signatures are visible to every declaration; inferred
// types become visible to the declarations that follow. The result is
// aligned with f.Declarations.
func InferFile(f ast.File, opts ...Option) []*Details {
	globals := map[string]typesystem.Type{}
	for _, decl := range f.Declarations {
		if decl.Signature != nil {
			globals[decl.Name] = decl.Signature
		}
	}
	out := make([]*Details, len(f.Declarations))
	next := 0
	for i, decl := range f.Declarations {
		scope := make(map[string]typesystem.Type, len(globals))
		for name, t := range globals {
			if name != decl.Name {
				scope[name] = t
			}
		}
		passOpts := append(append([]Option(nil), opts...), WithGlobals(scope))
		next, out[i] = InferDeclaration(next, decl, passOpts...)
		if _, explicit := globals[decl.Name]; !explicit && out[i].OK() {
			globals[decl.Name] = out[i].Type
		}
	}
	return out
}
