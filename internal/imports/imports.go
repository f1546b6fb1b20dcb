package imports

import (
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/config"
	"github.com/funvibe/gencode/internal/typesystem"
	"sort"
	"strings"
)

// ImportStatement is one import line of the emitted module.
type ImportStatement struct {
	Module []string
}

// Name returns the dotted module name.
func (s ImportStatement) Name() string {
	return JoinPath(s.Module)
}

func (s ImportStatement) String() string {
	return "import " + s.Name()
}

func JoinPath(parts []string) string {
	return strings.Join(parts, ".")
}

// IsImplicit reports whether a module is imported by default, so that
// references into it need no import line.
func IsImplicit(module []string) bool {
	return len(module) == 0 || config.ImplicitModules[JoinPath(module)]
}

// Set accumulates imported modules. The zero value is ready to use.
type Set struct {
	modules map[string][]string
}

// Add records module unless it is local or implicit.
func (s *Set) Add(module []string) {
	if IsImplicit(module) {
		return
	}
	if s.modules == nil {
		s.modules = make(map[string][]string)
	}
	name := JoinPath(module)
	if _, ok := s.modules[name]; !ok {
		s.modules[name] = append([]string(nil), module...)
	}
}

// AddType records every module a type refers to.
func (s *Set) AddType(t typesystem.Type) {
	switch typ := t.(type) {
	case typesystem.TNamed:
		s.Add(typ.Module)
		for _, arg := range typ.Args {
			s.AddType(arg)
		}
	case typesystem.TFunc:
		for _, p := range typ.Params {
			s.AddType(p)
		}
		s.AddType(typ.ReturnType)
	case typesystem.TTuple:
		for _, el := range typ.Elements {
			s.AddType(el)
		}
	case typesystem.TRecord:
		for _, f := range typ.Fields {
			s.AddType(f.Type)
		}
	}
}

// AddExpression records every module referenced anywhere inside expr,
// including let bindings, case branches and lambda bodies.
func (s *Set) AddExpression(expr ast.Node) {
	ast.Inspect(expr, func(n ast.Node) bool {
		if e, ok := n.(ast.Expression); ok {
			s.AddType(e.KnownType())
		}
		switch node := n.(type) {
		case *ast.Declaration:
			s.AddType(node.Signature)
		case *ast.ValueRef:
			s.Add(node.Module)
		case *ast.Lambda:
			for _, p := range node.Params {
				s.AddType(p.Type)
			}
		case *ast.CaseOf:
			s.AddType(node.SubjectType)
			for _, b := range node.Branches {
				s.Add(b.Module)
				for _, pb := range b.Bindings {
					s.AddType(pb.Type)
				}
			}
		}
		return true
	})
}

// Merge adds every module of other.
func (s *Set) Merge(other *Set) {
	for _, m := range other.modules {
		s.Add(m)
	}
}

func (s *Set) Len() int {
	return len(s.modules)
}

// Statements returns one import per module, sorted by dotted name.
func (s *Set) Statements() []ImportStatement {
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	stmts := make([]ImportStatement, len(names))
	for i, name := range names {
		stmts[i] = ImportStatement{Module: s.modules[name]}
	}
	return stmts
}

// Collect returns the imports needed by expr.
func Collect(expr ast.Expression) []ImportStatement {
	var s Set
	s.AddExpression(expr)
	return s.Statements()
}

// CollectDeclaration returns the imports needed by a declaration, its
// signature included.
func CollectDeclaration(decl *ast.Declaration) []ImportStatement {
	var s Set
	s.AddExpression(decl)
	return s.Statements()
}

// ForType returns the imports needed to write t.
func ForType(t typesystem.Type) []ImportStatement {
	var s Set
	s.AddType(t)
	return s.Statements()
}

// Render writes the import block, one statement per line.
func Render(stmts []ImportStatement) string {
	var b strings.Builder
	for _, st := range stmts {
		b.WriteString(st.String())
		b.WriteString("\n")
	}
	return b.String()
}
