package prettyprinter

import (
	"github.com/funvibe/gencode/internal/analyzer"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/config"
	"github.com/funvibe/gencode/internal/imports"
	"github.com/funvibe/gencode/internal/typesystem"
	"github.com/mattn/go-runewidth"
	"strings"
)

// Rendered is the text of one expression or declaration together with the
// imports that text needs.
type Rendered struct {
	Doc       string // "{-| ... -}" block, declarations only
	Signature string
	Body      string
	Imports   []imports.ImportStatement
}

// Text joins doc, signature and body the way they appear in a source file.
func (r Rendered) Text() string {
	var parts []string
	for _, s := range []string{r.Doc, r.Signature, r.Body} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// Source is Text preceded by the import block.
func (r Rendered) Source() string {
	if len(r.Imports) == 0 {
		return r.Text()
	}
	return imports.Render(r.Imports) + "\n" + r.Text()
}

// Render renders a standalone expression. Signature holds the inferred type
// of the expression. When details is nil the expression is inferred with no
// external facts.
func Render(expr ast.Expression, details *analyzer.Details) Rendered {
	return NewCodePrinter().Render(expr, details)
}

// Render is Render with this printer's line width.
func (p *CodePrinter) Render(expr ast.Expression, details *analyzer.Details) Rendered {
	if details == nil {
		_, details = analyzer.Infer(0, expr)
	}
	var t typesystem.Type
	if details.OK() {
		t = details.Type
	}
	var set imports.Set
	set.AddExpression(expr)
	set.AddType(t)
	return Rendered{
		Signature: typesystem.FormatType(t),
		Body:      p.Expression(expr),
		Imports:   set.Statements(),
	}
}

// RenderDeclaration renders "name : Type" and "name params = body". An
// explicit signature is written as given; otherwise the inferred type is
// used, or the placeholder type when inference failed.
func RenderDeclaration(decl *ast.Declaration, details *analyzer.Details) Rendered {
	return NewCodePrinter().Declaration(decl, details)
}

// Declaration is RenderDeclaration with this printer's line width.
func (p *CodePrinter) Declaration(decl *ast.Declaration, details *analyzer.Details) Rendered {
	t := decl.Signature
	if t == nil {
		if details == nil {
			_, details = analyzer.InferDeclaration(0, decl)
		}
		if details.OK() {
			t = details.Type
		}
	}
	var set imports.Set
	set.AddExpression(decl)
	set.AddType(t)
	r := Rendered{
		Signature: p.signature(config.SafeName(decl.Name), t),
		Body:      p.definition(decl.Name, decl.Expr, 0),
		Imports:   set.Statements(),
	}
	if decl.Doc != "" {
		r.Doc = FormatDoc(decl.Doc)
	}
	return r
}

// FormatDoc wraps text in a documentation comment.
func FormatDoc(doc string) string {
	return "{-| " + strings.TrimRight(doc, "\n") + "\n-}"
}

// signature renders "name : Type". A function type that does not fit the
// line is broken before every arrow.
func (p *CodePrinter) signature(name string, t typesystem.Type) string {
	n := typesystem.NewNamer()
	n.Reserve(t)
	flat := name + " : " + n.Format(t)
	fn, ok := t.(typesystem.TFunc)
	if !ok || p.lineWidth <= 0 || runewidth.StringWidth(flat) <= p.lineWidth {
		return flat
	}
	pad := strings.Repeat(" ", config.IndentWidth)
	var b strings.Builder
	b.WriteString(name + " :")
	for i, param := range fn.Params {
		b.WriteString("\n" + pad)
		if i > 0 {
			b.WriteString("-> ")
		}
		b.WriteString(n.FormatArg(param))
	}
	b.WriteString("\n" + pad + "-> ")
	if _, nested := fn.ReturnType.(typesystem.TFunc); nested {
		b.WriteString(n.FormatArg(fn.ReturnType))
	} else {
		b.WriteString(n.Format(fn.ReturnType))
	}
	return b.String()
}

// File is a whole module of the target language.
type File = ast.File

// RenderModule renders a module. details is aligned with f.Declarations;
// missing entries are inferred on demand.
func RenderModule(f File, details []*analyzer.Details) string {
	return NewCodePrinter().Module(f, details)
}

// Module renders a module with this printer's line width.
func (p *CodePrinter) Module(f File, details []*analyzer.Details) string {
	var set imports.Set
	decls := make([]string, len(f.Declarations))
	for i, decl := range f.Declarations {
		var d *analyzer.Details
		if i < len(details) {
			d = details[i]
		}
		r := p.Declaration(decl, d)
		for _, st := range r.Imports {
			set.Add(st.Module)
		}
		decls[i] = r.Text()
	}

	var b strings.Builder
	b.WriteString(ModuleHeader(f.Module, f.Exposing))
	b.WriteString("\n")
	if set.Len() > 0 {
		b.WriteString("\n")
		b.WriteString(imports.Render(set.Statements()))
	}
	if len(decls) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(decls, "\n\n\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// ModuleHeader renders "module Name exposing (..)".
func ModuleHeader(name string, exposing []string) string {
	list := ".."
	if exposing != nil {
		list = strings.Join(exposing, ", ")
	}
	return "module " + name + " exposing (" + list + ")"
}

// RenderFile infers and renders a whole module. The returned details are
// aligned with f.Declarations.
func RenderFile(f File, opts ...analyzer.Option) (string, []*analyzer.Details) {
	details := analyzer.InferFile(f, opts...)
	return RenderModule(f, details), details
}
