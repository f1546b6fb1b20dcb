// Package codegen generates source code in an Elm-like language from
// expression trees.
//
// Trees are built with the constructors re-exported below, or parsed from
// text with ParseExpression. A Generator infers their types against a facts
// table describing external modules and renders them in the canonical
// layout, together with the import lines they need.
package codegen

import (
	"errors"
	"fmt"
	"github.com/funvibe/gencode/internal/analyzer"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/config"
	"github.com/funvibe/gencode/internal/facts"
	"github.com/funvibe/gencode/internal/lexer"
	"github.com/funvibe/gencode/internal/manifest"
	"github.com/funvibe/gencode/internal/parser"
	"github.com/funvibe/gencode/internal/pipeline"
	"github.com/funvibe/gencode/internal/prettyprinter"
	"github.com/funvibe/gencode/internal/typesystem"
	"os"
	"sync"
)

type (
	Expression  = ast.Expression
	Declaration = ast.Declaration
	File        = ast.File
	Branch      = ast.Branch
	Binding     = ast.Binding
	RecordField = ast.RecordField

	Type           = typesystem.Type
	InferenceError = typesystem.InferenceError
	Details        = analyzer.Details
	Rendered       = prettyprinter.Rendered
	Facts          = facts.Table
	Diagnostic     = pipeline.Diagnostic
)

// Tree constructors.
var (
	String   = ast.String
	Int      = ast.Int
	Float    = ast.Float
	Bool     = ast.Bool
	Char     = ast.Char
	Unit     = ast.Unit
	List     = ast.List
	Tuple    = ast.Tuple
	Field    = ast.Field
	Record   = ast.Record
	Update   = ast.Update
	Fn       = ast.Fn
	Apply    = ast.Apply
	Local    = ast.Local
	Ref      = ast.Ref
	RefTyped = ast.RefTyped
	Bind     = ast.Bind
	Let      = ast.Let
	Pattern  = ast.Pattern
	Wildcard = ast.Wildcard
	Case     = ast.Case
	Op       = ast.Op
	Access   = ast.Access
	If       = ast.If
	Declare  = ast.Declare
	WithType = ast.WithType
)

// ParseExpression parses a single expression.
func ParseExpression(src string) (Expression, error) {
	return parser.ParseExpression(src)
}

// ParseType parses a type annotation such as "Maybe a -> Html.Html msg".
func ParseType(src string) (Type, error) {
	return parser.ParseType(src)
}

// FormatType renders a type with canonical variable names.
func FormatType(t Type) string {
	return typesystem.FormatType(t)
}

// Prelude returns the facts describing the core library.
func Prelude() *Facts {
	return facts.Prelude()
}

// LoadFacts reads YAML facts files or msgpack snapshots and merges them.
func LoadFacts(paths ...string) (*Facts, error) {
	return facts.LoadAll(nil, paths...)
}

type options struct {
	lineWidth  int
	noPrelude  bool
	tables     []*facts.Table
	factsFiles []string
}

type Option func(*options) error

// WithLineWidth sets the width long expressions are broken at.
func WithLineWidth(width int) Option {
	return func(o *options) error {
		if width <= 0 {
			return fmt.Errorf("invalid line width %d", width)
		}
		o.lineWidth = width
		return nil
	}
}

// WithFacts adds a facts table to the generator's knowledge.
func WithFacts(t *Facts) Option {
	return func(o *options) error {
		o.tables = append(o.tables, t)
		return nil
	}
}

// WithFactsFiles loads facts files into the generator.
func WithFactsFiles(paths ...string) Option {
	return func(o *options) error {
		o.factsFiles = append(o.factsFiles, paths...)
		return nil
	}
}

// WithoutPrelude leaves the core library out of the facts table.
func WithoutPrelude() Option {
	return func(o *options) error {
		o.noPrelude = true
		return nil
	}
}

// Generator infers and renders trees. It is safe for concurrent use.
type Generator struct {
	facts     *facts.Table
	lineWidth int

	mu   sync.Mutex
	next int
}

func New(opts ...Option) (*Generator, error) {
	o := options{lineWidth: config.DefaultLineWidth}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	t := facts.New()
	if !o.noPrelude {
		o.tables = append([]*facts.Table{facts.Prelude()}, o.tables...)
	}
	for _, other := range o.tables {
		if err := t.Merge(other); err != nil {
			return nil, err
		}
	}
	t, err := facts.LoadAll(t, o.factsFiles...)
	if err != nil {
		return nil, err
	}
	return &Generator{facts: t, lineWidth: o.lineWidth}, nil
}

// Facts returns the table used for inference.
func (g *Generator) Facts() *Facts {
	return g.facts
}

// Infer infers expr. Variables are numbered from where the previous call
// of this generator stopped.
func (g *Generator) Infer(expr Expression) *Details {
	g.mu.Lock()
	defer g.mu.Unlock()
	var d *Details
	g.next, d = analyzer.Infer(g.next, expr, analyzer.WithFacts(g.facts))
	return d
}

func (g *Generator) inferDeclaration(decl *Declaration) *Details {
	g.mu.Lock()
	defer g.mu.Unlock()
	var d *Details
	g.next, d = analyzer.InferDeclaration(g.next, decl, analyzer.WithFacts(g.facts))
	return d
}

// Render renders a standalone expression. The text is produced even when
// inference fails; the failure is returned as an ErrorList.
func (g *Generator) Render(expr Expression) (Rendered, error) {
	d := g.Infer(expr)
	_, err := d.Annotation()
	return prettyprinter.NewCodePrinterWithWidth(g.lineWidth).Render(expr, d), err
}

// RenderDeclaration renders one top-level definition with its signature.
func (g *Generator) RenderDeclaration(decl *Declaration) (Rendered, error) {
	d := g.inferDeclaration(decl)
	_, err := d.Annotation()
	return prettyprinter.NewCodePrinterWithWidth(g.lineWidth).Declaration(decl, d), err
}

// RenderFile renders a whole module. The output is complete even when
// some declarations fail to infer; their diagnostics are joined in err.
func (g *Generator) RenderFile(f File) (string, error) {
	ctx := pipeline.NewPipelineContext("")
	ctx.File = &f
	return g.run(ctx, g.renderStages())
}

// Format reformats module source text.
func (g *Generator) Format(src, path string) (string, error) {
	ctx := pipeline.NewPipelineContext(src)
	ctx.FilePath = path
	stages := append([]pipeline.Processor{&lexer.LexerProcessor{}, &parser.ParserProcessor{}}, g.renderStages()...)
	return g.run(ctx, stages)
}

// RenderManifest renders the module described by manifest content. Facts
// files named by the manifest are resolved against path's directory.
func (g *Generator) RenderManifest(data []byte, path string) (string, error) {
	ctx := pipeline.NewPipelineContext(string(data))
	ctx.FilePath = path
	stages := append([]pipeline.Processor{&manifest.ManifestProcessor{}}, g.renderStages()...)
	return g.run(ctx, stages)
}

// RenderManifestFile reads and renders a manifest file.
func (g *Generator) RenderManifestFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return g.RenderManifest(data, path)
}

func (g *Generator) renderStages() []pipeline.Processor {
	return []pipeline.Processor{
		&facts.FactsProcessor{Base: g.facts},
		&analyzer.InferenceProcessor{},
		&prettyprinter.RenderProcessor{LineWidth: g.lineWidth},
	}
}

func (g *Generator) run(ctx *pipeline.PipelineContext, stages []pipeline.Processor) (string, error) {
	ctx = pipeline.New(stages...).Run(ctx)
	return ctx.Output, ctx.Err()
}

// Diagnostics unpacks the per-stage errors returned by the generator.
func Diagnostics(err error) []*Diagnostic {
	var out []*Diagnostic
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, Diagnostics(e)...)
		}
		return out
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		out = append(out, d)
	}
	return out
}
