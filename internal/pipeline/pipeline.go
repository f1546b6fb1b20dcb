package pipeline

import (
	"errors"
	"fmt"
	"github.com/funvibe/gencode/internal/ast"
	"github.com/funvibe/gencode/internal/token"
	"github.com/funvibe/gencode/internal/typesystem"
	"strings"
)

// Processor is one stage of the pipeline. A stage reads what earlier stages
// left in the context and adds its own results.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Facts mirrors analyzer.Facts so that the context can carry a facts table
// without depending on the analyzer.
type Facts interface {
	LookupValue(module []string, name string) (typesystem.Type, bool)
	LookupUnion(module []string, name string) (*typesystem.Union, bool)
	LookupConstructor(module []string, name string) (*typesystem.Union, bool)
}

// PipelineContext carries one module through the stages.
type PipelineContext struct {
	FilePath   string
	SourceCode string

	Tokens []token.Token
	File   *ast.File

	// FactsPaths are facts files requested by the input, loaded by the facts
	// stage into Facts.
	FactsPaths []string
	Facts      Facts

	// Inferred holds the analyzer's per-declaration results, aligned with
	// File.Declarations.
	Inferred interface{}

	Output string
	Errors []*Diagnostic
}

func NewPipelineContext(sourceCode string) *PipelineContext {
	return &PipelineContext{SourceCode: sourceCode}
}

// AddError records err. declaration may be empty.
func (ctx *PipelineContext) AddError(stage, declaration string, err error) {
	ctx.Errors = append(ctx.Errors, &Diagnostic{
		File:        ctx.FilePath,
		Stage:       stage,
		Declaration: declaration,
		Err:         err,
	})
}

// Failed reports whether any stage recorded an error.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0
}

// Err joins every recorded error, or returns nil.
func (ctx *PipelineContext) Err() error {
	if len(ctx.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(ctx.Errors))
	for i, d := range ctx.Errors {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Diagnostic is an error reported by a stage.
type Diagnostic struct {
	File        string
	Stage       string
	Declaration string
	Err         error
}

func (d *Diagnostic) Error() string {
	prefix := d.File
	if prefix == "" {
		prefix = "<input>"
	}
	msg := d.Err.Error()
	if d.Declaration != "" {
		return fmt.Sprintf("%s: %s: %s", prefix, d.Declaration, msg)
	}
	// Errors from file loaders already name the file.
	if d.File != "" && strings.HasPrefix(msg, d.File+":") {
		return msg
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

func (d *Diagnostic) Unwrap() error {
	return d.Err
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages;
		// each stage skips work whose input is missing.
	}
	return ctx
}
