package analyzer

import (
	"github.com/funvibe/gencode/internal/pipeline"
	"github.com/funvibe/gencode/internal/typesystem"
)

// InferenceProcessor infers every declaration of the module. Declarations
// that fail keep their partial results; their errors go to the context, so
// the render stage can still emit the module with placeholder signatures.
type InferenceProcessor struct {
	// Options are applied to every pass, after the context's facts.
	Options []Option
}

func (ip *InferenceProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.File == nil {
		return ctx
	}
	var opts []Option
	if ctx.Facts != nil {
		opts = append(opts, WithFacts(ctx.Facts))
	}
	opts = append(opts, ip.Options...)

	details := InferFile(*ctx.File, opts...)
	for i, d := range details {
		name := ctx.File.Declarations[i].Name
		for _, err := range d.Errors {
			ctx.AddError("infer", name, formatted{err})
		}
	}
	ctx.Inferred = details
	return ctx
}

// formatted reports an inference error in its long, user-facing form.
type formatted struct {
	typesystem.InferenceError
}

func (f formatted) Error() string {
	return typesystem.FormatError(f.InferenceError)
}

func (f formatted) Unwrap() error {
	return f.InferenceError
}

// Inferred returns the analyzer results stored in the context, or nil.
func Inferred(ctx *pipeline.PipelineContext) []*Details {
	details, _ := ctx.Inferred.([]*Details)
	return details
}
