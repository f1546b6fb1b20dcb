package facts

import (
	"github.com/funvibe/gencode/internal/pipeline"
)

// FactsProcessor loads the facts files requested by the input on top of
// Base and hands the result to the inference stage.
type FactsProcessor struct {
	Base *Table
}

func (fp *FactsProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.FactsPaths) == 0 {
		if fp.Base != nil {
			ctx.Facts = fp.Base
		}
		return ctx
	}
	t, err := LoadAll(fp.Base, ctx.FactsPaths...)
	if err != nil {
		ctx.AddError("facts", "", err)
		return ctx
	}
	ctx.Facts = t
	return ctx
}
