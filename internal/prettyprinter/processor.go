package prettyprinter

import (
	"github.com/funvibe/gencode/internal/analyzer"
	"github.com/funvibe/gencode/internal/config"
	"github.com/funvibe/gencode/internal/pipeline"
)

// RenderProcessor renders the module tree into Output, using the inference
// results left by the analyzer stage when there are any.
type RenderProcessor struct {
	// LineWidth defaults to config.DefaultLineWidth.
	LineWidth int
}

func (rp *RenderProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.File == nil {
		return ctx
	}
	width := rp.LineWidth
	if width == 0 {
		width = config.DefaultLineWidth
	}
	ctx.Output = NewCodePrinterWithWidth(width).Module(*ctx.File, analyzer.Inferred(ctx))
	return ctx
}
