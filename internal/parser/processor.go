package parser

import (
	"errors"
	"github.com/funvibe/gencode/internal/pipeline"
)

// ParserProcessor builds the module tree from the token stream.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		ctx.AddError("parse", "", errors.New("parser: token stream is nil"))
		return ctx
	}

	f, err := NewFromTokens(ctx.Tokens).File()
	if err != nil {
		var list Errors
		if errors.As(err, &list) {
			for _, e := range list {
				ctx.AddError("parse", "", e)
			}
		} else {
			ctx.AddError("parse", "", err)
		}
		return ctx
	}
	ctx.File = &f
	return ctx
}
