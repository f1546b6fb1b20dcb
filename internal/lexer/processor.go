package lexer

import (
	"github.com/funvibe/gencode/internal/pipeline"
)

// LexerProcessor turns the source code into the token stream.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.Tokens = New(ctx.SourceCode).Tokenize()
	return ctx
}
