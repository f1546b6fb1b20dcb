package manifest

import (
	"github.com/funvibe/gencode/internal/pipeline"
)

// ManifestProcessor builds the module tree from the manifest in SourceCode,
// or from the file at FilePath when SourceCode is empty.
type ManifestProcessor struct{}

func (mp *ManifestProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	var (
		m   *Manifest
		err error
	)
	if ctx.SourceCode == "" {
		m, err = Load(ctx.FilePath)
	} else {
		m, err = Parse([]byte(ctx.SourceCode), ctx.FilePath)
	}
	if err != nil {
		ctx.AddError("manifest", "", err)
		return ctx
	}
	f, err := m.File()
	if err != nil {
		ctx.AddError("manifest", "", err)
		return ctx
	}
	ctx.File = &f
	ctx.FactsPaths = append(ctx.FactsPaths, m.FactsPaths()...)
	return ctx
}
