package main

import (
	"context"
	"github.com/funvibe/gencode/internal/analyzer"
	"github.com/funvibe/gencode/internal/facts"
	"github.com/funvibe/gencode/internal/lexer"
	"github.com/funvibe/gencode/internal/manifest"
	"github.com/funvibe/gencode/internal/parser"
	"github.com/funvibe/gencode/internal/pipeline"
	"github.com/funvibe/gencode/internal/prettyprinter"
	"github.com/funvibe/gencode/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"os"
	"path/filepath"
	"runtime"
)

// session holds what every command needs: the project settings, the facts
// shared by all files, and where to report.
type session struct {
	project *project
	base    *facts.Table
	jobs    int
	report  *reporter
}

func newSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	colorMode, err := flags.GetString("color")
	if err != nil {
		return nil, err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, err
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, err
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	colored, err := colorEnabled(colorMode, os.Stderr)
	if err != nil {
		return nil, err
	}

	p, err := loadProject(configPath, ".")
	if err != nil {
		return nil, err
	}
	base, err := p.baseFacts()
	if err != nil {
		return nil, err
	}
	return &session{
		project: p,
		base:    base,
		jobs:    jobs,
		report:  newReporter(cmd.OutOrStdout(), cmd.ErrOrStderr(), colored, quiet),
	}, nil
}

// baseFacts is the prelude, unless disabled, plus the project's facts files.
func (p *project) baseFacts() (*facts.Table, error) {
	var base *facts.Table
	if p.Config.Facts.Prelude {
		base = facts.Prelude()
	}
	return facts.LoadAll(base, p.FactsFiles()...)
}

// fileResult is the outcome of running the pipeline on one input file.
type fileResult struct {
	Path        string
	Module      string
	Source      string
	Output      string
	Diagnostics []*pipeline.Diagnostic
}

func (r fileResult) Failed() bool {
	return len(r.Diagnostics) > 0
}

func (s *session) stages(render bool) []pipeline.Processor {
	stages := []pipeline.Processor{
		&facts.FactsProcessor{Base: s.base},
		&analyzer.InferenceProcessor{},
	}
	if render {
		stages = append(stages, &prettyprinter.RenderProcessor{LineWidth: s.project.Config.Render.LineWidth})
	}
	return stages
}

// process runs one file through the manifest or the source pipeline,
// depending on its extension. Rendering is skipped when render is false.
func (s *session) process(path string, render bool) fileResult {
	ctx := pipeline.NewPipelineContext("")
	ctx.FilePath = path

	var front []pipeline.Processor
	if utils.IsManifestFile(path) {
		front = []pipeline.Processor{&manifest.ManifestProcessor{}}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			ctx.AddError("read", "", err)
			return fileResult{Path: path, Diagnostics: ctx.Errors}
		}
		ctx.SourceCode = string(data)
		front = []pipeline.Processor{&lexer.LexerProcessor{}, &parser.ParserProcessor{}}
	}

	ctx = pipeline.New(append(front, s.stages(render)...)...).Run(ctx)
	res := fileResult{
		Path:        path,
		Source:      ctx.SourceCode,
		Output:      ctx.Output,
		Diagnostics: ctx.Errors,
	}
	if ctx.File != nil {
		res.Module = ctx.File.Module
	}
	return res
}

// processFiles runs fn over paths with at most jobs files in flight. Results
// keep the order of paths.
func processFiles(ctx context.Context, paths []string, jobs int, fn func(path string) fileResult) ([]fileResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]fileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// Each goroutine owns results[i].
			results[i] = fn(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeIfChanged writes data to path unless the file already holds it, and
// reports whether it wrote.
func writeIfChanged(path string, data []byte) (bool, error) {
	if old, err := os.ReadFile(path); err == nil && string(old) == string(data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
