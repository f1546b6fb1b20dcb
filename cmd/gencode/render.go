package main

import (
	"fmt"
	"github.com/funvibe/gencode/internal/utils"
	"github.com/spf13/cobra"
	"io"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <manifest.yaml> [manifest.yaml...]",
	Short: "Render module manifests into source files",
	Long: `Render infers every declaration of each manifest and writes the module to
<out>/<Module/Path>.elm. Declarations that fail to infer are still written,
with a placeholder signature, and reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("out", "o", "", "output directory (default: [render].out_dir)")
	renderCmd.Flags().Bool("stdout", false, "print rendered modules instead of writing files")
}

type renderOptions struct {
	OutDir string
	Stdout bool
}

func runRender(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	opts := renderOptions{OutDir: s.project.OutDir()}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		opts.OutDir = out
	}
	opts.Stdout, _ = cmd.Flags().GetBool("stdout")
	return s.render(cmd, args, opts)
}

func (s *session) render(cmd *cobra.Command, paths []string, opts renderOptions) error {
	for _, p := range paths {
		if !utils.IsManifestFile(p) {
			return fmt.Errorf("render: %s is not a manifest", p)
		}
	}
	results, err := processFiles(cmd.Context(), paths, s.jobs, func(path string) fileResult {
		return s.process(path, true)
	})
	if err != nil {
		return err
	}

	for _, res := range results {
		if res.Output == "" {
			continue
		}
		if opts.Stdout {
			io.WriteString(s.report.out, res.Output)
			continue
		}
		target := utils.ModuleFilePath(opts.OutDir, res.Module)
		wrote, err := writeIfChanged(target, []byte(res.Output))
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if wrote {
			s.report.progress("wrote", target)
		}
	}

	if n := s.report.diagnostics(results); n > 0 {
		return fmt.Errorf("render: %s", plural(n, "error"))
	}
	return nil
}
