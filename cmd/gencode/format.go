package main

import (
	"fmt"
	"github.com/funvibe/gencode/internal/config"
	"github.com/spf13/cobra"
	"io"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <file.elm> [file.elm...]",
	Short: "Reformat source files in the canonical layout",
	Long: `Fmt parses each file, infers missing signatures and writes it back in the
canonical layout. Files with parse or inference errors are left untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "list files that need formatting and fail if there are any")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
}

type fmtOptions struct {
	Check  bool
	Stdout bool
}

func runFmt(cmd *cobra.Command, args []string) error {
	var opts fmtOptions
	opts.Check, _ = cmd.Flags().GetBool("check")
	opts.Stdout, _ = cmd.Flags().GetBool("stdout")
	if opts.Check && opts.Stdout {
		return fmt.Errorf("fmt: --stdout cannot be used with --check")
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	return s.format(cmd, args, opts)
}

func (s *session) format(cmd *cobra.Command, paths []string, opts fmtOptions) error {
	for _, p := range paths {
		if !config.HasSourceExt(p) {
			return fmt.Errorf("fmt: %s is not a source file", p)
		}
	}
	results, err := processFiles(cmd.Context(), paths, s.jobs, func(path string) fileResult {
		return s.process(path, true)
	})
	if err != nil {
		return err
	}

	changed := 0
	for _, res := range results {
		if res.Failed() {
			continue
		}
		if opts.Stdout {
			io.WriteString(s.report.out, res.Output)
			continue
		}
		if res.Output == res.Source {
			continue
		}
		changed++
		if opts.Check {
			fmt.Fprintln(s.report.out, res.Path)
			continue
		}
		if _, err := writeIfChanged(res.Path, []byte(res.Output)); err != nil {
			return fmt.Errorf("fmt: %w", err)
		}
		s.report.progress("reformatted", res.Path)
	}

	if n := s.report.diagnostics(results); n > 0 {
		return fmt.Errorf("fmt: failed to format some files (%s)", plural(n, "error"))
	}
	if opts.Check && changed > 0 {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}
