package main

import (
	"fmt"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <path> [path...]",
	Short: "Infer manifests or source files without writing anything",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return s.check(cmd, args)
	},
}

func (s *session) check(cmd *cobra.Command, paths []string) error {
	results, err := processFiles(cmd.Context(), paths, s.jobs, func(path string) fileResult {
		return s.process(path, false)
	})
	if err != nil {
		return err
	}
	for _, res := range results {
		if !res.Failed() {
			s.report.progress("ok", res.Path)
		}
	}
	if n := s.report.diagnostics(results); n > 0 {
		return fmt.Errorf("check: %s", plural(n, "error"))
	}
	return nil
}
