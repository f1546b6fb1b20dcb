package main

import (
	"fmt"
	"github.com/funvibe/gencode/internal/facts"
	"github.com/spf13/cobra"
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Inspect and pack typing facts",
}

var factsPackCmd = &cobra.Command{
	Use:   "pack -o <out.mp> <facts.yaml> [facts.yaml...]",
	Short: "Merge facts files into one msgpack snapshot",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFactsPack,
}

var factsDumpCmd = &cobra.Command{
	Use:   "dump [facts file]",
	Short: "Print facts as YAML (the built-in prelude when no file is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFactsDump,
}

func init() {
	factsPackCmd.Flags().StringP("out", "o", "", "snapshot to write")
	_ = factsPackCmd.MarkFlagRequired("out")
	factsCmd.AddCommand(factsPackCmd)
	factsCmd.AddCommand(factsDumpCmd)
}

func runFactsPack(cmd *cobra.Command, args []string) error {
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if !facts.IsSnapshot(out) {
		return fmt.Errorf("facts pack: %s: snapshot files end in .mp or .msgpack", out)
	}
	t, err := facts.LoadAll(nil, args...)
	if err != nil {
		return fmt.Errorf("facts pack: %w", err)
	}
	if err := t.WriteSnapshotFile(out); err != nil {
		return fmt.Errorf("facts pack: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "packed %s from %s into %s\n", plural(t.Len(), "fact"), plural(len(args), "file"), out)
	return nil
}

func runFactsDump(cmd *cobra.Command, args []string) error {
	t := facts.Prelude()
	if len(args) == 1 {
		var err error
		if t, err = facts.Load(args[0]); err != nil {
			return fmt.Errorf("facts dump: %w", err)
		}
	}
	data, err := t.YAML()
	if err != nil {
		return fmt.Errorf("facts dump: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
