// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citeworks/internal/history"
	"github.com/pdiddy/citeworks/internal/report"
	"github.com/pdiddy/citeworks/internal/tools"
	"github.com/pdiddy/citeworks/pkg/types"
)

// readInput reads a document from path, or from stdin when path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// writeOutput writes the rewritten document to path, or to stdout when path
// is empty or "-".
func writeOutput(path, text string) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprintln(os.Stdout, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// addToolFlags registers the pipeline flags shared by rewriting subcommands.
func addToolFlags(cmd *cobra.Command) {
	cmd.Flags().String("output", "", "output file (default: stdout)")
	cmd.Flags().Float64("threshold", 0, "fuzzy similarity threshold in (0,1] (0 = config or built-in default)")
	cmd.Flags().Int("floor", 0, "identifier allocation floor for unseen prefixes (0 = config or built-in default)")
	cmd.Flags().Bool("preserve-ids", false, "keep original outer ids on replaced entries")
	cmd.Flags().Bool("renumber-internal", false, "re-issue ids on sub-elements inside replaced entries")
	cmd.Flags().Bool("sort", false, "order the final record list by label key")
	cmd.Flags().Bool("diff", false, "print the review diff to stderr")
	cmd.Flags().Bool("quiet", false, "suppress the change-log table")
}

// toolConfig resolves one tool's pipeline settings: explicit flags win, then
// the tool's config file section, then built-in defaults.
func toolConfig(cmd *cobra.Command, tool string) types.ToolConfig {
	cfg := types.ToolConfig{
		FuzzyThreshold:      viper.GetFloat64(tool + ".fuzzy_threshold"),
		AllocatorFloor:      viper.GetInt(tool + ".allocator_floor"),
		PreserveOriginalIDs: viper.GetBool(tool + ".preserve_original_ids"),
		RenumberInternalIDs: viper.GetBool(tool + ".renumber_internal_ids"),
		SortOutput:          viper.GetBool(tool + ".sort_output"),
	}

	if v, _ := cmd.Flags().GetFloat64("threshold"); v > 0 {
		cfg.FuzzyThreshold = v
	}
	if v, _ := cmd.Flags().GetInt("floor"); v > 0 {
		cfg.AllocatorFloor = v
	}
	if cmd.Flags().Changed("preserve-ids") {
		cfg.PreserveOriginalIDs, _ = cmd.Flags().GetBool("preserve-ids")
	}
	if cmd.Flags().Changed("renumber-internal") {
		cfg.RenumberInternalIDs, _ = cmd.Flags().GetBool("renumber-internal")
	}
	if cmd.Flags().Changed("sort") {
		cfg.SortOutput, _ = cmd.Flags().GetBool("sort")
	}
	return cfg
}

// emitResult writes the rewritten document, prints warnings and the change
// log, and records the run in history when a history directory is configured.
func emitResult(cmd *cobra.Command, tool string, res tools.Result) error {
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	outPath, _ := cmd.Flags().GetString("output")
	if err := writeOutput(outPath, res.Output); err != nil {
		return err
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet && len(res.Entries) > 0 {
		if err := report.WriteTable(os.Stderr, res.Entries); err != nil {
			return err
		}
	}
	if diff, _ := cmd.Flags().GetBool("diff"); diff {
		if err := report.WriteDiff(os.Stderr, res.Blocks); err != nil {
			return err
		}
	}

	return recordRun(tool, res)
}

// historyConfig resolves the history store settings from the persistent flag
// and the config file.
func historyConfig() types.HistoryConfig {
	cfg := types.HistoryConfig{
		Dir:  viper.GetString("history.dir"),
		Keep: viper.GetInt("history.keep"),
	}
	if dir, _ := rootCmd.PersistentFlags().GetString("history-dir"); dir != "" {
		cfg.Dir = dir
	}
	return cfg
}

// recordRun stores the run's change log. Recording is best effort: history is
// audit data, and a failure here must not fail an otherwise successful run.
func recordRun(tool string, res tools.Result) error {
	if skip, _ := rootCmd.PersistentFlags().GetBool("no-history"); skip {
		return nil
	}
	cfg := historyConfig()
	if cfg.Dir == "" {
		return nil
	}

	store, err := history.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history disabled: %v\n", err)
		return nil
	}
	defer store.Close()

	_, err = store.Record(context.Background(), history.Run{
		Tool:      tool,
		Added:     res.Summary.Added,
		Removed:   res.Summary.Removed,
		Relabeled: res.Summary.Relabeled,
		Unchanged: res.Summary.Unchanged,
		Orphaned:  res.Summary.Orphaned,
		Entries:   res.Entries,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording history: %v\n", err)
	}
	return nil
}
