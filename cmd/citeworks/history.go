// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeworks/internal/history"
	"github.com/pdiddy/citeworks/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded processing runs",
	Long: `History manages the local run database. Every rewriting subcommand records
its change log there when a history directory is configured; use list, show,
export, and prune to review and maintain the records.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	tool, _ := cmd.Flags().GetString("tool")
	limit, _ := cmd.Flags().GetInt("limit")

	runs, err := store.List(context.Background(), tool, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-20s  %-20s  %s\n", "ID", "TOOL", "STARTED", "CHANGES")
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-6d  %-20s  %-20s  +%d -%d ~%d =%d ?%d\n",
			r.ID, r.Tool, r.StartedAt.Local().Format(time.DateTime),
			r.Added, r.Removed, r.Relabeled, r.Unchanged, r.Orphaned)
	}
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run's change log",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(context.Background(), runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Run %d: %s at %s\n\n",
		run.ID, run.Tool, run.StartedAt.Local().Format(time.DateTime))
	return report.WriteTable(os.Stdout, run.Entries)
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export [run-id] [path]",
	Short: "Export one run's change log to a YAML file",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ExportYAML(context.Background(), runID, args[1]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported run %d to %s\n", runID, args[1])
	return nil
}

// --- prune subcommand ---

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Prune(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Pruned %d run(s)\n", n)
		return nil
	},
}

// --- shared helpers ---

func openHistory() (*history.Store, error) {
	cfg := historyConfig()
	if cfg.Dir == "" {
		return nil, fmt.Errorf("history directory not configured: set --history-dir or history.dir")
	}
	return history.Open(cfg)
}

func init() {
	historyListCmd.Flags().String("tool", "", "filter by tool name")
	historyListCmd.Flags().Int("limit", 20, "maximum runs to list")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyPruneCmd)

	rootCmd.AddCommand(historyCmd)
}
