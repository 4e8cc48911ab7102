// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeworks/internal/tools"
)

var uncitedCmd = &cobra.Command{
	Use:   "uncited [file]",
	Short: "Find bibliography entries never cited in the body",
	Long: `Uncited scans for bibliography entries whose id is referenced by no
citation construct and lists them. With --purge the entries are removed
and the document rewritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runUncited,
}

func runUncited(cmd *cobra.Command, args []string) error {
	text, err := readInput(args[0])
	if err != nil {
		return err
	}

	purge, _ := cmd.Flags().GetBool("purge")
	if purge {
		res, err := tools.UncitedPurge(text, toolConfig(cmd, "uncited"))
		if err != nil {
			return err
		}
		return emitResult(cmd, "uncited", res)
	}

	orphaned, err := tools.UncitedScan(text)
	if err != nil {
		return err
	}
	if len(orphaned) == 0 {
		fmt.Fprintln(os.Stderr, "No uncited entries found.")
		return nil
	}
	for _, r := range orphaned {
		fmt.Fprintf(os.Stdout, "%s\t%s\n", r.ID, r.Label)
	}
	fmt.Fprintf(os.Stderr, "\n%d uncited entr%s\n", len(orphaned), plural(len(orphaned), "y", "ies"))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	addToolFlags(uncitedCmd)
	uncitedCmd.Flags().Bool("purge", false, "remove uncited entries and rewrite the document")

	rootCmd.AddCommand(uncitedCmd)
}
