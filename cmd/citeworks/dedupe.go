// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/citeworks/internal/tools"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe [file]",
	Short: "Collapse duplicate bibliography entries and re-link citations",
	Long: `Dedupe compares bibliography entries by fuzzy similarity of their
normalized content. The earliest entry of each duplicate group survives;
citations pointing at removed duplicates are re-linked to the survivor.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}
		res, err := tools.Dedupe(text, toolConfig(cmd, "dedupe"))
		if err != nil {
			return err
		}
		return emitResult(cmd, "dedupe", res)
	},
}

func init() {
	addToolFlags(dedupeCmd)
	rootCmd.AddCommand(dedupeCmd)
}
