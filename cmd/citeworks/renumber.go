// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/citeworks/internal/tools"
)

var renumberCmd = &cobra.Command{
	Use:   "renumber [file]",
	Short: "Relabel the bibliography sequentially and re-link citations",
	Long: `Renumber assigns sequential labels to bibliography entries in document
order and rewrites every citation to the new labels. Without --preserve-ids
the entries also receive fresh gap-spaced identifiers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}
		res, err := tools.Renumber(text, toolConfig(cmd, "renumber"))
		if err != nil {
			return err
		}
		return emitResult(cmd, "renumber", res)
	},
}

func init() {
	addToolFlags(renumberCmd)
	rootCmd.AddCommand(renumberCmd)
}
