// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/citeworks/internal/tools"
)

var syncCmd = &cobra.Command{
	Use:   "sync [primary] [secondary]",
	Short: "Align a secondary view of a document with the primary one",
	Long: `Sync matches the secondary view's bibliography against the primary and
rewrites the secondary to agree: matched entries take the primary's text,
primary-only entries are appended, and secondary-only entries are reported
as drift but kept. The rewritten secondary is emitted.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		primary, err := readInput(args[0])
		if err != nil {
			return err
		}
		secondary, err := readInput(args[1])
		if err != nil {
			return err
		}
		res, err := tools.SyncViews(primary, secondary, toolConfig(cmd, "sync"))
		if err != nil {
			return err
		}
		return emitResult(cmd, "sync", res)
	},
}

func init() {
	addToolFlags(syncCmd)
	rootCmd.AddCommand(syncCmd)
}
