// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/citeworks/internal/tools"
)

var footnotesCmd = &cobra.Command{
	Use:   "footnotes",
	Short: "Move footnote text between inline and legend form",
}

var footnotesDetachCmd = &cobra.Command{
	Use:   "detach [file]",
	Short: "Move inline footnote text into a legend block",
	Long: `Detach replaces each inline footnote with a marker-only footnote and
moves its text into a legend paragraph carrying the same label. A legend
block is created when the document has none.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}
		res, err := tools.DetachFootnotes(text, toolConfig(cmd, "footnotes"))
		if err != nil {
			return err
		}
		return emitResult(cmd, "footnotes-detach", res)
	},
}

var footnotesAttachCmd = &cobra.Command{
	Use:   "attach [file]",
	Short: "Fold legend paragraphs back into their footnotes",
	Long: `Attach matches legend paragraphs to marker-only footnotes by label and
restores the full inline form. Paragraphs with no matching marker are
reported as orphaned and left in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}
		res, err := tools.AttachFootnotes(text, toolConfig(cmd, "footnotes"))
		if err != nil {
			return err
		}
		return emitResult(cmd, "footnotes-attach", res)
	},
}

func init() {
	addToolFlags(footnotesDetachCmd)
	addToolFlags(footnotesAttachCmd)

	footnotesCmd.AddCommand(footnotesDetachCmd)
	footnotesCmd.AddCommand(footnotesAttachCmd)

	rootCmd.AddCommand(footnotesCmd)
}
