// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/citeworks/internal/tools"
)

var tablefootCmd = &cobra.Command{
	Use:   "tablefoot",
	Short: "Convert table footnotes between inline and legend form",
}

var tablefootLegendCmd = &cobra.Command{
	Use:   "legend [file]",
	Short: "Convert inline table footnotes to legend paragraphs",
	Long: `Legend rewrites each table footnote as a legend paragraph with a fresh
paragraph id and re-links citations from the old footnote id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}
		res, err := tools.ConvertTableFootnotes(text, toolConfig(cmd, "tablefoot"))
		if err != nil {
			return err
		}
		return emitResult(cmd, "tablefoot-legend", res)
	},
}

var tablefootInlineCmd = &cobra.Command{
	Use:   "inline [file]",
	Short: "Convert legend paragraphs back to inline table footnotes",
	Long: `Inline is the reverse conversion: labeled legend paragraphs become table
footnotes again, with fresh footnote ids and citations re-linked.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}
		res, err := tools.RestoreTableFootnotes(text, toolConfig(cmd, "tablefoot"))
		if err != nil {
			return err
		}
		return emitResult(cmd, "tablefoot-inline", res)
	},
}

func init() {
	addToolFlags(tablefootLegendCmd)
	addToolFlags(tablefootInlineCmd)

	tablefootCmd.AddCommand(tablefootLegendCmd)
	tablefootCmd.AddCommand(tablefootInlineCmd)

	rootCmd.AddCommand(tablefootCmd)
}
