// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeworks/internal/sanitize"
)

var clipCmd = &cobra.Command{
	Use:   "clip [file]",
	Short: "Prepare marked-up text for pasting",
	Long: `Clip sanitizes a marked-up fragment for the clipboard: control characters
are dropped, whitespace is collapsed, and inline formatting (bold, italic,
superscript, subscript) is either stripped (--format plain) or rendered as
minimal HTML (--format html).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args[0])
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		var out string
		switch format {
		case "plain", "":
			out = sanitize.ToPlain(text)
		case "html":
			out = sanitize.ToHTML(text)
		default:
			return fmt.Errorf("unsupported format %q: use plain or html", format)
		}

		outPath, _ := cmd.Flags().GetString("output")
		return writeOutput(outPath, out)
	},
}

func init() {
	clipCmd.Flags().String("format", "plain", "output format: plain or html")
	clipCmd.Flags().String("output", "", "output file (default: stdout)")

	rootCmd.AddCommand(clipCmd)
}
