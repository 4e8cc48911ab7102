// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citeworks/internal/rewrite"
	"github.com/pdiddy/citeworks/internal/tools"
	"github.com/pdiddy/citeworks/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [original] [corrected]",
	Short: "Fold a corrected reference list back into the original document",
	Long: `Merge matches the corrected bibliography against the original, label-exact
first with fuzzy fallback, and substitutes matched entries in place.
Corrected entries with no counterpart are appended at the bibliography end.

Entries sharing a label in the original are never merged silently: the
command lists each ambiguous candidate with a resolution key and exits.
Re-run with --resolve key=update or --resolve key=keep to decide them.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	original, err := readInput(args[0])
	if err != nil {
		return err
	}
	corrected, err := readInput(args[1])
	if err != nil {
		return err
	}

	resolutions, err := parseResolutions(cmd)
	if err != nil {
		return err
	}

	outcome, err := tools.Merge(original, corrected, toolConfig(cmd, "merge"), resolutions)
	if err != nil {
		return err
	}

	if len(outcome.Conflicts) > 0 {
		printConflicts(outcome.Conflicts)
		return fmt.Errorf("%d conflict(s) need resolution", len(outcome.Conflicts))
	}
	return emitResult(cmd, "merge", outcome.Result)
}

// parseResolutions decodes --resolve key=update|keep flags.
func parseResolutions(cmd *cobra.Command) (map[string]types.Resolution, error) {
	raw, _ := cmd.Flags().GetStringSlice("resolve")
	if len(raw) == 0 {
		return nil, nil
	}

	resolutions := make(map[string]types.Resolution, len(raw))
	for _, r := range raw {
		key, decision, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --resolve %q: want key=update or key=keep", r)
		}
		switch decision {
		case "update":
			resolutions[key] = types.ResolveUpdate
		case "keep", "keep-original":
			resolutions[key] = types.ResolveKeepOriginal
		default:
			return nil, fmt.Errorf("invalid --resolve decision %q: want update or keep", decision)
		}
	}
	return resolutions, nil
}

func printConflicts(conflicts []types.Conflict) {
	fmt.Fprintln(os.Stderr, "Ambiguous entries awaiting resolution:")
	for _, c := range conflicts {
		fmt.Fprintf(os.Stderr, "  label %q:\n", c.Label)
		for i, cand := range c.Candidates {
			fmt.Fprintf(os.Stderr, "    --resolve %s=update|keep  (%s)\n",
				rewrite.CandidateKey(c, i), candidateExcerpt(cand))
		}
	}
}

func candidateExcerpt(r types.Record) string {
	if r.ID != "" {
		return "id " + r.ID
	}
	return "unidentified entry"
}

func init() {
	addToolFlags(mergeCmd)
	mergeCmd.Flags().StringSlice("resolve", nil, "resolution for an ambiguous entry, key=update|keep (repeatable)")

	rootCmd.AddCommand(mergeCmd)
}
