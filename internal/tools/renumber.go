// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"strconv"

	"github.com/pdiddy/citeworks/internal/alloc"
	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/internal/match"
	"github.com/pdiddy/citeworks/internal/rewrite"
	"github.com/pdiddy/citeworks/pkg/types"
)

// Renumber relabels the bibliography sequentially in document order and
// re-links every citation to the new labels. Without PreserveOriginalIDs the
// entries also receive fresh gap-spaced ids.
func Renumber(original string, cfg types.ToolConfig) (Result, error) {
	if err := requireInput(original); err != nil {
		return Result{}, err
	}

	recs := extract.Records(original, extract.BibReferences)
	if len(recs) == 0 {
		return finish(original, original, nil,
			[]string{"no bibliography entries found"}), nil
	}

	a := alloc.New(original, allPrefixes, alloc.Options{Floor: cfg.AllocatorFloor})

	// Self-pair each record against a relabeled copy; the rewriter handles
	// substitution, id preservation, and citation re-linking.
	pairs := make([]types.MatchPair, len(recs))
	after := make([]types.Record, len(recs))
	for i := range recs {
		after[i] = recs[i]
		after[i].Label = strconv.Itoa(i + 1)
		after[i].IsSynthetic = false
		after[i].FullSpan = rewrite.SetLabel(recs[i].FullSpan, after[i].Label)
		if !cfg.PreserveOriginalIDs {
			after[i].ID = a.Next(extract.PrefixBib)
		}
		pairs[i] = types.MatchPair{
			Before: &recs[i],
			After:  &after[i],
			Type:   types.MatchExactLabel,
			Score:  1.0,
		}
	}

	res := match.Result{Pairs: pairs}
	out, entries, err := rewrite.Apply(original, res, a, rewrite.Options{
		Rule:                extract.BibReferences,
		Prefix:              extract.PrefixBib,
		InternalPrefixes:    internalPrefixes,
		PreserveOriginalIDs: cfg.PreserveOriginalIDs,
		RenumberInternalIDs: cfg.RenumberInternalIDs,
		SortOutput:          cfg.SortOutput,
	})
	if err != nil {
		return Result{}, err
	}
	return finish(original, out, entries, nil), nil
}
