// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"fmt"

	"github.com/pdiddy/citeworks/internal/alloc"
	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/internal/match"
	"github.com/pdiddy/citeworks/internal/rewrite"
	"github.com/pdiddy/citeworks/pkg/types"
)

// SyncViews aligns the secondary view of a document with the primary one.
// The primary is authoritative: matched entries in the secondary are replaced
// with the primary's text, primary-only entries are appended, and
// secondary-only entries are reported as drift but kept. The returned Result
// describes the rewritten secondary.
func SyncViews(primary, secondary string, cfg types.ToolConfig) (Result, error) {
	if err := requireInput(primary, secondary); err != nil {
		return Result{}, err
	}

	primRecs := extract.Records(primary, extract.BibReferences)
	secRecs := extract.Records(secondary, extract.BibReferences)
	if len(primRecs) == 0 && len(secRecs) == 0 {
		return finish(secondary, secondary, nil,
			[]string{"no bibliography entries found in either view"}), nil
	}

	res, err := match.Pairs(secRecs, primRecs, match.Options{
		Mode:      match.ModeExactThenFuzzy,
		Threshold: threshold(cfg),
	})
	if err != nil {
		return Result{}, err
	}

	var warnings []string
	for _, c := range res.Conflicts {
		warnings = append(warnings, fmt.Sprintf(
			"label %q is duplicated in the secondary view; its entries were left untouched", c.Label))
	}
	for _, pair := range res.Pairs {
		if pair.After == nil {
			warnings = append(warnings, fmt.Sprintf(
				"entry %q exists only in the secondary view", driftName(pair.Before)))
		}
	}

	a := alloc.New(secondary, allPrefixes, alloc.Options{Floor: cfg.AllocatorFloor})
	out, entries, err := rewrite.Apply(secondary, res, a, rewrite.Options{
		Rule:                extract.BibReferences,
		Prefix:              extract.PrefixBib,
		InternalPrefixes:    internalPrefixes,
		PreserveOriginalIDs: true,
		RenumberInternalIDs: cfg.RenumberInternalIDs,
		SortOutput:          cfg.SortOutput,
		AppendOrphans:       true,
		Anchors:             bibliographyAnchors,
	})
	if err != nil {
		return Result{}, err
	}
	return finish(secondary, out, entries, warnings), nil
}

// driftName names a record for drift warnings: label first, then id.
func driftName(r *types.Record) string {
	if r.Label != "" {
		return r.Label
	}
	return r.ID
}
