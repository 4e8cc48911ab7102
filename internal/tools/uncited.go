// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"strings"

	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/internal/rewrite"
	"github.com/pdiddy/citeworks/pkg/types"
)

// UncitedScan returns the bibliography entries never referenced by any
// citation construct in the document, in document order.
func UncitedScan(original string) ([]types.Record, error) {
	if err := requireInput(original); err != nil {
		return nil, err
	}

	cited := rewrite.CitedIDs(original)
	var orphaned []types.Record
	for _, rec := range extract.Records(original, extract.BibReferences) {
		if rec.ID != "" && !cited[rec.ID] {
			orphaned = append(orphaned, rec)
		}
	}
	return orphaned, nil
}

// UncitedPurge removes every uncited bibliography entry. Citations are
// re-linked afterwards; by construction there are none pointing at the purged
// entries, so the relink pass only confirms integrity rather than unwrapping
// anything.
func UncitedPurge(original string, cfg types.ToolConfig) (Result, error) {
	orphaned, err := UncitedScan(original)
	if err != nil {
		return Result{}, err
	}

	recs := extract.Records(original, extract.BibReferences)
	if len(recs) == 0 {
		return finish(original, original, nil,
			[]string{"no bibliography entries found"}), nil
	}

	removedIDs := make(map[string]bool, len(orphaned))
	for _, o := range orphaned {
		removedIDs[o.ID] = true
	}

	labels := make(map[string]string)
	var entries []types.ChangeLogEntry
	out := original

	for _, rec := range recs {
		if removedIDs[rec.ID] {
			out = strings.Replace(out, rec.FullSpan, "", 1)
			entries = append(entries, types.ChangeLogEntry{
				OldLabel: rec.Label,
				OldID:    rec.ID,
				Class:    types.ClassRemoved,
				Preview:  preview(rec),
			})
			continue
		}
		if rec.ID != "" {
			labels[rec.ID] = rec.Label
		}
		entries = append(entries, types.ChangeLogEntry{
			OldLabel: rec.Label,
			NewLabel: rec.Label,
			OldID:    rec.ID,
			NewID:    rec.ID,
			Class:    types.ClassUnchanged,
			Preview:  preview(rec),
		})
	}

	out = rewrite.Relink(out, nil, removedIDs, labels, nil)
	return finish(original, out, entries, nil), nil
}
