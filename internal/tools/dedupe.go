// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"strings"

	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/internal/match"
	"github.com/pdiddy/citeworks/internal/rewrite"
	"github.com/pdiddy/citeworks/pkg/types"
)

// Dedupe removes duplicate bibliography entries. Two entries are duplicates
// when their normalized-key similarity strictly exceeds the fuzzy threshold;
// the earlier entry in document order survives and every citation pointing at
// a removed duplicate is re-linked to the survivor.
func Dedupe(original string, cfg types.ToolConfig) (Result, error) {
	if err := requireInput(original); err != nil {
		return Result{}, err
	}

	recs := extract.Records(original, extract.BibReferences)
	if len(recs) == 0 {
		return finish(original, original, nil,
			[]string{"no bibliography entries found"}), nil
	}

	limit := threshold(cfg)

	// Greedy first-survivor scan: each record is compared against the
	// survivors collected so far.
	var survivors []types.Record
	idmap := make(map[string]string)
	labels := make(map[string]string)
	var entries []types.ChangeLogEntry
	out := original

	for _, rec := range recs {
		dupOf := -1
		for si, s := range survivors {
			if match.Similarity(rec.NormalizedKey, s.NormalizedKey) > limit {
				dupOf = si
				break
			}
		}

		if dupOf < 0 {
			survivors = append(survivors, rec)
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
			continue
		}

		s := survivors[dupOf]
		out = strings.Replace(out, rec.FullSpan, "", 1)
		if rec.ID != "" && s.ID != "" {
			idmap[rec.ID] = s.ID
		}
		entries = append(entries, types.ChangeLogEntry{
			OldLabel: rec.Label,
			NewLabel: s.Label,
			OldID:    rec.ID,
			NewID:    s.ID,
			Class:    types.ClassRemoved,
			Preview:  preview(rec),
		})
	}

	out = rewrite.Relink(out, idmap, nil, labels, nil)
	return finish(original, out, entries, nil), nil
}

// preview returns a short tag-stripped excerpt for change-log rows.
func preview(r types.Record) string {
	s := extract.Normalize(r.Content)
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}
