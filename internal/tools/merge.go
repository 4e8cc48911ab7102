// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"github.com/pdiddy/citeworks/internal/alloc"
	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/internal/match"
	"github.com/pdiddy/citeworks/internal/rewrite"
	"github.com/pdiddy/citeworks/pkg/types"
)

// MergeOutcome is the result of a merge attempt. When Conflicts is non-empty
// the merge did not run: every listed candidate needs an update/keep-original
// decision, after which the caller re-invokes Merge with the resolutions.
type MergeOutcome struct {
	Result

	// Conflicts lists duplicate-label ambiguities awaiting decisions,
	// keyed for resolution via rewrite.CandidateKey.
	Conflicts []types.Conflict
}

// Merge folds a corrected reference list into the original document.
// Matching runs label-exact first with fuzzy fallback; corrected entries with
// no counterpart are appended at the bibliography anchor. Duplicate-labeled
// originals are never resolved silently — they come back as Conflicts for the
// caller to decide.
func Merge(original, corrected string, cfg types.ToolConfig, resolutions map[string]types.Resolution) (MergeOutcome, error) {
	if err := requireInput(original, corrected); err != nil {
		return MergeOutcome{}, err
	}

	session := rewrite.NewSession(extract.BibReferences)
	res, err := session.Scan(original, corrected, match.Options{
		Mode:      match.ModeExactThenFuzzy,
		Threshold: threshold(cfg),
	})
	if err != nil {
		return MergeOutcome{}, err
	}

	var warnings []string
	if len(res.Pairs) == 0 {
		warnings = append(warnings, "no bibliography entries found in original")
	}

	if session.State() == rewrite.StateAwaitingResolution {
		for _, c := range session.Conflicts() {
			for i := range c.Candidates {
				key := rewrite.CandidateKey(c, i)
				if d, ok := resolutions[key]; ok {
					if err := session.Resolve(key, d); err != nil {
						return MergeOutcome{}, err
					}
				}
			}
		}
		if session.State() == rewrite.StateAwaitingResolution {
			return MergeOutcome{Conflicts: session.Conflicts()}, nil
		}
	}

	a := alloc.New(original, allPrefixes, alloc.Options{Floor: cfg.AllocatorFloor})
	out, entries, err := session.Merge(a, rewrite.Options{
		Rule:                extract.BibReferences,
		Prefix:              extract.PrefixBib,
		InternalPrefixes:    internalPrefixes,
		PreserveOriginalIDs: cfg.PreserveOriginalIDs,
		RenumberInternalIDs: cfg.RenumberInternalIDs,
		SortOutput:          cfg.SortOutput,
		AppendOrphans:       true,
		Anchors:             bibliographyAnchors,
	})
	if err != nil {
		return MergeOutcome{}, err
	}
	return MergeOutcome{Result: finish(original, out, entries, warnings)}, nil
}
