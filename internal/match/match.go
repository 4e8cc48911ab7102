// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match pairs extracted records between two versions of a document:
// exact pairing on label equality and fuzzy pairing on normalized-key
// similarity, with greedy first-come assignment.
package match

import (
	"fmt"

	"github.com/pdiddy/citeworks/pkg/types"
)

// Mode selects the pairing strategy.
type Mode string

const (
	ModeExact          Mode = "exact"
	ModeFuzzy          Mode = "fuzzy"
	ModeExactThenFuzzy Mode = "exact-then-fuzzy-fallback"
)

// DefaultThreshold is the fuzzy acceptance threshold used when a tool does
// not configure its own.
const DefaultThreshold = 0.85

// Options configures one matching pass.
type Options struct {
	Mode Mode

	// Threshold is the minimum similarity for accepting a fuzzy pair.
	// Zero means DefaultThreshold.
	Threshold float64
}

// Result is the outcome of one matching pass: a pair for every before-record
// (matched or not), the unconsumed after-records, and any duplicate-label
// conflicts that need caller resolution.
type Result struct {
	Pairs     []types.MatchPair
	Orphans   []types.Record
	Conflicts []types.Conflict
}

// HasConflicts reports whether the pass surfaced ambiguities.
func (r Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Pairs matches before against after. Assignment is greedy: the first unused
// after-record that qualifies wins, and once consumed it leaves the candidate
// pool. Before-records whose label is shared by other before-records are not
// auto-paired; they are surfaced in Conflicts instead, because silently
// picking one risks corrupting citation integrity.
func Pairs(before, after []types.Record, opts Options) (Result, error) {
	switch opts.Mode {
	case ModeExact, ModeFuzzy, ModeExactThenFuzzy:
	case "":
		opts.Mode = ModeExactThenFuzzy
	default:
		return Result{}, fmt.Errorf("unknown match mode %q", opts.Mode)
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}

	// Identify duplicate-labeled before-records.
	labelCount := make(map[string]int)
	for _, b := range before {
		if b.Label != "" {
			labelCount[b.Label]++
		}
	}
	conflicted := make(map[string]bool)
	for label, n := range labelCount {
		if n > 1 {
			conflicted[label] = true
		}
	}

	used := make([]bool, len(after))
	pairs := make([]types.MatchPair, len(before))
	for i := range before {
		pairs[i] = types.MatchPair{Before: &before[i], Type: types.MatchNone}
	}

	// Exact phase: label string equality, first unused wins.
	if opts.Mode == ModeExact || opts.Mode == ModeExactThenFuzzy {
		for i := range before {
			b := &before[i]
			if b.Label == "" || conflicted[b.Label] {
				continue
			}
			for j := range after {
				if used[j] || after[j].Label != b.Label {
					continue
				}
				pairs[i] = types.MatchPair{
					Before: b,
					After:  &after[j],
					Type:   types.MatchExactLabel,
					Score:  1.0,
				}
				used[j] = true
				break
			}
		}
	}

	// Fuzzy phase: best normalized-key similarity above the threshold.
	// Ties break to the highest score, then first-seen order.
	if opts.Mode == ModeFuzzy || opts.Mode == ModeExactThenFuzzy {
		for i := range before {
			if pairs[i].Type != types.MatchNone {
				continue
			}
			b := &before[i]
			if conflicted[b.Label] {
				continue
			}
			bestJ := -1
			bestScore := 0.0
			for j := range after {
				if used[j] {
					continue
				}
				score := Similarity(b.NormalizedKey, after[j].NormalizedKey)
				if score > opts.Threshold && score > bestScore {
					bestJ = j
					bestScore = score
				}
			}
			if bestJ >= 0 {
				pairs[i] = types.MatchPair{
					Before: b,
					After:  &after[bestJ],
					Type:   types.MatchFuzzyContent,
					Score:  bestScore,
				}
				used[bestJ] = true
			}
		}
	}

	res := Result{Pairs: pairs}

	// Surface conflicts in first-seen order with their claiming
	// after-record, if any. The after-record is reserved so resolution can
	// consume it.
	var conflictLabels []string
	seen := make(map[string]bool)
	for _, b := range before {
		if conflicted[b.Label] && !seen[b.Label] {
			seen[b.Label] = true
			conflictLabels = append(conflictLabels, b.Label)
		}
	}
	for _, label := range conflictLabels {
		c := types.Conflict{Label: label}
		for _, b := range before {
			if b.Label == label {
				c.Candidates = append(c.Candidates, b)
			}
		}
		for j := range after {
			if !used[j] && after[j].Label == label {
				c.After = &after[j]
				used[j] = true
				break
			}
		}
		res.Conflicts = append(res.Conflicts, c)
	}

	for j := range after {
		if !used[j] {
			res.Orphans = append(res.Orphans, after[j])
		}
	}

	return res, nil
}
