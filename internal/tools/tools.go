// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools instantiates the shared pipeline (extract, match, allocate,
// rewrite, report) once per editorial tool. Every tool is a pure transform:
// it reads its inputs, produces a rewritten text with a change log and a
// review diff, and never mutates anything it was given. State lives with the
// caller, not here.
package tools

import (
	"errors"
	"strings"

	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/internal/match"
	"github.com/pdiddy/citeworks/internal/report"
	"github.com/pdiddy/citeworks/pkg/types"
)

// ErrEmptyInput is returned when a required input text is missing. The check
// runs before any processing so no partial state is ever produced.
var ErrEmptyInput = errors.New("input text is empty")

// allPrefixes covers every identifier class the allocator may be asked for
// during one pass.
var allPrefixes = []string{
	extract.PrefixBib,
	extract.PrefixFootnote,
	extract.PrefixSourceText,
	extract.PrefixInterRef,
	extract.PrefixOtherRef,
	extract.PrefixTableRow,
	extract.PrefixSimplePara,
	extract.PrefixTableFootnote,
}

// internalPrefixes are the id classes renumbered inside replaced spans.
var internalPrefixes = []string{
	extract.PrefixSourceText,
	extract.PrefixInterRef,
	extract.PrefixOtherRef,
}

// bibliographyAnchors are the closing tags tried, in order, when inserting
// new bibliography entries.
var bibliographyAnchors = []string{
	"</ce:bibliography-sec>",
	"</ce:bibliography>",
}

// Result is the outcome of one tool invocation.
type Result struct {
	// Output is the rewritten document text.
	Output string

	// Entries is the change log, one row per processed record.
	Entries []types.ChangeLogEntry

	// Summary tallies the change log by classification.
	Summary report.Summary

	// Blocks is the structural diff between input and output.
	Blocks []report.Block

	// Warnings carries non-fatal findings, e.g. zero extracted records.
	// A document may legitimately contain none of the targeted construct.
	Warnings []string
}

// finish assembles the common Result tail: summary plus audit diff.
func finish(original, output string, entries []types.ChangeLogEntry, warnings []string) Result {
	return Result{
		Output:   output,
		Entries:  entries,
		Summary:  report.Summarize(entries),
		Blocks:   report.Diff(original, output),
		Warnings: warnings,
	}
}

// requireInput rejects empty or whitespace-only input.
func requireInput(texts ...string) error {
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			return ErrEmptyInput
		}
	}
	return nil
}

// threshold resolves the per-tool fuzzy acceptance threshold.
func threshold(cfg types.ToolConfig) float64 {
	if cfg.FuzzyThreshold > 0 {
		return cfg.FuzzyThreshold
	}
	return match.DefaultThreshold
}
