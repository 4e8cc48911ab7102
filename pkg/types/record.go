// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data model shared across the citeworks pipeline
// stages: extracted records, match pairs, conflicts, and change-log rows.
package types

// Record is one extracted structured unit (bibliography entry, footnote,
// table footnote, legend paragraph) with stable identity.
type Record struct {
	// ID is the unit's identifier as found in the source markup. May be
	// empty when the element carries no id attribute.
	ID string `json:"id" yaml:"id"`

	// Label is the unit's display label (citation number, footnote marker).
	Label string `json:"label" yaml:"label"`

	// Content is the raw inner markup of the unit, used for rewriting.
	Content string `json:"content" yaml:"content"`

	// NormalizedKey is a lower-cased, whitespace-collapsed, tag-stripped
	// projection of the content (or of extracted sub-fields such as author
	// surname + year + title) used for similarity comparison.
	NormalizedKey string `json:"normalized_key" yaml:"normalized_key"`

	// FullSpan is the complete matched markup from opening tag through
	// closing tag, used for exact removal or replacement in the source.
	FullSpan string `json:"full_span" yaml:"full_span"`

	// IsSynthetic is true when the label was derived (e.g. "Surname, Year")
	// rather than read from a label element.
	IsSynthetic bool `json:"is_synthetic" yaml:"is_synthetic"`
}

// MatchType classifies how a pair of records was associated.
type MatchType string

const (
	MatchExactLabel   MatchType = "exact-label"
	MatchFuzzyContent MatchType = "fuzzy-content"
	MatchNone         MatchType = "none"
)

// MatchPair associates one before-record with zero or one after-record.
// A given after-record is consumed by at most one pair.
type MatchPair struct {
	Before *Record `json:"before" yaml:"before"`

	// After is nil when no acceptable counterpart was found.
	After *Record `json:"after,omitempty" yaml:"after,omitempty"`

	Type MatchType `json:"type" yaml:"type"`

	// Score is the acceptance similarity in [0,1]; 1.0 for exact-label
	// pairs, 0 for unmatched records.
	Score float64 `json:"score" yaml:"score"`
}

// Conflict surfaces a duplicate-label ambiguity: several before-records carry
// the same label, so the pairing decision belongs to the caller rather than
// the matcher.
type Conflict struct {
	// Label is the shared display label.
	Label string `json:"label" yaml:"label"`

	// After is the incoming record claiming that label, when one exists.
	After *Record `json:"after,omitempty" yaml:"after,omitempty"`

	// Candidates are the before-records sharing the label, in document order.
	Candidates []Record `json:"candidates" yaml:"candidates"`
}

// Resolution is a per-candidate decision for a conflict.
type Resolution string

const (
	ResolveUpdate       Resolution = "update"
	ResolveKeepOriginal Resolution = "keep-original"
)

// Classification categorizes one processed record in the change log.
type Classification string

const (
	ClassAdded     Classification = "added"
	ClassRemoved   Classification = "removed"
	ClassRelabeled Classification = "relabeled"
	ClassUnchanged Classification = "unchanged"
	ClassOrphaned  Classification = "orphaned"
)

// ChangeLogEntry is one row of the tabular change log: the before/after
// identity of a record plus its classification and a short content preview.
// Entries are display data only and are never re-parsed.
type ChangeLogEntry struct {
	OldLabel string         `json:"old_label" yaml:"old_label"`
	NewLabel string         `json:"new_label" yaml:"new_label"`
	OldID    string         `json:"old_id" yaml:"old_id"`
	NewID    string         `json:"new_id" yaml:"new_id"`
	Class    Classification `json:"class" yaml:"class"`
	Preview  string         `json:"preview" yaml:"preview"`
}
