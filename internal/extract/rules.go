// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract scans marked-up manuscript text for tagged editorial units
// (bibliography entries, footnotes, legend paragraphs) and produces ordered
// records with stable identity. rules.go defines the fixed tag vocabulary the
// suite operates on; the vocabulary is an external schema, not something this
// package owns.
package extract

// Element names of the manuscript markup vocabulary.
const (
	ElemBibReference  = "ce:bib-reference"
	ElemLabel         = "ce:label"
	ElemReference     = "sb:reference"
	ElemOtherRef      = "ce:other-ref"
	ElemSurname       = "ce:surname"
	ElemGivenName     = "ce:given-name"
	ElemDate          = "sb:date"
	ElemMainTitle     = "sb:maintitle"
	ElemFootnote      = "ce:footnote"
	ElemTableFootnote = "ce:table-footnote"
	ElemLegend        = "ce:legend"
	ElemSimplePara    = "ce:simple-para"
	ElemNotePara      = "ce:note-para"
	ElemCrossRef      = "ce:cross-ref"
	ElemCrossRefs     = "ce:cross-refs"
	ElemSourceText    = "ce:source-text"
	ElemInterRef      = "ce:inter-ref"
	ElemPara          = "ce:para"
)

// Identifier prefixes used by the id="{prefix}{digits}" convention.
const (
	PrefixBib           = "bb" // bibliography entries
	PrefixFootnote      = "rf" // footnotes
	PrefixSourceText    = "se" // source-text sub-elements
	PrefixInterRef      = "ir" // inter-ref sub-elements
	PrefixOtherRef      = "or" // other-ref sub-elements
	PrefixTableRow      = "tr" // table rows
	PrefixSimplePara    = "sp" // legend simple paragraphs
	PrefixTableFootnote = "tf" // table footnotes
)

// Rule tells the extractor which elements to scan and which descendants to
// pull sub-fields from. A zero sub-field name means "do not look for it".
type Rule struct {
	// Name identifies the rule in diagnostics.
	Name string

	// Elements are the element names treated as unit boundaries.
	Elements []string

	// Label is the child element holding the display label.
	Label string

	// Surname, Date and Title are descendant elements used for synthetic
	// label derivation and for the normalized comparison key.
	Surname string
	Date    string
	Title   string
}

// BibReferences extracts ce:bib-reference units with author/year/title
// sub-fields for fuzzy comparison and synthetic labels.
var BibReferences = Rule{
	Name:     "bib-references",
	Elements: []string{ElemBibReference},
	Label:    ElemLabel,
	Surname:  ElemSurname,
	Date:     ElemDate,
	Title:    ElemMainTitle,
}

// Footnotes extracts inline ce:footnote units.
var Footnotes = Rule{
	Name:     "footnotes",
	Elements: []string{ElemFootnote},
	Label:    ElemLabel,
}

// TableFootnotes extracts ce:table-footnote units.
var TableFootnotes = Rule{
	Name:     "table-footnotes",
	Elements: []string{ElemTableFootnote},
	Label:    ElemLabel,
}

// LegendParas extracts ce:simple-para units inside detached legends.
var LegendParas = Rule{
	Name:     "legend-paras",
	Elements: []string{ElemSimplePara},
	Label:    ElemLabel,
}
