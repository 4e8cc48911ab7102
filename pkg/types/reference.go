// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Author is one contributor of a parsed reference, as returned by the
// inference service.
type Author struct {
	// Surname is the family name.
	Surname string `json:"surname" yaml:"surname"`

	// Initials are the given-name initials, e.g. "J.R.".
	Initials string `json:"initials" yaml:"initials"`
}

// ReferenceType classifies a parsed reference.
type ReferenceType string

const (
	RefJournal ReferenceType = "journal"
	RefBook    ReferenceType = "book"
	RefChapter ReferenceType = "chapter"
	RefWeb     ReferenceType = "web"
	RefOther   ReferenceType = "other"
)

// ParsedReference is one structured reference object returned by the
// inference service for a raw citation line. The service is an opaque black
// box: any field may arrive empty, missing, or as the literal string "null",
// and consumers must tolerate all three.
type ParsedReference struct {
	Authors   []Author      `json:"authors" yaml:"authors"`
	Year      string        `json:"year" yaml:"year"`
	Title     string        `json:"title" yaml:"title"`
	Source    string        `json:"source" yaml:"source"`
	Volume    string        `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue     string        `json:"issue,omitempty" yaml:"issue,omitempty"`
	Pages     string        `json:"pages,omitempty" yaml:"pages,omitempty"`
	Publisher string        `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Location  string        `json:"location,omitempty" yaml:"location,omitempty"`
	Type      ReferenceType `json:"type" yaml:"type"`
}
