// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"

	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/pkg/types"
)

// BuildBibReference renders a cleaned parsed reference as a ce:bib-reference
// unit with the given id and label. Structured types get the full
// sb:reference sub-tree; web and other references fall back to a ce:other-ref
// with the assembled text.
func BuildBibReference(ref types.ParsedReference, id, label string) string {
	var b strings.Builder
	b.WriteString(`<` + extract.ElemBibReference + ` id="` + id + `">`)
	b.WriteString(`<` + extract.ElemLabel + `>` + label + `</` + extract.ElemLabel + `>`)

	switch ref.Type {
	case types.RefJournal, types.RefBook, types.RefChapter:
		writeStructured(&b, ref)
	default:
		writeOtherRef(&b, ref)
	}

	b.WriteString(`</` + extract.ElemBibReference + `>`)
	return b.String()
}

func writeStructured(b *strings.Builder, ref types.ParsedReference) {
	b.WriteString(`<` + extract.ElemReference + `>`)

	b.WriteString(`<sb:contribution><sb:authors>`)
	for _, a := range ref.Authors {
		b.WriteString(`<sb:author>`)
		if a.Initials != "" {
			b.WriteString(`<` + extract.ElemGivenName + `>` + a.Initials + `</` + extract.ElemGivenName + `>`)
		}
		b.WriteString(`<` + extract.ElemSurname + `>` + a.Surname + `</` + extract.ElemSurname + `>`)
		b.WriteString(`</sb:author>`)
	}
	b.WriteString(`</sb:authors>`)
	if ref.Title != "" {
		b.WriteString(`<sb:title><` + extract.ElemMainTitle + `>` + ref.Title + `</` + extract.ElemMainTitle + `></sb:title>`)
	}
	b.WriteString(`</sb:contribution>`)

	b.WriteString(`<sb:host>`)
	if ref.Type == types.RefJournal {
		b.WriteString(`<sb:issue><sb:series>`)
		if ref.Source != "" {
			b.WriteString(`<sb:title><` + extract.ElemMainTitle + `>` + ref.Source + `</` + extract.ElemMainTitle + `></sb:title>`)
		}
		if ref.Volume != "" {
			b.WriteString(`<sb:volume-nr>` + ref.Volume + `</sb:volume-nr>`)
		}
		b.WriteString(`</sb:series>`)
		if ref.Issue != "" {
			b.WriteString(`<sb:issue-nr>` + ref.Issue + `</sb:issue-nr>`)
		}
		if ref.Year != "" {
			b.WriteString(`<` + extract.ElemDate + `>` + ref.Year + `</` + extract.ElemDate + `>`)
		}
		b.WriteString(`</sb:issue>`)
	} else {
		b.WriteString(`<sb:edited-book>`)
		if ref.Source != "" {
			b.WriteString(`<sb:title><` + extract.ElemMainTitle + `>` + ref.Source + `</` + extract.ElemMainTitle + `></sb:title>`)
		}
		if ref.Year != "" {
			b.WriteString(`<` + extract.ElemDate + `>` + ref.Year + `</` + extract.ElemDate + `>`)
		}
		if ref.Publisher != "" {
			b.WriteString(`<sb:publisher><sb:name>` + ref.Publisher + `</sb:name>`)
			if ref.Location != "" {
				b.WriteString(`<sb:location>` + ref.Location + `</sb:location>`)
			}
			b.WriteString(`</sb:publisher>`)
		}
		b.WriteString(`</sb:edited-book>`)
	}
	writePages(b, ref.Pages)
	b.WriteString(`</sb:host>`)

	b.WriteString(`</` + extract.ElemReference + `>`)
}

func writePages(b *strings.Builder, pages string) {
	if pages == "" {
		return
	}
	first, last := splitPages(pages)
	b.WriteString(`<sb:pages><sb:first-page>` + first + `</sb:first-page>`)
	if last != "" {
		b.WriteString(`<sb:last-page>` + last + `</sb:last-page>`)
	}
	b.WriteString(`</sb:pages>`)
}

// splitPages splits "12-34" (hyphen or en-dash) into first and last page.
func splitPages(pages string) (string, string) {
	for _, sep := range []string{"–", "-"} {
		if i := strings.Index(pages, sep); i >= 0 {
			return strings.TrimSpace(pages[:i]), strings.TrimSpace(pages[i+len(sep):])
		}
	}
	return strings.TrimSpace(pages), ""
}

// writeOtherRef assembles the unstructured fallback form.
func writeOtherRef(b *strings.Builder, ref types.ParsedReference) {
	var parts []string
	var authors []string
	for _, a := range ref.Authors {
		if a.Initials != "" {
			authors = append(authors, a.Surname+", "+a.Initials)
		} else {
			authors = append(authors, a.Surname)
		}
	}
	if len(authors) > 0 {
		parts = append(parts, strings.Join(authors, ", "))
	}
	for _, f := range []string{ref.Title, ref.Source, ref.Year, ref.Pages} {
		if f != "" {
			parts = append(parts, f)
		}
	}
	b.WriteString(`<` + extract.ElemOtherRef + `><ce:textref>` + strings.Join(parts, ". ") + `</ce:textref></` + extract.ElemOtherRef + `>`)
}
