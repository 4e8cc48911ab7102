// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"regexp"
	"strings"

	"github.com/pdiddy/citeworks/internal/alloc"
	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/pkg/types"
)

// legendAnchors are the closing tags tried, in order, when a legend container
// has to be created. Appending at the document end is the last resort; a
// missing anchor never fails the operation.
var legendAnchors = []string{
	"</ce:table>",
	"</ce:section>",
}

var labelElemRe = regexp.MustCompile(`(?s)<ce:label(?:\s[^>]*)?>.*?</ce:label>`)

// DetachFootnotes moves inline footnote text into a legend block, leaving
// marker-only footnotes in place. Footnotes that are already marker-only are
// untouched.
func DetachFootnotes(original string, cfg types.ToolConfig) (Result, error) {
	if err := requireInput(original); err != nil {
		return Result{}, err
	}

	recs := extract.Records(original, extract.Footnotes)
	if len(recs) == 0 {
		return finish(original, original, nil, []string{"no footnotes found"}), nil
	}

	a := alloc.New(original, allPrefixes, alloc.Options{Floor: cfg.AllocatorFloor})

	out := original
	var legendParas []string
	var entries []types.ChangeLogEntry

	for _, rec := range recs {
		text := extract.InnerText(rec.Content, extract.ElemNotePara)
		if strings.TrimSpace(text) == "" {
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

		marker := "<" + extract.ElemFootnote + ` id="` + rec.ID + `">` +
			"<" + extract.ElemLabel + ">" + rec.Label + "</" + extract.ElemLabel + ">" +
			"</" + extract.ElemFootnote + ">"
		out = strings.Replace(out, rec.FullSpan, marker, 1)

		paraID := a.Next(extract.PrefixSimplePara)
		legendParas = append(legendParas, "<"+extract.ElemSimplePara+` id="`+paraID+`">`+
			"<"+extract.ElemLabel+">"+rec.Label+"</"+extract.ElemLabel+">"+
			text+"</"+extract.ElemSimplePara+">")

		entries = append(entries, types.ChangeLogEntry{
			OldLabel: rec.Label,
			NewLabel: rec.Label,
			OldID:    rec.ID,
			NewID:    paraID,
			Class:    types.ClassRelabeled,
			Preview:  preview(rec),
		})
	}

	out = insertIntoLegend(out, legendParas)
	return finish(original, out, entries, nil), nil
}

// AttachFootnotes is the inverse of DetachFootnotes: legend paragraphs are
// folded back into their marker-only footnotes by exact label match. Legend
// paragraphs with no matching marker are reported as orphaned and left in
// place.
func AttachFootnotes(original string, cfg types.ToolConfig) (Result, error) {
	if err := requireInput(original); err != nil {
		return Result{}, err
	}

	markers := extract.Records(original, extract.Footnotes)
	paras := extract.Records(original, extract.LegendParas)
	if len(markers) == 0 && len(paras) == 0 {
		return finish(original, original, nil,
			[]string{"no footnotes or legend paragraphs found"}), nil
	}

	paraByLabel := make(map[string]types.Record, len(paras))
	for _, p := range paras {
		if _, ok := paraByLabel[p.Label]; !ok && p.Label != "" {
			paraByLabel[p.Label] = p
		}
	}

	out := original
	attached := make(map[string]bool)
	var entries []types.ChangeLogEntry

	for _, m := range markers {
		p, ok := paraByLabel[m.Label]
		if !ok || attached[m.Label] {
			entries = append(entries, types.ChangeLogEntry{
				OldLabel: m.Label,
				NewLabel: m.Label,
				OldID:    m.ID,
				NewID:    m.ID,
				Class:    types.ClassUnchanged,
				Preview:  preview(m),
			})
			continue
		}
		attached[m.Label] = true

		text := strings.TrimSpace(labelElemRe.ReplaceAllString(p.Content, ""))
		full := "<" + extract.ElemFootnote + ` id="` + m.ID + `">` +
			"<" + extract.ElemLabel + ">" + m.Label + "</" + extract.ElemLabel + ">" +
			"<" + extract.ElemNotePara + ">" + text + "</" + extract.ElemNotePara + ">" +
			"</" + extract.ElemFootnote + ">"
		out = strings.Replace(out, m.FullSpan, full, 1)
		out = strings.Replace(out, p.FullSpan, "", 1)

		entries = append(entries, types.ChangeLogEntry{
			OldLabel: m.Label,
			NewLabel: m.Label,
			OldID:    p.ID,
			NewID:    m.ID,
			Class:    types.ClassRelabeled,
			Preview:  preview(p),
		})
	}

	for _, p := range paras {
		if p.Label == "" || !attached[p.Label] {
			entries = append(entries, types.ChangeLogEntry{
				OldLabel: p.Label,
				NewLabel: p.Label,
				OldID:    p.ID,
				NewID:    p.ID,
				Class:    types.ClassOrphaned,
				Preview:  preview(p),
			})
		}
	}

	out = dropEmptyLegend(out)
	return finish(original, out, entries, nil), nil
}

// insertIntoLegend appends paragraphs to the document's legend block,
// creating one at the best available anchor when absent.
func insertIntoLegend(text string, paras []string) string {
	if len(paras) == 0 {
		return text
	}
	joined := strings.Join(paras, "")

	closeTag := "</" + extract.ElemLegend + ">"
	if i := strings.Index(text, closeTag); i >= 0 {
		return text[:i] + joined + text[i:]
	}

	block := "<" + extract.ElemLegend + ">" + joined + closeTag
	for _, anchor := range legendAnchors {
		if i := strings.LastIndex(text, anchor); i >= 0 {
			return text[:i] + block + text[i:]
		}
	}
	return text + "\n" + block
}

var emptyLegendRe = regexp.MustCompile(`<` + regexp.QuoteMeta(extract.ElemLegend) + `(?:\s[^>]*)?>\s*</` + regexp.QuoteMeta(extract.ElemLegend) + `>`)

// dropEmptyLegend removes legend containers left with no content.
func dropEmptyLegend(text string) string {
	return emptyLegendRe.ReplaceAllString(text, "")
}
