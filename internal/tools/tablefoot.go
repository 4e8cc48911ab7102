// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"strings"

	"github.com/pdiddy/citeworks/internal/alloc"
	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/internal/rewrite"
	"github.com/pdiddy/citeworks/pkg/types"
)

// ConvertTableFootnotes rewrites every table footnote into a legend paragraph
// and re-links citations from the old tf id to the new sp id. The paragraphs
// land in the nearest legend block, which is created at the table anchor when
// absent.
func ConvertTableFootnotes(original string, cfg types.ToolConfig) (Result, error) {
	if err := requireInput(original); err != nil {
		return Result{}, err
	}

	recs := extract.Records(original, extract.TableFootnotes)
	if len(recs) == 0 {
		return finish(original, original, nil,
			[]string{"no table footnotes found"}), nil
	}

	a := alloc.New(original, allPrefixes, alloc.Options{Floor: cfg.AllocatorFloor})

	out := original
	idmap := make(map[string]string)
	labels := make(map[string]string)
	var legendParas []string
	var entries []types.ChangeLogEntry

	for _, rec := range recs {
		text := strings.TrimSpace(labelElemRe.ReplaceAllString(rec.Content, ""))

		paraID := a.Next(extract.PrefixSimplePara)
		legendParas = append(legendParas, "<"+extract.ElemSimplePara+` id="`+paraID+`">`+
			"<"+extract.ElemLabel+">"+rec.Label+"</"+extract.ElemLabel+">"+
			text+"</"+extract.ElemSimplePara+">")

		out = strings.Replace(out, rec.FullSpan, "", 1)
		if rec.ID != "" {
			idmap[rec.ID] = paraID
		}
		labels[paraID] = rec.Label

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
	out = rewrite.Relink(out, idmap, nil, labels, nil)
	return finish(original, out, entries, nil), nil
}

// RestoreTableFootnotes is the reverse conversion: legend paragraphs become
// inline table footnotes again. Paragraphs without a label are left alone;
// citations are re-linked from the sp id to the fresh tf id.
func RestoreTableFootnotes(original string, cfg types.ToolConfig) (Result, error) {
	if err := requireInput(original); err != nil {
		return Result{}, err
	}

	recs := extract.Records(original, extract.LegendParas)
	if len(recs) == 0 {
		return finish(original, original, nil,
			[]string{"no legend paragraphs found"}), nil
	}

	a := alloc.New(original, allPrefixes, alloc.Options{Floor: cfg.AllocatorFloor})

	out := original
	idmap := make(map[string]string)
	labels := make(map[string]string)
	var notes []string
	var entries []types.ChangeLogEntry

	for _, rec := range recs {
		if rec.Label == "" || rec.IsSynthetic {
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
		text := strings.TrimSpace(labelElemRe.ReplaceAllString(rec.Content, ""))

		noteID := a.Next(extract.PrefixTableFootnote)
		notes = append(notes, "<"+extract.ElemTableFootnote+` id="`+noteID+`">`+
			"<"+extract.ElemLabel+">"+rec.Label+"</"+extract.ElemLabel+">"+
			text+"</"+extract.ElemTableFootnote+">")

		out = strings.Replace(out, rec.FullSpan, "", 1)
		if rec.ID != "" {
			idmap[rec.ID] = noteID
		}
		labels[noteID] = rec.Label

		entries = append(entries, types.ChangeLogEntry{
			OldLabel: rec.Label,
			NewLabel: rec.Label,
			OldID:    rec.ID,
			NewID:    noteID,
			Class:    types.ClassRelabeled,
			Preview:  preview(rec),
		})
	}

	for _, note := range notes {
		out = insertAtAnchors(out, note, legendAnchors)
	}
	out = dropEmptyLegend(out)
	out = rewrite.Relink(out, idmap, nil, labels, nil)
	return finish(original, out, entries, nil), nil
}

// insertAtAnchors places span before the first available anchor, appending at
// the end when none is present.
func insertAtAnchors(text, span string, anchors []string) string {
	for _, anchor := range anchors {
		if i := strings.LastIndex(text, anchor); i >= 0 {
			return text[:i] + span + text[i:]
		}
	}
	return text + "\n" + span
}
