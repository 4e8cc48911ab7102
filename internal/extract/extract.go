// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/citeworks/pkg/types"
)

// elementRes caches compiled per-element regexes. The pattern pairs an
// opening tag with the first closing tag that follows (non-greedy): documents
// with nested same-named tags will mis-extract. That is a documented
// limitation of the vocabulary, which does not nest the targeted elements.
var (
	elementMu  sync.Mutex
	elementRes = map[string]*regexp.Regexp{}
)

func elementRe(name string) *regexp.Regexp {
	elementMu.Lock()
	defer elementMu.Unlock()
	if re, ok := elementRes[name]; ok {
		return re
	}
	q := regexp.QuoteMeta(name)
	re := regexp.MustCompile(`(?s)<` + q + `((?:\s[^>]*)?)>(.*?)</` + q + `>`)
	elementRes[name] = re
	return re
}

// attrRes caches compiled attribute regexes keyed by attribute name.
var (
	attrMu  sync.Mutex
	attrRes = map[string]*regexp.Regexp{}
)

func attrRe(name string) *regexp.Regexp {
	attrMu.Lock()
	defer attrMu.Unlock()
	if re, ok := attrRes[name]; ok {
		return re
	}
	re := regexp.MustCompile(regexp.QuoteMeta(name) + `="([^"]*)"`)
	attrRes[name] = re
	return re
}

var (
	tagRe = regexp.MustCompile(`<[^>]+>`)
	wsRe  = regexp.MustCompile(`\s+`)
	numRe = regexp.MustCompile(`\d{4}`)
)

// Records scans text for the rule's elements and returns the extracted units
// in document order. It is a pure function of its input: malformed markup
// yields fewer or mis-bounded records, never an error.
func Records(text string, rule Rule) []types.Record {
	type located struct {
		pos int
		rec types.Record
	}
	var found []located

	for _, elem := range rule.Elements {
		re := elementRe(elem)
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			span := text[m[0]:m[1]]
			attrs := text[m[2]:m[3]]
			inner := text[m[4]:m[5]]
			found = append(found, located{pos: m[0], rec: buildRecord(span, attrs, inner, rule)})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	recs := make([]types.Record, 0, len(found))
	for _, f := range found {
		recs = append(recs, f.rec)
	}
	return recs
}

// buildRecord assembles one Record from a matched element. A missing label is
// derived from surname and year when those sub-fields exist; otherwise the
// record stays unlabeled rather than being discarded.
func buildRecord(span, attrs, inner string, rule Rule) types.Record {
	rec := types.Record{
		ID:       AttrValue(attrs, "id"),
		Content:  inner,
		FullSpan: span,
	}

	if rule.Label != "" {
		rec.Label = CollapseWhitespace(StripTags(InnerText(inner, rule.Label)))
	}

	surname := firstField(inner, rule.Surname)
	year := yearOf(firstField(inner, rule.Date))
	title := firstField(inner, rule.Title)

	if rec.Label == "" {
		switch {
		case surname != "" && year != "":
			rec.Label = fmt.Sprintf("%s, %s", surname, year)
			rec.IsSynthetic = true
		case surname != "":
			rec.Label = surname
			rec.IsSynthetic = true
		}
	}

	if surname != "" || year != "" || title != "" {
		rec.NormalizedKey = Normalize(surname + " " + year + " " + title)
	} else {
		rec.NormalizedKey = Normalize(inner)
	}

	return rec
}

// firstField returns the cleaned text of the first occurrence of elem inside
// content, or "" when elem is empty or absent.
func firstField(content, elem string) string {
	if elem == "" {
		return ""
	}
	return CollapseWhitespace(StripTags(InnerText(content, elem)))
}

// yearOf extracts the first 4-digit run from a date field.
func yearOf(s string) string {
	return numRe.FindString(s)
}

// InnerText returns the inner markup of the first occurrence of elem in
// content, or "" when absent.
func InnerText(content, elem string) string {
	m := elementRe(elem).FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return m[2]
}

// AttrValue returns the value of a double-quoted attribute in an attribute
// string, or "" when absent.
func AttrValue(attrs, name string) string {
	m := attrRe(name).FindStringSubmatch(attrs)
	if m == nil {
		return ""
	}
	return m[1]
}

// StripTags removes all markup tags, leaving text content.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// CollapseWhitespace folds whitespace runs to single spaces and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// Normalize produces the comparison key projection: tag-stripped,
// lower-cased, whitespace-collapsed.
func Normalize(s string) string {
	return strings.ToLower(CollapseWhitespace(StripTags(s)))
}

// ByID indexes records by id. Duplicate ids indicate malformed input and are
// tolerated: later occurrences overwrite earlier entries.
func ByID(recs []types.Record) map[string]types.Record {
	m := make(map[string]types.Record, len(recs))
	for _, r := range recs {
		if r.ID != "" {
			m[r.ID] = r
		}
	}
	return m
}

// ByLabel groups records by display label, preserving document order within
// each group. Groups with more than one record are conflict candidates.
func ByLabel(recs []types.Record) map[string][]types.Record {
	m := make(map[string][]types.Record)
	for _, r := range recs {
		if r.Label != "" {
			m[r.Label] = append(m[r.Label], r)
		}
	}
	return m
}
