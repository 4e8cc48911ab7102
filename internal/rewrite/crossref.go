// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/citeworks/internal/extract"
)

// crossRefRe matches both ce:cross-ref (single target) and ce:cross-refs
// (space-separated target list) constructs, capturing the refid list and the
// display text.
var crossRefRe = regexp.MustCompile(`(?s)<ce:cross-refs?((?:\s[^>]*)?\brefid="([^"]*)"[^>]*)>(.*?)</ce:cross-refs?>`)

// trailingNumRe captures the trailing digit run of a display label, the sort
// key for range grouping.
var trailingNumRe = regexp.MustCompile(`(\d+)\s*$`)

// CrossRef is one citation construct found in the document.
type CrossRef struct {
	// Span is the full matched construct, opening through closing tag.
	Span string

	// RefIDs are the target ids, in construct order.
	RefIDs []string

	// Inner is the display text inside the construct.
	Inner string
}

// FindCrossRefs returns every citation construct in document order.
func FindCrossRefs(text string) []CrossRef {
	var refs []CrossRef
	for _, m := range crossRefRe.FindAllStringSubmatch(text, -1) {
		refs = append(refs, CrossRef{
			Span:   m[0],
			RefIDs: strings.Fields(m[2]),
			Inner:  m[3],
		})
	}
	return refs
}

// CitedIDs returns the set of ids referenced by any citation construct.
func CitedIDs(text string) map[string]bool {
	cited := make(map[string]bool)
	for _, cr := range FindCrossRefs(text) {
		for _, id := range cr.RefIDs {
			cited[id] = true
		}
	}
	return cited
}

// Target is one resolved citation target: a record id plus its display label.
type Target struct {
	ID    string
	Label string
}

// Relink rewrites every citation construct in text: ids in idmap are
// re-keyed, ids in removed are dropped, and the construct is re-rendered from
// the surviving targets using the range-grouping convention. The relabeled
// set names ids whose display label changed, forcing a re-render even when
// the id itself survived. A construct left with no targets is unwrapped: its
// display text is kept, the wrapper tag is dropped. Constructs whose targets
// are untouched are left byte-for-byte alone.
func Relink(text string, idmap map[string]string, removed map[string]bool, labels map[string]string, relabeled map[string]bool) string {
	return crossRefRe.ReplaceAllStringFunc(text, func(span string) string {
		m := crossRefRe.FindStringSubmatch(span)
		ids := strings.Fields(m[2])
		inner := m[3]

		changed := false
		var surviving []Target
		seen := make(map[string]bool)
		for _, id := range ids {
			if removed[id] {
				changed = true
				continue
			}
			mapped := id
			if n, ok := idmap[id]; ok && n != id {
				mapped = n
				changed = true
			}
			if relabeled[mapped] {
				changed = true
			}
			if seen[mapped] {
				changed = true
				continue
			}
			seen[mapped] = true
			label := labels[mapped]
			if label == "" {
				label = trailingNumRe.FindString(mapped)
			}
			surviving = append(surviving, Target{ID: mapped, Label: label})
		}

		if !changed {
			return span
		}
		if len(surviving) == 0 {
			return inner
		}
		return RenderCitations(surviving)
	})
}

type numbered struct {
	Target
	num int
	ok  bool
}

// RenderCitations renders resolved targets as citation markup following the
// grouping convention: targets are sorted numerically by their label's
// trailing digits and grouped into maximal runs of consecutive integers. A
// run of one renders as a single ce:cross-ref; a run of exactly two renders
// as two singles joined by a comma, never a range; a run of three or more
// collapses to one ce:cross-refs with an en-dash between the first and last
// labels. Non-adjacent runs are comma-joined.
func RenderCitations(targets []Target) string {
	nums := make([]numbered, 0, len(targets))
	for _, t := range targets {
		n := numbered{Target: t}
		if m := trailingNumRe.FindStringSubmatch(t.Label); m != nil {
			n.num = atoi(m[1])
			n.ok = true
		}
		nums = append(nums, n)
	}

	// Numeric targets sort by their number; non-numeric ones keep their
	// original order and render as singles after the numeric runs.
	var numeric, plain []numbered
	for _, n := range nums {
		if n.ok {
			numeric = append(numeric, n)
		} else {
			plain = append(plain, n)
		}
	}
	sort.SliceStable(numeric, func(i, j int) bool { return numeric[i].num < numeric[j].num })

	var parts []string
	for start := 0; start < len(numeric); {
		end := start + 1
		for end < len(numeric) && numeric[end].num == numeric[end-1].num+1 {
			end++
		}
		run := numeric[start:end]
		switch {
		case len(run) == 1:
			parts = append(parts, renderSingle(run[0].Target))
		case len(run) == 2:
			parts = append(parts, renderSingle(run[0].Target), renderSingle(run[1].Target))
		default:
			parts = append(parts, renderRange(run[0].Target, run[len(run)-1].Target, runIDs(run)))
		}
		start = end
	}
	for _, n := range plain {
		parts = append(parts, renderSingle(n.Target))
	}

	return strings.Join(parts, ", ")
}

func runIDs(run []numbered) []string {
	ids := make([]string, len(run))
	for i, r := range run {
		ids[i] = r.ID
	}
	return ids
}

func renderSingle(t Target) string {
	return "<" + extract.ElemCrossRef + ` refid="` + t.ID + `">` + t.Label + "</" + extract.ElemCrossRef + ">"
}

// renderRange renders a collapsed run with an en-dash between the first and
// last labels. The refid attribute carries every id in the run.
func renderRange(first, last Target, ids []string) string {
	return "<" + extract.ElemCrossRefs + ` refid="` + strings.Join(ids, " ") + `">` +
		first.Label + "–" + last.Label + "</" + extract.ElemCrossRefs + ">"
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
