// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite applies matched and renumbered content back into a
// document: span substitution, identifier re-issue, cross-reference
// re-linking, removal with citation unwrap, and ordering of the final record
// list. One Apply call is one rewrite pass; the allocator is threaded in
// explicitly and discarded afterwards.
package rewrite

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/citeworks/internal/alloc"
	"github.com/pdiddy/citeworks/internal/extract"
	"github.com/pdiddy/citeworks/internal/match"
	"github.com/pdiddy/citeworks/pkg/types"
)

// previewLen bounds the change-log content preview.
const previewLen = 60

// Options configures one rewrite pass.
type Options struct {
	// Rule is the extraction rule the pass operates under; it drives
	// SortOutput re-extraction.
	Rule extract.Rule

	// Prefix is the outer identifier prefix for the rule's elements
	// (e.g. "bb" for bibliography entries).
	Prefix string

	// InternalPrefixes are the id classes renumbered inside replaced spans
	// when RenumberInternalIDs is set.
	InternalPrefixes []string

	// PreserveOriginalIDs keeps the before-record's outer id on replaced
	// spans; a non-conforming placeholder id is re-issued instead.
	PreserveOriginalIDs bool

	// RenumberInternalIDs re-issues ids on internal sub-elements of
	// replaced spans, one issuance per occurrence, preserving order.
	RenumberInternalIDs bool

	// SortOutput orders the final records lexicographically on the cleaned
	// label key; otherwise document order is preserved.
	SortOutput bool

	// RemoveUnmatched strips before-records that found no counterpart and
	// unwraps citations pointing at them.
	RemoveUnmatched bool

	// AppendOrphans inserts unmatched after-records at the insertion
	// anchor; otherwise they are only reported as orphaned.
	AppendOrphans bool

	// Anchors are closing tags tried in order as the orphan insertion
	// point. When none is present the span is appended at the end of the
	// document rather than failing the pass.
	Anchors []string
}

var idAttrRe = regexp.MustCompile(`\bid="[^"]*"`)

var openTagRe = regexp.MustCompile(`^<([a-zA-Z:-]+)((?:\s[^>]*)?)>`)

// Apply rewrites original according to the match result. It returns the
// rewritten text and one change-log entry per processed record. Unresolved
// conflict candidates are kept as-is; resolving them is the session's job.
func Apply(original string, res match.Result, a *alloc.Allocator, opts Options) (string, []types.ChangeLogEntry, error) {
	out := original
	idmap := make(map[string]string)
	removed := make(map[string]bool)
	labels := make(map[string]string)
	relabeled := make(map[string]bool)
	var entries []types.ChangeLogEntry

	for _, pair := range res.Pairs {
		b := pair.Before
		if pair.After != nil {
			out = applyPair(out, pair, a, opts, idmap, labels, relabeled, &entries)
			continue
		}

		if opts.RemoveUnmatched {
			out = strings.Replace(out, b.FullSpan, "", 1)
			if b.ID != "" {
				removed[b.ID] = true
			}
			entries = append(entries, types.ChangeLogEntry{
				OldLabel: b.Label,
				OldID:    b.ID,
				Class:    types.ClassRemoved,
				Preview:  preview(b.Content),
			})
			continue
		}

		labels[b.ID] = b.Label
		entries = append(entries, types.ChangeLogEntry{
			OldLabel: b.Label,
			NewLabel: b.Label,
			OldID:    b.ID,
			NewID:    b.ID,
			Class:    types.ClassUnchanged,
			Preview:  preview(b.Content),
		})
	}

	// Conflict candidates that reach Apply unresolved stay untouched; their
	// ids must remain resolvable by citations.
	for _, c := range res.Conflicts {
		for _, cand := range c.Candidates {
			if cand.ID != "" {
				labels[cand.ID] = cand.Label
			}
		}
	}

	for _, o := range res.Orphans {
		if !opts.AppendOrphans {
			entries = append(entries, types.ChangeLogEntry{
				NewLabel: o.Label,
				NewID:    o.ID,
				Class:    types.ClassOrphaned,
				Preview:  preview(o.Content),
			})
			continue
		}
		span := o.FullSpan
		id := o.ID
		if id == "" {
			id = a.Next(opts.Prefix)
			span = SetOuterID(span, id)
		}
		out = insertBeforeAnchor(out, span, opts.Anchors)
		labels[id] = o.Label
		entries = append(entries, types.ChangeLogEntry{
			NewLabel: o.Label,
			NewID:    id,
			Class:    types.ClassAdded,
			Preview:  preview(o.Content),
		})
	}

	out = Relink(out, idmap, removed, labels, relabeled)

	if opts.SortOutput {
		out = sortSpans(out, opts.Rule)
	}

	return out, entries, nil
}

// applyPair substitutes one matched pair into the document and records the
// id remapping for the relink phase.
func applyPair(out string, pair types.MatchPair, a *alloc.Allocator, opts Options, idmap map[string]string, labels map[string]string, relabeled map[string]bool, entries *[]types.ChangeLogEntry) string {
	b := pair.Before
	after := pair.After

	newSpan := after.FullSpan
	newID := resolveID(b, after, a, opts)
	if newID != "" {
		newSpan = SetOuterID(newSpan, newID)
	}
	if opts.RenumberInternalIDs {
		newSpan = renumberInternal(newSpan, opts.InternalPrefixes, a)
	}

	out = strings.Replace(out, b.FullSpan, newSpan, 1)

	if b.ID != "" && newID != "" && b.ID != newID {
		idmap[b.ID] = newID
	}
	label := after.Label
	if label == "" {
		label = b.Label
	}
	if newID != "" {
		labels[newID] = label
		if label != b.Label {
			relabeled[newID] = true
		}
	}

	class := types.ClassRelabeled
	if newSpan == b.FullSpan {
		class = types.ClassUnchanged
	}
	*entries = append(*entries, types.ChangeLogEntry{
		OldLabel: b.Label,
		NewLabel: label,
		OldID:    b.ID,
		NewID:    newID,
		Class:    class,
		Preview:  preview(after.Content),
	})
	return out
}

// resolveID picks the outer id for a replaced span. With preservation on,
// the original id survives unless it is a non-conforming placeholder, in
// which case a fresh one is issued.
func resolveID(before, after *types.Record, a *alloc.Allocator, opts Options) string {
	if opts.PreserveOriginalIDs {
		if conformingID(before.ID, opts.Prefix) {
			return before.ID
		}
		return a.Next(opts.Prefix)
	}
	if after.ID != "" {
		return after.ID
	}
	if before.ID != "" {
		return before.ID
	}
	return a.Next(opts.Prefix)
}

// conformingID reports whether id follows the {prefix}{digits} convention.
func conformingID(id, prefix string) bool {
	if prefix == "" || !strings.HasPrefix(id, prefix) {
		return false
	}
	rest := id[len(prefix):]
	if rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SetOuterID rewrites (or inserts) the id attribute on a span's opening tag.
func SetOuterID(span, id string) string {
	m := openTagRe.FindStringSubmatchIndex(span)
	if m == nil {
		return span
	}
	name := span[m[2]:m[3]]
	attrs := span[m[4]:m[5]]
	if idAttrRe.MatchString(attrs) {
		attrs = idAttrRe.ReplaceAllString(attrs, `id="`+id+`"`)
	} else {
		attrs = ` id="` + id + `"` + attrs
	}
	return "<" + name + attrs + ">" + span[m[1]:]
}

var labelSpanRe = regexp.MustCompile(`(?s)<` + regexp.QuoteMeta(extract.ElemLabel) + `(?:\s[^>]*)?>.*?</` + regexp.QuoteMeta(extract.ElemLabel) + `>`)

// SetLabel replaces the display label in a span's first label element, or
// inserts a label element right after the opening tag when none exists.
func SetLabel(span, label string) string {
	elem := "<" + extract.ElemLabel + ">" + label + "</" + extract.ElemLabel + ">"
	if loc := labelSpanRe.FindStringIndex(span); loc != nil {
		return span[:loc[0]] + elem + span[loc[1]:]
	}
	m := openTagRe.FindStringIndex(span)
	if m == nil {
		return span
	}
	return span[:m[1]] + elem + span[m[1]:]
}

// renumberInternal re-issues every internal id of the listed prefixes inside
// a span, one issuance per occurrence in document order.
func renumberInternal(span string, prefixes []string, a *alloc.Allocator) string {
	for _, p := range prefixes {
		re := regexp.MustCompile(`\bid="` + regexp.QuoteMeta(p) + `\d+"`)
		span = re.ReplaceAllStringFunc(span, func(string) string {
			return `id="` + a.Next(p) + `"`
		})
	}
	return span
}

// insertBeforeAnchor places span immediately before the first anchor closing
// tag found, trying anchors in order. With no anchor present the span goes at
// the end of the document; a missing anchor never fails the pass.
func insertBeforeAnchor(text, span string, anchors []string) string {
	for _, anchor := range anchors {
		if i := strings.LastIndex(text, anchor); i >= 0 {
			return text[:i] + span + "\n" + text[i:]
		}
	}
	return text + "\n" + span
}

// sortSpans reorders the rule's extracted spans lexicographically on the
// cleaned label key while leaving all surrounding text in place: the i-th
// span position in the document receives the i-th span in sorted order.
func sortSpans(text string, rule extract.Rule) string {
	recs := extract.Records(text, rule)
	if len(recs) < 2 {
		return text
	}

	sorted := make([]types.Record, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return naturalLess(sortKey(sorted[i]), sortKey(sorted[j]))
	})

	var b strings.Builder
	rest := text
	for i := range recs {
		idx := strings.Index(rest, recs[i].FullSpan)
		if idx < 0 {
			continue
		}
		b.WriteString(rest[:idx])
		b.WriteString(sorted[i].FullSpan)
		rest = rest[idx+len(recs[i].FullSpan):]
	}
	b.WriteString(rest)
	return b.String()
}

// sortKey produces the ordering key for a record: the label when present,
// otherwise the normalized content.
func sortKey(r types.Record) string {
	if r.Label != "" {
		return cleanKey(r.Label)
	}
	return cleanKey(r.NormalizedKey)
}

// cleanKey lowercases and drops punctuation, keeping letters, digits and
// spaces.
func cleanKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// naturalLess compares strings digit-run aware, so "2" sorts before "10".
func naturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			an, arest := leadingInt(a)
			bn, brest := leadingInt(b)
			if an != bn {
				return an < bn
			}
			a, b = arest, brest
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func leadingInt(s string) (int, string) {
	i := 0
	n := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, s[i:]
}

// preview returns a short, tag-stripped content excerpt for change-log rows.
func preview(content string) string {
	s := extract.Normalize(content)
	if len(s) > previewLen {
		s = s[:previewLen]
	}
	return s
}
