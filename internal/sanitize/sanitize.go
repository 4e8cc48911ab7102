// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sanitize implements the dual-format output contract: strip
// invisible and control Unicode, collapse whitespace, and round-trip a small
// whitelist of formatting tags through placeholder tokens so they survive
// plain-text sanitization into minimal HTML.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

// formatTokens maps markup formatting elements to placeholder tokens and the
// minimal HTML they become. Only these four formats survive; everything else
// is stripped. The tokens use printable brackets so the sanitizer passes them
// through untouched.
var formatTokens = []struct {
	elem      string
	tokOpen   string
	tokClose  string
	htmlOpen  string
	htmlClose string
}{
	{"ce:bold", "{{b}}", "{{/b}}", "<b>", "</b>"},
	{"ce:italic", "{{i}}", "{{/i}}", "<i>", "</i>"},
	{"ce:sup", "{{sup}}", "{{/sup}}", "<sup>", "</sup>"},
	{"ce:inf", "{{sub}}", "{{/sub}}", "<sub>", "</sub>"},
}

// Clean strips invisible and control Unicode characters and collapses
// whitespace runs to single spaces. Applying Clean twice yields the same
// result as applying it once.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			// dropped: zero-width characters, BOM, soft hyphen and friends
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ToPlain strips all markup and sanitizes, producing the plain-text clipboard
// form.
func ToPlain(markup string) string {
	return Clean(stripAllTags(markup))
}

// ToHTML produces the rich clipboard form: whitelisted formatting tags are
// first converted to placeholder tokens, the text is plain-text sanitized,
// then the tokens become minimal HTML tags.
func ToHTML(markup string) string {
	s := markup
	for _, ft := range formatTokens {
		s = replaceTag(s, ft.elem, ft.tokOpen, ft.tokClose)
	}
	s = Clean(stripAllTags(s))
	for _, ft := range formatTokens {
		s = strings.ReplaceAll(s, ft.tokOpen, ft.htmlOpen)
		s = strings.ReplaceAll(s, ft.tokClose, ft.htmlClose)
	}
	return s
}

// openTagRes holds per-element opening-tag regexes for replaceTag, compiled
// once at init.
var openTagRes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(formatTokens))
	for _, ft := range formatTokens {
		m[ft.elem] = regexp.MustCompile(`<` + regexp.QuoteMeta(ft.elem) + `(?:\s[^>]*)?>`)
	}
	return m
}()

// replaceTag swaps an element's opening and closing tags for tokens,
// tolerating attributes on the opening tag.
func replaceTag(s, elem, tokOpen, tokClose string) string {
	s = openTagRes[elem].ReplaceAllString(s, tokOpen)
	return strings.ReplaceAll(s, "</"+elem+">", tokClose)
}

// stripAllTags removes every markup tag, leaving text content. Placeholder
// tokens are not tags and pass through.
func stripAllTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
