// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package alloc issues collision-free, gap-spaced element identifiers. An
// Allocator is seeded by scanning a document for the highest numeric suffix
// per prefix and lives for exactly one rewrite pass; it is always passed
// explicitly, never held in package state.
package alloc

import (
	"fmt"
	"regexp"
)

// DefaultFloor seeds prefixes with no existing occurrences. The floor stays
// well above small manually-assigned ids so later manual insertions cannot
// collide.
const DefaultFloor = 4000

// defaultWidth is the zero-padded digit width when no id was observed.
const defaultWidth = 4

// step is the gap between consecutive issued values. Multiples of 5 leave
// room for manual insertions between issued ids.
const step = 5

var idRe = regexp.MustCompile(`id="([a-z]{2})(\d+)"`)

// Options tunes allocator seeding.
type Options struct {
	// Floor seeds prefixes that have no occurrences in the document.
	// Zero means DefaultFloor.
	Floor int

	// Start, when positive, raises every prefix's seed to at least this
	// value.
	Start int
}

// Allocator issues identifiers of the form "{prefix}{zero-padded number}".
// Counters advance monotonically by the gap step; the allocator is not safe
// for concurrent use and is discarded after one rewrite pass.
type Allocator struct {
	next  map[string]int
	width map[string]int
	floor int
}

// New seeds an allocator from the document text for the given prefixes. For
// each prefix the seed is the highest observed numeric suffix rounded up to
// the next multiple of 5 (strictly greater than the observed maximum), or the
// floor when the prefix never occurs. The zero-padding width follows the
// widest observed suffix for the prefix, defaulting to 4 digits.
func New(text string, prefixes []string, opts Options) *Allocator {
	floor := opts.Floor
	if floor <= 0 {
		floor = DefaultFloor
	}

	wanted := make(map[string]bool, len(prefixes))
	for _, p := range prefixes {
		wanted[p] = true
	}

	maxVal := make(map[string]int)
	width := make(map[string]int)
	for _, m := range idRe.FindAllStringSubmatch(text, -1) {
		prefix, digits := m[1], m[2]
		if !wanted[prefix] {
			continue
		}
		var v int
		fmt.Sscanf(digits, "%d", &v)
		if v > maxVal[prefix] {
			maxVal[prefix] = v
			width[prefix] = len(digits)
		}
	}

	a := &Allocator{
		next:  make(map[string]int, len(prefixes)),
		width: make(map[string]int, len(prefixes)),
		floor: floor,
	}
	for _, p := range prefixes {
		if v, ok := maxVal[p]; ok {
			a.next[p] = roundUp(v)
			a.width[p] = width[p]
		} else {
			a.next[p] = floor
			a.width[p] = defaultWidth
		}
		if opts.Start > 0 && a.next[p] < opts.Start {
			a.next[p] = opts.Start
		}
	}
	return a
}

// Next returns the next identifier for prefix and advances its counter.
// Prefixes unseen at seeding time start at the floor.
func (a *Allocator) Next(prefix string) string {
	n, ok := a.next[prefix]
	if !ok {
		n = a.floor
		a.width[prefix] = defaultWidth
	}
	a.next[prefix] = n + step
	return fmt.Sprintf("%s%0*d", prefix, a.width[prefix], n)
}

// Peek returns the value Next would issue for prefix without advancing.
func (a *Allocator) Peek(prefix string) string {
	n, ok := a.next[prefix]
	if !ok {
		n = a.floor
	}
	w, ok := a.width[prefix]
	if !ok {
		w = defaultWidth
	}
	return fmt.Sprintf("%s%0*d", prefix, w, n)
}

// roundUp returns the smallest multiple of the gap step strictly greater
// than v.
func roundUp(v int) int {
	return (v/step + 1) * step
}
