// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report computes display data for reviewing a rewrite: a
// line-oriented structural diff with intra-line highlighting, and a tabular
// change-log summary. It never mutates the texts it is given.
package report

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// BlockOp classifies a diff block or an intra-line segment.
type BlockOp string

const (
	OpEqual   BlockOp = "equal"
	OpInsert  BlockOp = "insert"
	OpDelete  BlockOp = "delete"
	OpReplace BlockOp = "replace"
)

// Segment is one highlighted piece of a replace block.
type Segment struct {
	Op   BlockOp
	Text string
}

// Block is one contiguous run of the line-level diff. Replace blocks carry
// intra-line segments; refinement is deliberately limited to replace blocks
// so cost stays bounded and highlighting stays meaningful.
type Block struct {
	Op       BlockOp
	Before   []string
	After    []string
	Segments []Segment
}

// Diff computes the line-level structural diff between the original and the
// rewritten text. Adjacent delete/insert runs collapse into replace blocks
// with intra-line refinement.
func Diff(before, after string) []Block {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var blocks []Block
	for i := 0; i < len(diffs); {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			blocks = append(blocks, Block{
				Op:     OpEqual,
				Before: splitLines(d.Text),
				After:  splitLines(d.Text),
			})
			i++
		case diffmatchpatch.DiffDelete:
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				blocks = append(blocks, Block{
					Op:       OpReplace,
					Before:   splitLines(d.Text),
					After:    splitLines(diffs[i+1].Text),
					Segments: refine(d.Text, diffs[i+1].Text),
				})
				i += 2
				continue
			}
			blocks = append(blocks, Block{Op: OpDelete, Before: splitLines(d.Text)})
			i++
		case diffmatchpatch.DiffInsert:
			blocks = append(blocks, Block{Op: OpInsert, After: splitLines(d.Text)})
			i++
		default:
			i++
		}
	}
	return blocks
}

// refine produces the intra-line highlighting for one replace block. The
// semantic cleanup aligns hunks to word-ish boundaries, which is what the
// review display needs.
func refine(before, after string) []Segment {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	segs := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		}
		segs = append(segs, Segment{Op: op, Text: d.Text})
	}
	return segs
}

// splitLines splits diff text into lines without a trailing empty element.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
