// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pdiddy/citeworks/pkg/types"
)

// Summary counts change-log rows per classification.
type Summary struct {
	Added     int `json:"added" yaml:"added"`
	Removed   int `json:"removed" yaml:"removed"`
	Relabeled int `json:"relabeled" yaml:"relabeled"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Orphaned  int `json:"orphaned" yaml:"orphaned"`
}

// Total returns the number of processed records.
func (s Summary) Total() int {
	return s.Added + s.Removed + s.Relabeled + s.Unchanged + s.Orphaned
}

// Summarize tallies entries by classification.
func Summarize(entries []types.ChangeLogEntry) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Class {
		case types.ClassAdded:
			s.Added++
		case types.ClassRemoved:
			s.Removed++
		case types.ClassRelabeled:
			s.Relabeled++
		case types.ClassUnchanged:
			s.Unchanged++
		case types.ClassOrphaned:
			s.Orphaned++
		}
	}
	return s
}

// WriteTable renders the change log as an aligned text table followed by the
// summary line.
func WriteTable(w io.Writer, entries []types.ChangeLogEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OLD LABEL\tNEW LABEL\tOLD ID\tNEW ID\tCLASS\tPREVIEW")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.OldLabel, e.NewLabel, e.OldID, e.NewID, e.Class, e.Preview)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := Summarize(entries)
	_, err := fmt.Fprintf(w, "\nadded: %d, removed: %d, relabeled: %d, unchanged: %d, orphaned: %d\n",
		s.Added, s.Removed, s.Relabeled, s.Unchanged, s.Orphaned)
	return err
}

// WriteDiff renders the structural diff in a unified-style text form:
// unchanged lines prefixed with two spaces, deletions with "- ", insertions
// with "+ ".
func WriteDiff(w io.Writer, blocks []Block) error {
	for _, b := range blocks {
		switch b.Op {
		case OpEqual:
			for _, line := range b.Before {
				if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
					return err
				}
			}
		case OpDelete, OpReplace:
			for _, line := range b.Before {
				if _, err := fmt.Fprintf(w, "- %s\n", line); err != nil {
					return err
				}
			}
			if b.Op == OpReplace {
				for _, line := range b.After {
					if _, err := fmt.Fprintf(w, "+ %s\n", line); err != nil {
						return err
					}
				}
			}
		case OpInsert:
			for _, line := range b.After {
				if _, err := fmt.Fprintf(w, "+ %s\n", line); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
