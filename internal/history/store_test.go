// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/citeworks/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.HistoryConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(tool string) Run {
	return Run{
		Tool:      tool,
		Added:     1,
		Relabeled: 2,
		Entries: []types.ChangeLogEntry{
			{OldLabel: "1", NewLabel: "2", OldID: "bb0010", NewID: "bb0010", Class: types.ClassRelabeled, Preview: "meyer 2019"},
			{NewLabel: "3", NewID: "bb0025", Class: types.ClassAdded, Preview: "lindqvist 2024"},
		},
	}
}

func TestOpenRequiresDir(t *testing.T) {
	if _, err := Open(types.HistoryConfig{}); err == nil {
		t.Error("open with empty dir accepted")
	}
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, sampleRun("renumber"))
	if err != nil {
		t.Fatal(err)
	}

	run, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Tool != "renumber" {
		t.Errorf("Tool = %q", run.Tool)
	}
	if run.StartedAt.IsZero() {
		t.Error("StartedAt not defaulted")
	}
	if run.Added != 1 || run.Relabeled != 2 {
		t.Errorf("counts = %+v", run)
	}
	if len(run.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(run.Entries))
	}
	if run.Entries[0].Class != types.ClassRelabeled || run.Entries[1].Class != types.ClassAdded {
		t.Errorf("entry order not preserved: %+v", run.Entries)
	}
}

func TestGetUnknownRun(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), 999); err == nil {
		t.Error("unknown run id accepted")
	}
}

func TestListNewestFirstWithFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Record(ctx, sampleRun("renumber")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Record(ctx, sampleRun("dedupe")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Record(ctx, sampleRun("renumber")); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List(ctx, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].ID < runs[1].ID || runs[1].ID < runs[2].ID {
		t.Error("runs not newest first")
	}
	if len(runs[0].Entries) != 0 {
		t.Error("List loaded entries")
	}

	filtered, err := s.List(ctx, "dedupe", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].Tool != "dedupe" {
		t.Errorf("filtered = %+v", filtered)
	}
}

func TestPruneKeepsMostRecent(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(types.HistoryConfig{Dir: dir, Keep: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		last, err = s.Record(ctx, sampleRun("renumber"))
		if err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.Prune(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("pruned %d runs, want 3", n)
	}

	runs, err := s.List(ctx, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != last {
		t.Errorf("surviving runs = %+v", runs)
	}

	// Cascade removed the pruned runs' entries.
	if _, err := s.Get(ctx, runs[0].ID); err != nil {
		t.Errorf("kept run unreadable: %v", err)
	}
}

func TestExportYAML(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, sampleRun("merge"))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := s.ExportYAML(ctx, id, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"tool: merge", "class: relabeled", "preview: meyer 2019"} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
}
