// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"testing"

	"github.com/pdiddy/citeworks/pkg/types"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"résumé", "resume", 2},
	}

	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		// Distance is symmetric.
		if got := Levenshtein(tt.b, tt.a); got != tt.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"both empty", "", "", 1.0},
		{"identical", "meyer 2019", "meyer 2019", 1.0},
		{"disjoint", "abcd", "wxyz", 0.0},
		{"one edit in five", "abcde", "abcdx", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got < tt.want-1e-9 || got > tt.want+1e-9 {
				t.Errorf("Similarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func rec(id, label, key string) types.Record {
	return types.Record{ID: id, Label: label, NormalizedKey: key}
}

func TestPairsExact(t *testing.T) {
	before := []types.Record{
		rec("bb0010", "1", "meyer 2019 signal recovery"),
		rec("bb0020", "2", "okafor 2021 sparse coding"),
	}
	after := []types.Record{
		rec("nb2", "2", "okafor 2021 sparse coding revised"),
		rec("nb1", "1", "meyer 2019 signal recovery"),
	}

	res, err := Pairs(before, after, Options{Mode: ModeExact})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(res.Pairs))
	}
	if res.Pairs[0].After == nil || res.Pairs[0].After.ID != "nb1" {
		t.Errorf("before 1 paired with %+v, want nb1", res.Pairs[0].After)
	}
	if res.Pairs[0].Type != types.MatchExactLabel || res.Pairs[0].Score != 1.0 {
		t.Errorf("pair 0 type/score = %s/%v, want exact-label/1.0", res.Pairs[0].Type, res.Pairs[0].Score)
	}
	if len(res.Orphans) != 0 {
		t.Errorf("got %d orphans, want 0", len(res.Orphans))
	}
}

func TestPairsFuzzyFallback(t *testing.T) {
	before := []types.Record{
		rec("bb0010", "1", "meyer 2019 signal recovery"),
	}
	after := []types.Record{
		// Label differs, content nearly identical.
		rec("nb7", "7", "meyer 2019 signal recoverx"),
	}

	res, err := Pairs(before, after, Options{Mode: ModeExactThenFuzzy, Threshold: 0.85})
	if err != nil {
		t.Fatal(err)
	}
	p := res.Pairs[0]
	if p.After == nil {
		t.Fatal("fuzzy fallback found no pair")
	}
	if p.Type != types.MatchFuzzyContent {
		t.Errorf("Type = %s, want fuzzy-content", p.Type)
	}
	if p.Score <= 0.85 {
		t.Errorf("Score = %v, want > threshold", p.Score)
	}
}

func TestPairsThresholdRejects(t *testing.T) {
	before := []types.Record{rec("bb0010", "1", "meyer 2019 signal recovery")}
	after := []types.Record{rec("nb7", "7", "completely different entry")}

	res, err := Pairs(before, after, Options{Mode: ModeFuzzy, Threshold: 0.85})
	if err != nil {
		t.Fatal(err)
	}
	if res.Pairs[0].After != nil {
		t.Error("pair accepted below threshold")
	}
	if len(res.Orphans) != 1 {
		t.Errorf("got %d orphans, want 1", len(res.Orphans))
	}
}

func TestPairsGreedyFirstCome(t *testing.T) {
	// Two befores compete for one after; the earlier before wins.
	before := []types.Record{
		rec("bb0010", "1", "meyer 2019 signal recovery"),
		rec("bb0020", "2", "meyer 2019 signal recovery"),
	}
	after := []types.Record{
		rec("nb1", "9", "meyer 2019 signal recovery"),
	}

	res, err := Pairs(before, after, Options{Mode: ModeFuzzy})
	if err != nil {
		t.Fatal(err)
	}
	if res.Pairs[0].After == nil || res.Pairs[0].After.ID != "nb1" {
		t.Error("first before-record did not claim the candidate")
	}
	if res.Pairs[1].After != nil {
		t.Error("consumed candidate was reused")
	}
}

func TestPairsDuplicateLabelsConflict(t *testing.T) {
	before := []types.Record{
		rec("bb0010", "3", "first entry content"),
		rec("bb0020", "3", "second entry content"),
		rec("bb0030", "4", "third entry content"),
	}
	after := []types.Record{
		rec("nb3", "3", "corrected entry content"),
		rec("nb4", "4", "third entry content"),
	}

	res, err := Pairs(before, after, Options{Mode: ModeExactThenFuzzy})
	if err != nil {
		t.Fatal(err)
	}
	if !res.HasConflicts() {
		t.Fatal("duplicate labels produced no conflict")
	}
	c := res.Conflicts[0]
	if c.Label != "3" || len(c.Candidates) != 2 {
		t.Errorf("conflict = label %q with %d candidates, want 3 with 2", c.Label, len(c.Candidates))
	}
	if c.After == nil || c.After.ID != "nb3" {
		t.Error("conflict did not reserve its corrected record")
	}

	// The duplicate-labeled befores stay unpaired; the clean one pairs.
	if res.Pairs[0].After != nil || res.Pairs[1].After != nil {
		t.Error("conflicted records were auto-paired")
	}
	if res.Pairs[2].After == nil || res.Pairs[2].After.ID != "nb4" {
		t.Error("unconflicted record failed to pair")
	}
	// The reserved corrected record is not an orphan.
	if len(res.Orphans) != 0 {
		t.Errorf("got %d orphans, want 0", len(res.Orphans))
	}
}

func TestPairsUnknownMode(t *testing.T) {
	if _, err := Pairs(nil, nil, Options{Mode: "nonsense"}); err == nil {
		t.Error("unknown mode accepted")
	}
	if _, err := Pairs(nil, nil, Options{}); err != nil {
		t.Errorf("empty mode rejected: %v", err)
	}
}
