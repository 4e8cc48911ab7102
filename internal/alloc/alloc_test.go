// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package alloc

import (
	"strings"
	"testing"
)

func TestNewSeedsStrictlyAboveObserved(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "max on a step boundary still advances",
			text: `<x id="bb0020"/>`,
			want: "bb0025",
		},
		{
			name: "max between boundaries rounds up",
			text: `<x id="bb0017"/>`,
			want: "bb0020",
		},
		{
			name: "highest occurrence wins",
			text: `<x id="bb0010"/><y id="bb0300"/><z id="bb0040"/>`,
			want: "bb0305",
		},
		{
			name: "unseen prefix starts at the floor",
			text: `<x id="rf0010"/>`,
			want: "bb4000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.text, []string{"bb"}, Options{})
			if got := a.Next("bb"); got != tt.want {
				t.Errorf("Next = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextAdvancesByStep(t *testing.T) {
	a := New("", []string{"bb"}, Options{Floor: 100})
	got := []string{a.Next("bb"), a.Next("bb"), a.Next("bb")}
	want := []string{"bb0100", "bb0105", "bb0110"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("issue %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNextNeverCollides(t *testing.T) {
	text := `<x id="bb0010"/><y id="bb0040"/>`
	a := New(text, []string{"bb"}, Options{})

	seen := map[string]bool{"bb0010": true, "bb0040": true}
	for i := 0; i < 50; i++ {
		id := a.Next("bb")
		if seen[id] {
			t.Fatalf("issued duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestWidthFollowsObserved(t *testing.T) {
	a := New(`<x id="bb012345"/>`, []string{"bb"}, Options{})
	id := a.Next("bb")
	if len(strings.TrimPrefix(id, "bb")) != 6 {
		t.Errorf("id %q does not keep the observed 6-digit width", id)
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	a := New("", []string{"bb"}, Options{})
	first := a.Peek("bb")
	if second := a.Peek("bb"); second != first {
		t.Errorf("Peek advanced: %q then %q", first, second)
	}
	if got := a.Next("bb"); got != first {
		t.Errorf("Next = %q, want peeked %q", got, first)
	}
}

func TestStartRaisesSeed(t *testing.T) {
	a := New(`<x id="bb0010"/>`, []string{"bb"}, Options{Start: 9000})
	if got := a.Next("bb"); got != "bb9000" {
		t.Errorf("Next = %q, want bb9000", got)
	}
}

func TestUnregisteredPrefixFallsBackToFloor(t *testing.T) {
	a := New("", []string{"bb"}, Options{Floor: 200})
	if got := a.Next("sp"); got != "sp0200" {
		t.Errorf("Next = %q, want sp0200", got)
	}
}
