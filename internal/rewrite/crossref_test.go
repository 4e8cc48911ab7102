// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"strings"
	"testing"
)

func TestFindCrossRefs(t *testing.T) {
	text := `See <ce:cross-ref refid="bb0010">1</ce:cross-ref> and ` +
		`<ce:cross-refs refid="bb0030 bb0040 bb0050">3–5</ce:cross-refs>.`

	refs := FindCrossRefs(text)
	if len(refs) != 2 {
		t.Fatalf("got %d constructs, want 2", len(refs))
	}
	if len(refs[0].RefIDs) != 1 || refs[0].RefIDs[0] != "bb0010" {
		t.Errorf("RefIDs = %v, want [bb0010]", refs[0].RefIDs)
	}
	if refs[0].Inner != "1" {
		t.Errorf("Inner = %q, want 1", refs[0].Inner)
	}
	if len(refs[1].RefIDs) != 3 {
		t.Errorf("RefIDs = %v, want three ids", refs[1].RefIDs)
	}
}

func TestCitedIDs(t *testing.T) {
	text := `<ce:cross-ref refid="bb0010">1</ce:cross-ref>` +
		`<ce:cross-refs refid="bb0010 bb0020">1, 2</ce:cross-refs>`
	cited := CitedIDs(text)
	if !cited["bb0010"] || !cited["bb0020"] {
		t.Errorf("CitedIDs = %v, want bb0010 and bb0020", cited)
	}
	if len(cited) != 2 {
		t.Errorf("got %d cited ids, want 2", len(cited))
	}
}

func TestRenderCitations(t *testing.T) {
	mk := func(id, label string) Target { return Target{ID: id, Label: label} }

	tests := []struct {
		name    string
		targets []Target
		want    string
	}{
		{
			name:    "single",
			targets: []Target{mk("bb0030", "3")},
			want:    `<ce:cross-ref refid="bb0030">3</ce:cross-ref>`,
		},
		{
			name:    "pair never collapses",
			targets: []Target{mk("bb0030", "3"), mk("bb0040", "4")},
			want: `<ce:cross-ref refid="bb0030">3</ce:cross-ref>, ` +
				`<ce:cross-ref refid="bb0040">4</ce:cross-ref>`,
		},
		{
			name:    "run of three collapses",
			targets: []Target{mk("bb0030", "3"), mk("bb0040", "4"), mk("bb0050", "5")},
			want:    `<ce:cross-refs refid="bb0030 bb0040 bb0050">3–5</ce:cross-refs>`,
		},
		{
			name: "run plus isolated target",
			targets: []Target{
				mk("bb0030", "3"), mk("bb0040", "4"), mk("bb0050", "5"), mk("bb0070", "7"),
			},
			want: `<ce:cross-refs refid="bb0030 bb0040 bb0050">3–5</ce:cross-refs>, ` +
				`<ce:cross-ref refid="bb0070">7</ce:cross-ref>`,
		},
		{
			name:    "out-of-order input sorts numerically",
			targets: []Target{mk("bb0050", "5"), mk("bb0030", "3"), mk("bb0040", "4")},
			want:    `<ce:cross-refs refid="bb0030 bb0040 bb0050">3–5</ce:cross-refs>`,
		},
		{
			name:    "non-numeric labels render as singles",
			targets: []Target{mk("rf0010", "a"), mk("rf0020", "b")},
			want: `<ce:cross-ref refid="rf0010">a</ce:cross-ref>, ` +
				`<ce:cross-ref refid="rf0020">b</ce:cross-ref>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderCitations(tt.targets); got != tt.want {
				t.Errorf("RenderCitations =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRelink(t *testing.T) {
	labels := map[string]string{"bb0110": "11", "bb0020": "2"}

	t.Run("re-keys mapped ids", func(t *testing.T) {
		text := `<ce:cross-ref refid="bb0010">1</ce:cross-ref>`
		got := Relink(text, map[string]string{"bb0010": "bb0110"}, nil, labels, nil)
		want := `<ce:cross-ref refid="bb0110">11</ce:cross-ref>`
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("unwraps constructs with no surviving target", func(t *testing.T) {
		text := `as shown <ce:cross-ref refid="bb0010">earlier</ce:cross-ref> here`
		got := Relink(text, nil, map[string]bool{"bb0010": true}, labels, nil)
		if got != "as shown earlier here" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("drops removed target from a list", func(t *testing.T) {
		text := `<ce:cross-refs refid="bb0010 bb0020">1, 2</ce:cross-refs>`
		got := Relink(text, nil, map[string]bool{"bb0010": true}, labels, nil)
		want := `<ce:cross-ref refid="bb0020">2</ce:cross-ref>`
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("dedupes ids converging on one target", func(t *testing.T) {
		text := `<ce:cross-refs refid="bb0010 bb0020">1, 2</ce:cross-refs>`
		got := Relink(text, map[string]string{"bb0010": "bb0020"}, nil, labels, nil)
		want := `<ce:cross-ref refid="bb0020">2</ce:cross-ref>`
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("untouched constructs stay byte-for-byte", func(t *testing.T) {
		text := `<ce:cross-ref  refid="bb0030" >3</ce:cross-ref>`
		got := Relink(text, map[string]string{"bb0010": "bb0110"}, nil, labels, nil)
		if got != text {
			t.Errorf("untouched construct rewritten: %q", got)
		}
	})

	t.Run("relabeled id forces re-render", func(t *testing.T) {
		text := `<ce:cross-ref refid="bb0020">9</ce:cross-ref>`
		got := Relink(text, nil, nil, labels, map[string]bool{"bb0020": true})
		want := `<ce:cross-ref refid="bb0020">2</ce:cross-ref>`
		if got != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})
}

func TestRelinkRoundTrip(t *testing.T) {
	// With empty maps nothing changes, whatever the construct shapes.
	text := `Intro <ce:cross-ref refid="bb0010">1</ce:cross-ref>, then ` +
		`<ce:cross-refs refid="bb0030 bb0040 bb0050">3–5</ce:cross-refs> end.`
	if got := Relink(text, nil, nil, nil, nil); got != text {
		t.Errorf("identity relink changed text:\n%s", got)
	}
	if !strings.Contains(text, "–") {
		t.Fatal("fixture lost its en-dash")
	}
}
