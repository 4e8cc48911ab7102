// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"
)

const sampleBib = `<ce:bibliography>
<ce:bib-reference id="bb0010"><ce:label>1</ce:label>
<sb:reference><ce:surname>Meyer</ce:surname><ce:given-name>K.</ce:given-name>
<sb:date>2019</sb:date><sb:maintitle>Signal Recovery</sb:maintitle></sb:reference>
</ce:bib-reference>
<ce:bib-reference id="bb0020"><ce:label>2</ce:label>
<ce:other-ref>Working notes, unpublished.</ce:other-ref>
</ce:bib-reference>
</ce:bibliography>`

func TestRecords(t *testing.T) {
	recs := Records(sampleBib, BibReferences)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	if recs[0].ID != "bb0010" || recs[1].ID != "bb0020" {
		t.Errorf("ids = %q, %q; want bb0010, bb0020", recs[0].ID, recs[1].ID)
	}
	if recs[0].Label != "1" || recs[1].Label != "2" {
		t.Errorf("labels = %q, %q; want 1, 2", recs[0].Label, recs[1].Label)
	}
	if recs[0].IsSynthetic || recs[1].IsSynthetic {
		t.Error("explicit labels must not be marked synthetic")
	}
	if want := "meyer 2019 signal recovery"; recs[0].NormalizedKey != want {
		t.Errorf("NormalizedKey = %q, want %q", recs[0].NormalizedKey, want)
	}
	if want := "2 working notes, unpublished."; recs[1].NormalizedKey != want {
		t.Errorf("NormalizedKey = %q, want %q", recs[1].NormalizedKey, want)
	}
}

func TestRecordsSyntheticLabel(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantLabel string
		wantSynth bool
	}{
		{
			name: "surname and year",
			text: `<ce:bib-reference id="bb0010"><ce:surname>Okafor</ce:surname>` +
				`<sb:date>2021 Mar</sb:date></ce:bib-reference>`,
			wantLabel: "Okafor, 2021",
			wantSynth: true,
		},
		{
			name:      "surname only",
			text:      `<ce:bib-reference id="bb0010"><ce:surname>Okafor</ce:surname></ce:bib-reference>`,
			wantLabel: "Okafor",
			wantSynth: true,
		},
		{
			name:      "no sub-fields",
			text:      `<ce:bib-reference id="bb0010">bare text</ce:bib-reference>`,
			wantLabel: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Records(tt.text, BibReferences)
			if len(recs) != 1 {
				t.Fatalf("got %d records, want 1", len(recs))
			}
			if recs[0].Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", recs[0].Label, tt.wantLabel)
			}
			if recs[0].IsSynthetic != tt.wantSynth {
				t.Errorf("IsSynthetic = %v, want %v", recs[0].IsSynthetic, tt.wantSynth)
			}
		})
	}
}

func TestRecordsDocumentOrder(t *testing.T) {
	text := `<ce:footnote id="rf0020"><ce:label>b</ce:label></ce:footnote>` +
		`<ce:footnote id="rf0010"><ce:label>a</ce:label></ce:footnote>`
	recs := Records(text, Footnotes)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].ID != "rf0020" || recs[1].ID != "rf0010" {
		t.Errorf("records out of document order: %q, %q", recs[0].ID, recs[1].ID)
	}
}

func TestRecordsMalformedInput(t *testing.T) {
	// An unclosed element yields no record instead of an error.
	recs := Records(`<ce:bib-reference id="bb0010">never closed`, BibReferences)
	if len(recs) != 0 {
		t.Fatalf("got %d records from malformed input, want 0", len(recs))
	}
}

func TestRecordsPure(t *testing.T) {
	first := Records(sampleBib, BibReferences)
	second := Records(sampleBib, BibReferences)
	if len(first) != len(second) {
		t.Fatalf("record counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("record %d differs between runs", i)
		}
	}
}

func TestHelpers(t *testing.T) {
	t.Run("InnerText first occurrence", func(t *testing.T) {
		got := InnerText("<ce:label>1</ce:label><ce:label>2</ce:label>", ElemLabel)
		if got != "1" {
			t.Errorf("InnerText = %q, want %q", got, "1")
		}
	})

	t.Run("AttrValue", func(t *testing.T) {
		if got := AttrValue(` id="bb0010" role="x"`, "id"); got != "bb0010" {
			t.Errorf("AttrValue = %q, want bb0010", got)
		}
		if got := AttrValue(` role="x"`, "id"); got != "" {
			t.Errorf("AttrValue on absent attr = %q, want empty", got)
		}
	})

	t.Run("Normalize", func(t *testing.T) {
		got := Normalize("  <b>Mixed</b>\n CASE \ttext ")
		if got != "mixed case text" {
			t.Errorf("Normalize = %q, want %q", got, "mixed case text")
		}
	})
}

func TestByIDDuplicates(t *testing.T) {
	text := `<ce:bib-reference id="bb0010"><ce:label>1</ce:label>first</ce:bib-reference>` +
		`<ce:bib-reference id="bb0010"><ce:label>2</ce:label>second</ce:bib-reference>`
	recs := Records(text, BibReferences)
	byID := ByID(recs)
	if len(byID) != 1 {
		t.Fatalf("got %d indexed ids, want 1", len(byID))
	}
	if byID["bb0010"].Label != "2" {
		t.Errorf("duplicate id kept label %q, want later occurrence 2", byID["bb0010"].Label)
	}
}

func TestByLabelGroups(t *testing.T) {
	text := `<ce:bib-reference id="bb0010"><ce:label>3</ce:label>x</ce:bib-reference>` +
		`<ce:bib-reference id="bb0020"><ce:label>3</ce:label>y</ce:bib-reference>` +
		`<ce:bib-reference id="bb0030"><ce:label>4</ce:label>z</ce:bib-reference>`
	groups := ByLabel(Records(text, BibReferences))
	if len(groups["3"]) != 2 {
		t.Errorf("label 3 group size = %d, want 2", len(groups["3"]))
	}
	if len(groups["4"]) != 1 {
		t.Errorf("label 4 group size = %d, want 1", len(groups["4"]))
	}
	if len(groups["3"]) == 2 && groups["3"][0].ID != "bb0010" {
		t.Errorf("group order = %q first, want bb0010", groups["3"][0].ID)
	}
}
