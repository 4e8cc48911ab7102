// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/citeworks/pkg/types"
)

// mockBackend fails a fixed number of times before succeeding.
type mockBackend struct {
	failures int
	calls    int
	refs     []types.ParsedReference
}

func (m *mockBackend) Parse(ctx context.Context, lines []string) ([]types.ParsedReference, error) {
	m.calls++
	if m.calls <= m.failures {
		return nil, errors.New("transient failure")
	}
	return m.refs, nil
}

func fastBackoff(t *testing.T) {
	t.Helper()
	old := backoffBase
	backoffBase = time.Millisecond
	t.Cleanup(func() { backoffBase = old })
}

func TestParseReferencesRetries(t *testing.T) {
	fastBackoff(t)

	backend := &mockBackend{
		failures: 2,
		refs:     []types.ParsedReference{{Title: "Signal Recovery", Type: types.RefJournal}},
	}
	refs, err := ParseReferences(context.Background(), backend, []string{"a line"}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if backend.calls != 3 {
		t.Errorf("backend called %d times, want 3", backend.calls)
	}
	if len(refs) != 1 || refs[0].Title != "Signal Recovery" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestParseReferencesExhaustsRetries(t *testing.T) {
	fastBackoff(t)

	backend := &mockBackend{failures: 10}
	_, err := ParseReferences(context.Background(), backend, []string{"a line"}, 2)
	if err == nil {
		t.Fatal("want error after exhausted retries")
	}
	if backend.calls != 3 {
		t.Errorf("backend called %d times, want 3 (initial + 2 retries)", backend.calls)
	}
}

func TestParseReferencesContextCancel(t *testing.T) {
	backend := &mockBackend{failures: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ParseReferences(ctx, backend, []string{"a line"}, 3)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCleanReference(t *testing.T) {
	in := types.ParsedReference{
		Authors: []types.Author{
			{Surname: " Meyer ", Initials: "K."},
			{Surname: "null", Initials: "X."},
			{Surname: "", Initials: "Y."},
		},
		Year:   "NULL",
		Title:  "  Signal Recovery  ",
		Source: "null",
		Pages:  "12-34",
		Type:   types.ReferenceType("preprint"),
	}
	got := CleanReference(in)

	if len(got.Authors) != 1 || got.Authors[0].Surname != "Meyer" {
		t.Errorf("Authors = %+v, want only Meyer", got.Authors)
	}
	if got.Year != "" || got.Source != "" {
		t.Errorf("literal null fields survived: year %q source %q", got.Year, got.Source)
	}
	if got.Title != "Signal Recovery" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Type != types.RefOther {
		t.Errorf("Type = %q, want other", got.Type)
	}
}

func TestHTTPBackendParse(t *testing.T) {
	var gotReq parseRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key123" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Error(err)
		}
		json.NewEncoder(w).Encode(parseResponse{References: []types.ParsedReference{
			{Title: "Signal Recovery", Type: types.RefJournal},
		}})
	}))
	defer srv.Close()

	backend := NewHTTPBackend(types.ParserConfig{
		Endpoint: srv.URL,
		Model:    "ref-parser-1",
		APIKey:   "key123",
	})
	refs, err := backend.Parse(context.Background(), []string{"Meyer K. Signal Recovery. 2019."})
	if err != nil {
		t.Fatal(err)
	}
	if gotReq.Model != "ref-parser-1" || len(gotReq.Lines) != 1 {
		t.Errorf("request = %+v", gotReq)
	}
	if len(refs) != 1 || refs[0].Title != "Signal Recovery" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestHTTPBackendErrorIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	backend := NewHTTPBackend(types.ParserConfig{Endpoint: srv.URL})
	_, err := backend.Parse(context.Background(), []string{"line"})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("err = %v, want body excerpt", err)
	}
}

func TestBuildBibReference(t *testing.T) {
	t.Run("journal", func(t *testing.T) {
		ref := types.ParsedReference{
			Authors: []types.Author{{Surname: "Meyer", Initials: "K."}},
			Year:    "2019",
			Title:   "Signal Recovery",
			Source:  "J. Approx. Theory",
			Volume:  "245",
			Issue:   "3",
			Pages:   "12–34",
			Type:    types.RefJournal,
		}
		got := BuildBibReference(ref, "bb4000", "1")

		for _, want := range []string{
			`<ce:bib-reference id="bb4000">`,
			`<ce:label>1</ce:label>`,
			`<ce:surname>Meyer</ce:surname>`,
			`<ce:given-name>K.</ce:given-name>`,
			`<sb:maintitle>Signal Recovery</sb:maintitle>`,
			`<sb:volume-nr>245</sb:volume-nr>`,
			`<sb:issue-nr>3</sb:issue-nr>`,
			`<sb:date>2019</sb:date>`,
			`<sb:first-page>12</sb:first-page>`,
			`<sb:last-page>34</sb:last-page>`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("missing %s in:\n%s", want, got)
			}
		}
	})

	t.Run("web falls back to other-ref", func(t *testing.T) {
		ref := types.ParsedReference{
			Authors: []types.Author{{Surname: "Okafor"}},
			Title:   "Project page",
			Year:    "2024",
			Type:    types.RefWeb,
		}
		got := BuildBibReference(ref, "bb4005", "2")
		if !strings.Contains(got, "<ce:other-ref>") {
			t.Errorf("web reference not rendered as other-ref:\n%s", got)
		}
		if !strings.Contains(got, "Okafor. Project page. 2024") {
			t.Errorf("assembled text wrong:\n%s", got)
		}
	})
}

func TestSplitPages(t *testing.T) {
	tests := []struct {
		in          string
		first, last string
	}{
		{"12-34", "12", "34"},
		{"12–34", "12", "34"},
		{"12 – 34", "12", "34"},
		{"e1017", "e1017", ""},
	}
	for _, tt := range tests {
		first, last := splitPages(tt.in)
		if first != tt.first || last != tt.last {
			t.Errorf("splitPages(%q) = %q, %q; want %q, %q", tt.in, first, last, tt.first, tt.last)
		}
	}
}
