// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse consumes the reference-parsing inference service. The
// service is an opaque black box that takes raw citation lines and returns
// structured reference objects; this package handles transport, retry, and
// the defensive cleanup its output needs.
package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/citeworks/internal/httputil"
	"github.com/pdiddy/citeworks/pkg/types"
)

// Backend abstracts the inference service so tests can supply a mock.
type Backend interface {
	Parse(ctx context.Context, lines []string) ([]types.ParsedReference, error)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// ParseReferences calls the backend with exponential backoff and cleans the
// returned objects. The service may return malformed or missing fields; those
// are tolerated here, never surfaced as errors.
func ParseReferences(ctx context.Context, backend Backend, lines []string, maxRetries int) ([]types.ParsedReference, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		refs, err := backend.Parse(ctx, lines)
		if err == nil {
			cleaned := make([]types.ParsedReference, len(refs))
			for i, r := range refs {
				cleaned[i] = CleanReference(r)
			}
			return cleaned, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// CleanReference normalizes one service response object: fields arriving as
// the literal string "null" become empty, values are trimmed, authors without
// a surname are dropped, and an unrecognized type falls back to "other".
func CleanReference(r types.ParsedReference) types.ParsedReference {
	out := types.ParsedReference{
		Year:      coalesce(r.Year),
		Title:     coalesce(r.Title),
		Source:    coalesce(r.Source),
		Volume:    coalesce(r.Volume),
		Issue:     coalesce(r.Issue),
		Pages:     coalesce(r.Pages),
		Publisher: coalesce(r.Publisher),
		Location:  coalesce(r.Location),
	}
	for _, a := range r.Authors {
		surname := coalesce(a.Surname)
		if surname == "" {
			continue
		}
		out.Authors = append(out.Authors, types.Author{
			Surname:  surname,
			Initials: coalesce(a.Initials),
		})
	}
	switch r.Type {
	case types.RefJournal, types.RefBook, types.RefChapter, types.RefWeb:
		out.Type = r.Type
	default:
		out.Type = types.RefOther
	}
	return out
}

// coalesce trims a service string field and rejects the literal "null" the
// model sometimes emits for absent values.
func coalesce(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

// HTTPBackend calls the inference service over HTTP.
type HTTPBackend struct {
	client *http.Client
	cfg    types.ParserConfig
}

// NewHTTPBackend builds a backend from config, applying the default timeout
// (30 s) and User-Agent when unset.
func NewHTTPBackend(cfg types.ParserConfig) *HTTPBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "citeworks/0.1"
	}
	return &HTTPBackend{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
	}
}

// parseRequest is the wire request for one parsing call.
type parseRequest struct {
	Model string   `json:"model"`
	Lines []string `json:"lines"`
}

// parseResponse is the wire response envelope.
type parseResponse struct {
	References []types.ParsedReference `json:"references"`
}

// Parse sends the raw citation lines and decodes the structured result.
// Rate-limited calls are retried with backoff at the transport level.
func (b *HTTPBackend) Parse(ctx context.Context, lines []string) ([]types.ParsedReference, error) {
	body, err := json.Marshal(parseRequest{Model: b.cfg.Model, Lines: lines})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", b.cfg.UserAgent)
	if b.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.client, req, b.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("calling inference service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference service returned %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var pr parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return pr.References, nil
}
