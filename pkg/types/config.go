// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citeworks/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ParserConfig holds settings for the inference-service reference parser.
type ParserConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the inference service URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Model is the model identifier sent with each request.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the inference service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on rate-limited calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ToolConfig holds per-tool pipeline settings. Threshold and floor values
// deliberately differ between tools; they are configuration, not universal
// constants.
type ToolConfig struct {
	// FuzzyThreshold is the similarity acceptance threshold in (0,1]
	// (default 0.85).
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`

	// AllocatorFloor seeds identifier counters for prefixes with no
	// existing occurrences (default 4000).
	AllocatorFloor int `json:"allocator_floor" yaml:"allocator_floor"`

	// PreserveOriginalIDs keeps the original outer id of a replaced record
	// instead of adopting the corrected record's id.
	PreserveOriginalIDs bool `json:"preserve_original_ids" yaml:"preserve_original_ids"`

	// RenumberInternalIDs re-issues ids on sub-elements inside replaced
	// spans (source-text, inter-ref and similar classes).
	RenumberInternalIDs bool `json:"renumber_internal_ids" yaml:"renumber_internal_ids"`

	// SortOutput orders the final record list by cleaned label key instead
	// of document order.
	SortOutput bool `json:"sort_output" yaml:"sort_output"`
}

// HistoryConfig holds settings for the job-history store.
type HistoryConfig struct {
	// Dir is the directory holding the history database (contains
	// citeworks.db). Empty disables history recording.
	Dir string `json:"dir" yaml:"dir"`

	// Keep is the number of most recent runs retained by prune (default 100).
	Keep int `json:"keep" yaml:"keep"`
}

// SuiteConfig groups all tool and collaborator configurations.
type SuiteConfig struct {
	Renumber  ToolConfig    `json:"renumber" yaml:"renumber"`
	Merge     ToolConfig    `json:"merge" yaml:"merge"`
	Dedupe    ToolConfig    `json:"dedupe" yaml:"dedupe"`
	Uncited   ToolConfig    `json:"uncited" yaml:"uncited"`
	Footnotes ToolConfig    `json:"footnotes" yaml:"footnotes"`
	TableFoot ToolConfig    `json:"tablefoot" yaml:"tablefoot"`
	Sync      ToolConfig    `json:"sync" yaml:"sync"`
	Parser    ParserConfig  `json:"parser" yaml:"parser"`
	History   HistoryConfig `json:"history" yaml:"history"`
}
