// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "outreach-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RateLimitConfig bounds outbound request rate per external host. The limit
// is shared across concurrent invocations, not per-invocation.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained per-host rate (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// Burst is the per-host burst capacity (default 4).
	Burst int `json:"burst" yaml:"burst"`
}

// MetadataConfig holds settings for the metadata resolver.
type MetadataConfig struct {
	HTTPConfig `yaml:",inline"`

	// SourceOrder lists metadata sources in fallback order
	// (default ["arxiv", "openalex"]). Unknown names are ignored.
	SourceOrder []string `json:"source_order" yaml:"source_order"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// MaxAbstractChars caps the normalized abstract length (default 2000).
	MaxAbstractChars int `json:"max_abstract_chars" yaml:"max_abstract_chars"`
}

// ScrapeConfig holds settings for the lab-context scraper.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxCandidates is how many search results to consider (default 5).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// MaxPageBytes caps the fetched page body size (default 2 MiB).
	MaxPageBytes int64 `json:"max_page_bytes" yaml:"max_page_bytes"`

	// MaxContextChars caps the extracted text length (default 1500).
	MaxContextChars int `json:"max_context_chars" yaml:"max_context_chars"`

	// PreferredDomains are domain suffixes favored when ranking search
	// candidates (default [".edu", ".ac.uk", ".edu.au"]).
	PreferredDomains []string `json:"preferred_domains" yaml:"preferred_domains"`
}

// ComposeConfig holds settings for the prompt composer.
type ComposeConfig struct {
	// MaxPromptChars is the overall prompt length budget (default 8000).
	MaxPromptChars int `json:"max_prompt_chars" yaml:"max_prompt_chars"`
}

// GenerationConfig holds settings for the generative model client.
type GenerationConfig struct {
	// Model is the model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the model service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts after the first call
	// fails transiently (default 2, i.e. 3 attempts total).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// MaxOutputTokens caps the response length (default 2048).
	MaxOutputTokens int32 `json:"max_output_tokens" yaml:"max_output_tokens"`
}

// StoreConfig holds settings for the draft store.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// FeedConfig holds settings for the opportunity feed.
type FeedConfig struct {
	// Topic is the arXiv query the feed is built from
	// (default "artificial intelligence").
	Topic string `json:"topic" yaml:"topic"`

	// Domain is the label attached to generated opportunities
	// (default "AI & Machine Learning").
	Domain string `json:"domain" yaml:"domain"`

	// MaxPapers is how many recent papers to process (default 5).
	MaxPapers int `json:"max_papers" yaml:"max_papers"`
}

// PipelineConfig groups all stage configurations for one pipeline.
type PipelineConfig struct {
	Metadata   MetadataConfig   `json:"metadata" yaml:"metadata"`
	Scrape     ScrapeConfig     `json:"scrape" yaml:"scrape"`
	Compose    ComposeConfig    `json:"compose" yaml:"compose"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	RateLimit  RateLimitConfig  `json:"rate_limit" yaml:"rate_limit"`

	// Timeout is the per-invocation wall-clock budget (default 90s).
	// When exceeded the orchestrator cancels outstanding calls and
	// returns a timeout failure.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}
