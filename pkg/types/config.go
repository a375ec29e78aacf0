// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "artist-resolver/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ResolveConfig holds settings for artist resolution.
type ResolveConfig struct {
	HTTPConfig `yaml:",inline"`

	// PerPage caps the number of search hits requested per query (default 5).
	PerPage int `json:"per_page" yaml:"per_page"`

	// MaxRetries is the retry budget for failed or rate-limited requests
	// (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// HistoryConfig holds settings for the resolution history store.
type HistoryConfig struct {
	// HistoryDir is the directory holding the history database.
	HistoryDir string `json:"history_dir" yaml:"history_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all artist-resolver configuration.
type Config struct {
	Resolve ResolveConfig `json:"resolve" yaml:"resolve"`
	History HistoryConfig `json:"history" yaml:"history"`
}
