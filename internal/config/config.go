// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RosterPath points at the YAML expert roster file.
	RosterPath string `koanf:"roster_path"`

	// WorkerCount sets the number of concurrent scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxResults caps the individual expert list per match (0 = all).
	MaxResults int `koanf:"max_results"`

	// MaxSessions bounds the number of live team sessions.
	MaxSessions int `koanf:"max_sessions"`

	// EmbedTimeoutMS bounds a single embedding provider call.
	EmbedTimeoutMS int `koanf:"embed_timeout_ms"`

	// Extractor selects the semantic extraction backend: gemini or keyword.
	Extractor string `koanf:"extractor"`

	// Embedder selects the embedding backend: gemini, static, or none.
	Embedder string `koanf:"embedder"`

	// GeminiAPIKey authenticates against the Gemini API. Falls back to the
	// GEMINI_API_KEY environment variable when empty.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel names the generative model used for extraction.
	GeminiModel string `koanf:"gemini_model"`

	// GeminiEmbedModel names the embedding model.
	GeminiEmbedModel string `koanf:"gemini_embed_model"`

	// StaticEmbedDim sets the vector dimension of the static embedder.
	StaticEmbedDim int `koanf:"static_embed_dim"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		RosterPath:       "roster.yaml",
		WorkerCount:      runtime.NumCPU() * 2,
		MaxResults:       20,
		MaxSessions:      1000,
		EmbedTimeoutMS:   5000,
		Extractor:        "gemini",
		Embedder:         "gemini",
		GeminiModel:      "gemini-2.0-flash",
		GeminiEmbedModel: "gemini-embedding-001",
		StaticEmbedDim:   256,
	}
}
