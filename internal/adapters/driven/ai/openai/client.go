// Package openai provides enrichment service adapters backed by the OpenAI
// API: vision captioning, Whisper transcription and text embeddings.
package openai

import (
	"time"

	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 60 * time.Second

	// DefaultRequestsPerMinute caps outbound API calls per service.
	DefaultRequestsPerMinute = 60
)

// Config holds the shared connection settings for the OpenAI services.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model overrides the service's default model.
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerMinute throttles outbound calls (default: 60).
	RequestsPerMinute int
}

// normalize fills config defaults in place.
func (c *Config) normalize(defaultModel string) {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = DefaultRequestsPerMinute
	}
}

// newLimiter builds the per-service request throttle.
func newLimiter(requestsPerMinute int) *rate.Limiter {
	interval := time.Minute / time.Duration(requestsPerMinute)
	return rate.NewLimiter(rate.Every(interval), 1)
}

// apiError is the error envelope OpenAI responses may carry.
type apiError struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}
