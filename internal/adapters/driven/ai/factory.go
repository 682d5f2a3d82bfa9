// Package ai assembles the enrichment service adapters.
package ai

import (
	"fmt"

	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/ai/openai"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
)

// Config selects the models for the enrichment services. An empty APIKey
// means enrichment is off; NewServices then returns nil services.
type Config struct {
	APIKey             string
	BaseURL            string
	EmbeddingModel     string
	CaptionModel       string
	TranscriptionModel string
	RequestsPerMinute  int
}

// Services bundles the enrichment capabilities the pipeline consumes.
// Any field may be nil; the pipeline degrades per capability.
type Services struct {
	Captioner   driven.CaptionService
	Transcriber driven.TranscriptionService
	Embedder    driven.EmbeddingService
}

// Close releases resources held by the services.
func (s *Services) Close() {
	if s.Embedder != nil {
		s.Embedder.Close()
	}
}

// NewServices builds the caption, transcription and embedding adapters
// from one shared credential. Without an API key it returns an empty
// bundle rather than an error: items are still ingested, just without
// derived fields.
func NewServices(cfg Config) (*Services, error) {
	if cfg.APIKey == "" {
		return &Services{}, nil
	}

	base := openai.Config{
		APIKey:            cfg.APIKey,
		BaseURL:           cfg.BaseURL,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}

	captionCfg := base
	captionCfg.Model = cfg.CaptionModel
	captioner, err := openai.NewCaptionService(captionCfg)
	if err != nil {
		return nil, fmt.Errorf("caption service: %w", err)
	}

	transcribeCfg := base
	transcribeCfg.Model = cfg.TranscriptionModel
	transcriber, err := openai.NewTranscriptionService(transcribeCfg)
	if err != nil {
		return nil, fmt.Errorf("transcription service: %w", err)
	}

	embedCfg := base
	embedCfg.Model = cfg.EmbeddingModel
	embedder, err := openai.NewEmbeddingService(embedCfg)
	if err != nil {
		return nil, fmt.Errorf("embedding service: %w", err)
	}

	return &Services{
		Captioner:   captioner,
		Transcriber: transcriber,
		Embedder:    embedder,
	}, nil
}
