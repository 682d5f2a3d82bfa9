// Package file provides TOML-based configuration loading. Settings live in
// a single config.toml under the memvault home directory; every field has a
// working default so a missing file is not an error.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
)

// Settings is the full on-disk configuration.
type Settings struct {
	// DataDir holds the metadata database. Empty means ~/.memvault/data.
	DataDir string `toml:"data_dir"`

	// BlobDir holds stored media. Empty means ~/.memvault/blobs.
	BlobDir string `toml:"blob_dir"`

	OpenAI   OpenAISettings   `toml:"openai"`
	Pipeline PipelineSettings `toml:"pipeline"`
	Search   SearchSettings   `toml:"search"`
	Watch    WatchSettings    `toml:"watch"`
}

// OpenAISettings configures the enrichment services.
type OpenAISettings struct {
	// APIKey authenticates against the API. The OPENAI_API_KEY
	// environment variable takes precedence over the file.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the API endpoint for compatible providers.
	BaseURL string `toml:"base_url"`

	// EmbeddingModel, CaptionModel and TranscriptionModel override the
	// per-service defaults.
	EmbeddingModel     string `toml:"embedding_model"`
	CaptionModel       string `toml:"caption_model"`
	TranscriptionModel string `toml:"transcription_model"`

	// RequestsPerMinute throttles outbound API calls per service.
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// PipelineSettings configures ingestion.
type PipelineSettings struct {
	FrameCount          int    `toml:"frame_count"`
	EnableTranscription bool   `toml:"enable_transcription"`
	Language            string `toml:"language"`
	WorkerCount         int    `toml:"worker_count"`
	AcquireTimeoutSecs  int    `toml:"acquire_timeout_seconds"`
	EnrichTimeoutSecs   int    `toml:"enrich_timeout_seconds"`
}

// SearchSettings configures the ranking engine defaults.
type SearchSettings struct {
	VectorWeight   float64 `toml:"vector_weight"`
	LexicalWeight  float64 `toml:"lexical_weight"`
	DefaultLimit   int     `toml:"default_limit"`
	ReadURLTTLSecs int     `toml:"read_url_ttl_seconds"`
}

// WatchSettings configures the drop-folder watcher.
type WatchSettings struct {
	// Dir is the folder watched for new media files. Empty disables watching.
	Dir string `toml:"dir"`

	// FolderID is assigned to items ingested from the drop folder.
	FolderID string `toml:"folder_id"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	pipeline := domain.DefaultPipelineConfig()
	ranking := domain.DefaultRankingConfig()
	return Settings{
		Pipeline: PipelineSettings{
			FrameCount:          pipeline.FrameCount,
			EnableTranscription: pipeline.EnableTranscription,
			Language:            pipeline.Language,
			WorkerCount:         pipeline.WorkerCount,
			AcquireTimeoutSecs:  int(pipeline.AcquireTimeout.Seconds()),
			EnrichTimeoutSecs:   int(pipeline.EnrichTimeout.Seconds()),
		},
		Search: SearchSettings{
			VectorWeight:   ranking.VectorWeight,
			LexicalWeight:  ranking.LexicalWeight,
			DefaultLimit:   ranking.DefaultLimit,
			ReadURLTTLSecs: int(ranking.ReadURLTTL.Seconds()),
		},
	}
}

// Load reads settings from configDir/config.toml, layered over the defaults.
// If configDir is empty, defaults to ~/.memvault. A missing file yields the
// defaults; a malformed file is an error.
func Load(configDir string) (*Settings, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".memvault")
	}

	settings := DefaultSettings()

	data, err := os.ReadFile(filepath.Join(configDir, "config.toml"))
	switch {
	case os.IsNotExist(err):
		// No file yet - defaults apply.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		settings.OpenAI.APIKey = key
	}

	return &settings, nil
}

// PipelineConfig maps the settings into the domain pipeline configuration.
func (s *Settings) PipelineConfig() domain.PipelineConfig {
	cfg := domain.DefaultPipelineConfig()
	if s.Pipeline.FrameCount > 0 {
		cfg.FrameCount = s.Pipeline.FrameCount
	}
	cfg.EnableTranscription = s.Pipeline.EnableTranscription
	if s.Pipeline.Language != "" {
		cfg.Language = s.Pipeline.Language
	}
	if s.Pipeline.WorkerCount > 0 {
		cfg.WorkerCount = s.Pipeline.WorkerCount
	}
	if s.Pipeline.AcquireTimeoutSecs > 0 {
		cfg.AcquireTimeout = time.Duration(s.Pipeline.AcquireTimeoutSecs) * time.Second
	}
	if s.Pipeline.EnrichTimeoutSecs > 0 {
		cfg.EnrichTimeout = time.Duration(s.Pipeline.EnrichTimeoutSecs) * time.Second
	}
	return cfg
}

// RankingConfig maps the settings into the domain ranking configuration.
func (s *Settings) RankingConfig() domain.RankingConfig {
	cfg := domain.DefaultRankingConfig()
	if s.Search.VectorWeight > 0 {
		cfg.VectorWeight = s.Search.VectorWeight
	}
	if s.Search.LexicalWeight > 0 {
		cfg.LexicalWeight = s.Search.LexicalWeight
	}
	if s.Search.DefaultLimit > 0 {
		cfg.DefaultLimit = s.Search.DefaultLimit
	}
	if s.Search.ReadURLTTLSecs > 0 {
		cfg.ReadURLTTL = time.Duration(s.Search.ReadURLTTLSecs) * time.Second
	}
	return cfg
}
