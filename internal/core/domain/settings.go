package domain

import "time"

// PipelineConfig controls the ingestion pipeline. It is passed explicitly
// into the orchestrator at construction; nothing reads ambient global state.
type PipelineConfig struct {
	// FrameCount is how many still frames are sampled per item (1..5).
	FrameCount int

	// EnableTranscription toggles the audio transcription stage.
	EnableTranscription bool

	// Language hints the transcription language (BCP-47-ish, e.g. "en").
	Language string

	// WorkerCount sizes the ingestion worker pool.
	WorkerCount int

	// AcquireTimeout bounds a single acquisition call. Expiry is fatal.
	AcquireTimeout time.Duration

	// EnrichTimeout bounds a single caption/transcription/embedding call.
	// Expiry is a soft failure.
	EnrichTimeout time.Duration
}

// RankingConfig controls the ranking engine defaults.
type RankingConfig struct {
	// VectorWeight and LexicalWeight are the hybrid fusion defaults used
	// when the caller does not override them.
	VectorWeight  float64
	LexicalWeight float64

	// DefaultLimit is the result count used when the caller passes none.
	DefaultLimit int

	// ReadURLTTL is the lifetime of blob read URLs attached to results.
	ReadURLTTL time.Duration
}

// DefaultPipelineConfig returns the pipeline defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		FrameCount:          3,
		EnableTranscription: true,
		Language:            "en",
		WorkerCount:         2,
		AcquireTimeout:      10 * time.Minute,
		EnrichTimeout:       2 * time.Minute,
	}
}

// DefaultRankingConfig returns the ranking defaults.
func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		VectorWeight:  DefaultVectorWeight,
		LexicalWeight: DefaultLexicalWeight,
		DefaultLimit:  10,
		ReadURLTTL:    time.Hour,
	}
}
