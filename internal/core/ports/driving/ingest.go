package driving

import "context"

// RunOutcome classifies how a pipeline run ended.
type RunOutcome string

const (
	// OutcomeCompleted means the item went through every stage.
	OutcomeCompleted RunOutcome = "completed"

	// OutcomeDuplicate means the fingerprint matched a completed item and
	// the run short-circuited by copying its derived fields.
	OutcomeDuplicate RunOutcome = "duplicate"

	// OutcomeFailed means a fatal stage failure aborted the run.
	OutcomeFailed RunOutcome = "failed"
)

// RunResult summarises one pipeline run.
type RunResult struct {
	// ItemID is the processed item.
	ItemID string

	// Outcome classifies the run.
	Outcome RunOutcome

	// Reason carries the diagnostic message for failed runs.
	Reason string

	// SoftFailures lists stages that degraded without aborting the run
	// (captioning, transcription, embedding, per-frame extraction).
	SoftFailures []string
}

// Ingestor drives items through the ingestion pipeline.
type Ingestor interface {
	// Run executes one full pipeline run for the item, synchronously.
	// The item must exist, have a source URL, and not be mid-run.
	Run(ctx context.Context, itemID string) (*RunResult, error)

	// Reprocess atomically clears all derived fields, resets the item to
	// PENDING and re-enqueues it. Allowed from any terminal status.
	Reprocess(ctx context.Context, itemID string) error

	// Enqueue hands the item to the worker pool for asynchronous
	// processing. It never blocks.
	Enqueue(itemID string)
}
