package domain

import "time"

// ItemStatus is the pipeline state of an item record.
type ItemStatus string

// Pipeline states. Transitions within a single run are monotonic:
// PENDING -> PROCESSING -> {COMPLETED | FAILED}. A fresh run may be
// started from PENDING or from either terminal status (rerunning a
// COMPLETED item first clears its derived fields), never mid-run.
const (
	StatusPending    ItemStatus = "PENDING"
	StatusProcessing ItemStatus = "PROCESSING"
	StatusCompleted  ItemStatus = "COMPLETED"
	StatusFailed     ItemStatus = "FAILED"
)

// Terminal reports whether the status ends a pipeline run.
func (s ItemStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanStartRun reports whether a fresh pipeline run may begin from this
// status. Only a run already in flight blocks a new one.
func (s ItemStatus) CanStartRun() bool {
	return s == StatusPending || s.Terminal()
}

// Item is the unit processed by the ingestion pipeline and served by the
// ranking engine.
//
// Pointer fields are nullable columns. A nil pointer always means "null";
// there is no distinction between an explicit null and an absent field;
// Update writes the whole record and the orchestrator owns it during a run.
type Item struct {
	// ID is the opaque unique identifier, generated at creation, immutable.
	ID string

	// SourceURL is the original source location. Nullable once the media
	// has been deleted from its origin.
	SourceURL *string

	// BlobKey references the media bytes in blob storage.
	// Nil until upload succeeds.
	BlobKey *string

	// Fingerprint is the SHA-256 of the raw media bytes, used for
	// deduplication. Not unique-constrained: duplicate uploads are expected
	// to collide and are short-circuited by the orchestrator.
	Fingerprint *string

	// Title is taken from acquisition metadata. Overwritten on reprocess.
	Title *string

	// DescriptionManual is user-written text, never touched by the pipeline.
	DescriptionManual *string

	// DescriptionAI is the caption produced by enrichment. On a fatal run
	// failure it instead carries the human-readable failure reason.
	DescriptionAI *string

	// Transcript is the speech-to-text output. Best-effort, may stay nil.
	Transcript *string

	// Embedding is the fixed-dimension vector representation.
	// Nil until embedding succeeds.
	Embedding []float32

	// DurationSeconds is the media duration. Nil when probing failed.
	DurationSeconds *int

	// FolderID places the item in a container for scoped search.
	FolderID *string

	// Tags are user-assigned labels, folded into the embedding text.
	Tags []string

	// Status is the pipeline state.
	Status ItemStatus

	// CreatedAt is immutable, set at creation.
	CreatedAt time.Time
}

// ClearDerived resets every pipeline-produced field so a fresh run never
// mixes output generations. Manual fields (DescriptionManual, FolderID,
// Tags) and identity fields survive.
func (it *Item) ClearDerived() {
	it.BlobKey = nil
	it.Fingerprint = nil
	it.Title = nil
	it.DescriptionAI = nil
	it.Transcript = nil
	it.Embedding = nil
	it.DurationSeconds = nil
}

// CopyDerivedFrom copies the derived fields of a completed duplicate so the
// expensive enrichment stages can be skipped entirely.
func (it *Item) CopyDerivedFrom(other *Item) {
	it.BlobKey = other.BlobKey
	it.Title = other.Title
	it.DescriptionAI = other.DescriptionAI
	it.Transcript = other.Transcript
	it.DurationSeconds = other.DurationSeconds
	it.Embedding = other.Embedding
}

// StringValue returns the dereferenced string or "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
