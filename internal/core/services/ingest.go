package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.Ingestor = (*IngestOrchestrator)(nil)

// IngestOrchestrator drives one item at a time through the pipeline:
// acquisition, fingerprint/dedup, representation extraction, enrichment,
// embedding, persistence. It owns the item record for the duration of a run;
// callers must not start a second run for the same id until the previous one
// reaches a terminal status.
type IngestOrchestrator struct {
	items       driven.ItemStore
	blobs       driven.BlobStore
	acquirer    driven.Acquirer
	extractor   driven.MediaExtractor
	captioner   driven.CaptionService
	transcriber driven.TranscriptionService
	embedder    driven.EmbeddingService

	cfg  domain.PipelineConfig
	pool *WorkerPool
}

// NewIngestOrchestrator creates the orchestrator. The captioner, transcriber
// and embedder are optional - when nil, the corresponding stage is skipped
// and its output field stays null.
func NewIngestOrchestrator(
	items driven.ItemStore,
	blobs driven.BlobStore,
	acquirer driven.Acquirer,
	extractor driven.MediaExtractor,
	captioner driven.CaptionService,
	transcriber driven.TranscriptionService,
	embedder driven.EmbeddingService,
	cfg domain.PipelineConfig,
) *IngestOrchestrator {
	return &IngestOrchestrator{
		items:       items,
		blobs:       blobs,
		acquirer:    acquirer,
		extractor:   extractor,
		captioner:   captioner,
		transcriber: transcriber,
		embedder:    embedder,
		cfg:         cfg,
	}
}

// SetPool attaches the worker pool used by Enqueue.
func (o *IngestOrchestrator) SetPool(pool *WorkerPool) {
	o.pool = pool
}

// Enqueue hands the item to the worker pool. Without a pool the run is
// executed on a fresh goroutine so the caller still never blocks.
func (o *IngestOrchestrator) Enqueue(itemID string) {
	if o.pool != nil {
		o.pool.Submit(itemID)
		return
	}
	go func() {
		if _, err := o.Run(context.Background(), itemID); err != nil {
			logger.Warn("Background run %s: %v", itemID, err)
		}
	}()
}

// Run executes one full pipeline run.
//
// Fatal stage failures (acquisition, blob upload, record writes) abort the
// run, set status FAILED and store the diagnostic in the AI description
// field. Soft failures (captioning, transcription, embedding, per-frame
// extraction) leave the affected field null and the run continues.
//
//nolint:gocyclo // Pipeline orchestration with necessary sequential stages
func (o *IngestOrchestrator) Run(ctx context.Context, itemID string) (*driving.RunResult, error) {
	item, err := o.items.Get(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if item.SourceURL == nil {
		return nil, domain.ErrMissingSourceURL
	}
	if !item.Status.CanStartRun() {
		return nil, domain.ErrRunInProgress
	}

	logger.Section("Ingestion Run")
	logger.Info("Item %s: starting run for %s", item.ID, *item.SourceURL)

	// A rerun after COMPLETED or FAILED must never mix output generations:
	// every derived field is reset before the first stage executes.
	item.ClearDerived()
	item.Status = domain.StatusProcessing
	// Committed immediately so the status is externally observable mid-run.
	if err := o.items.Update(ctx, item); err != nil {
		return nil, &domain.PersistenceError{Op: "mark processing", Err: err}
	}

	result := &driving.RunResult{ItemID: item.ID}

	scratch, err := os.MkdirTemp("", "memvault_")
	if err != nil {
		return o.fail(ctx, item, result, fmt.Sprintf("scratch dir: %v", err))
	}
	defer os.RemoveAll(scratch)

	// 1. ACQUIRE (fatal)
	acqCtx, cancel := context.WithTimeout(ctx, o.cfg.AcquireTimeout)
	media, err := o.acquirer.Acquire(acqCtx, *item.SourceURL, scratch)
	cancel()
	if err != nil {
		return o.fail(ctx, item, result, fmt.Sprintf("acquisition failed: %v", err))
	}
	if media.Title != "" {
		item.Title = &media.Title
	}

	// 2. FINGERPRINT + DUPLICATE SHORT-CIRCUIT
	fingerprint, err := FileFingerprint(media.LocalPath)
	if err != nil {
		return o.fail(ctx, item, result, fmt.Sprintf("fingerprint failed: %v", err))
	}
	item.Fingerprint = &fingerprint

	existing, err := o.items.FindByFingerprint(ctx, fingerprint, item.ID)
	switch {
	case err == nil:
		// Enrichment is the expensive step; a known fingerprint means it
		// already ran. Copy the completed record's derived fields instead.
		logger.Info("Item %s: duplicate of %s, short-circuiting", item.ID, existing.ID)
		title := item.Title
		item.CopyDerivedFrom(existing)
		item.Fingerprint = &fingerprint
		if item.Title == nil {
			item.Title = title
		}
		item.Status = domain.StatusCompleted
		if err := o.items.Update(ctx, item); err != nil {
			return o.fail(ctx, item, result, fmt.Sprintf("persist duplicate: %v", err))
		}
		result.Outcome = driving.OutcomeDuplicate
		return result, nil
	case !errors.Is(err, domain.ErrNotFound):
		return o.fail(ctx, item, result, fmt.Sprintf("fingerprint lookup: %v", err))
	}

	// 3. DURATION (soft)
	if seconds, ok := o.extractor.Duration(ctx, media.LocalPath); ok {
		item.DurationSeconds = &seconds
	} else if media.DurationSeconds > 0 {
		item.DurationSeconds = &media.DurationSeconds
	}

	// 4. BLOB UPLOAD (fatal)
	ext := filepath.Ext(media.LocalPath)
	if ext == "" {
		ext = ".mp4"
	}
	blobKey := "media/" + item.ID + ext
	if err := o.blobs.Put(ctx, blobKey, media.LocalPath); err != nil {
		return o.fail(ctx, item, result, fmt.Sprintf("blob upload failed: %v", err))
	}
	item.BlobKey = &blobKey

	// 5. FRAMES + CAPTION (soft)
	duration := 0
	if item.DurationSeconds != nil {
		duration = *item.DurationSeconds
	}
	frames := o.extractor.ExtractFrames(ctx, media.LocalPath, scratch, duration, o.cfg.FrameCount)
	logger.Debug("Item %s: %d/%d frames extracted", item.ID, len(frames), o.cfg.FrameCount)
	if o.captioner != nil && len(frames) > 0 {
		capCtx, cancel := context.WithTimeout(ctx, o.cfg.EnrichTimeout)
		caption, err := o.captioner.Caption(capCtx, frames)
		cancel()
		if err != nil {
			result.SoftFailures = append(result.SoftFailures, "caption")
			logger.Warn("Item %s: caption failed: %v", item.ID, err)
		} else if caption != "" {
			item.DescriptionAI = &caption
		}
	}

	// 6. TRANSCRIPTION (soft)
	if o.transcriber != nil && o.cfg.EnableTranscription {
		if audioPath := o.extractor.ExtractAudio(ctx, media.LocalPath, scratch); audioPath != "" {
			trCtx, cancel := context.WithTimeout(ctx, o.cfg.EnrichTimeout)
			transcript, err := o.transcriber.Transcribe(trCtx, audioPath, o.cfg.Language)
			cancel()
			if err != nil {
				result.SoftFailures = append(result.SoftFailures, "transcription")
				logger.Warn("Item %s: transcription failed: %v", item.ID, err)
			} else if transcript != "" {
				item.Transcript = &transcript
			}
		} else {
			result.SoftFailures = append(result.SoftFailures, "audio extraction")
		}
	}

	// 7. EMBEDDING (soft)
	if o.embedder != nil {
		text := domain.ComposeEmbeddingText(
			domain.StringValue(item.Title),
			domain.StringValue(item.DescriptionAI),
			domain.StringValue(item.Transcript),
			item.Tags,
		)
		if text != "" {
			embCtx, cancel := context.WithTimeout(ctx, o.cfg.EnrichTimeout)
			vector, err := o.embedder.Embed(embCtx, text)
			cancel()
			if err != nil {
				result.SoftFailures = append(result.SoftFailures, "embedding")
				logger.Warn("Item %s: embedding failed: %v", item.ID, err)
			} else {
				item.Embedding = vector
			}
		}
	}

	// 8. FINAL PERSIST (fatal)
	item.Status = domain.StatusCompleted
	if err := o.items.Update(ctx, item); err != nil {
		return o.fail(ctx, item, result, fmt.Sprintf("persist failed: %v", err))
	}

	logger.Info("Item %s: completed (%d soft failures)", item.ID, len(result.SoftFailures))
	result.Outcome = driving.OutcomeCompleted
	return result, nil
}

// Reprocess atomically clears derived fields, resets the item to PENDING and
// re-enqueues it. Allowed from COMPLETED, FAILED or PENDING - never mid-run.
func (o *IngestOrchestrator) Reprocess(ctx context.Context, itemID string) error {
	item, err := o.items.Get(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if !item.Status.CanStartRun() {
		return domain.ErrRunInProgress
	}
	if item.SourceURL == nil {
		return domain.ErrMissingSourceURL
	}

	item.ClearDerived()
	item.Status = domain.StatusPending
	if err := o.items.Update(ctx, item); err != nil {
		return &domain.PersistenceError{Op: "reset for reprocess", Err: err}
	}

	logger.Info("Item %s: reset to PENDING, re-enqueued", item.ID)
	o.Enqueue(itemID)
	return nil
}

// fail records a fatal stage failure: status FAILED, diagnostic stored in
// place of the AI description. The record write is best-effort - the run is
// already lost at this point.
func (o *IngestOrchestrator) fail(
	ctx context.Context,
	item *domain.Item,
	result *driving.RunResult,
	reason string,
) (*driving.RunResult, error) {
	logger.Warn("Item %s: %s", item.ID, reason)
	item.Status = domain.StatusFailed
	item.DescriptionAI = &reason
	if err := o.items.Update(ctx, item); err != nil {
		logger.Warn("Item %s: could not record failure: %v", item.ID, err)
	}
	result.Outcome = driving.OutcomeFailed
	result.Reason = reason
	return result, nil
}
