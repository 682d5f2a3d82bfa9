package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingSourceURL indicates a run was requested for an item
	// that has no source URL to acquire from.
	ErrMissingSourceURL = errors.New("item has no source URL")

	// ErrRunInProgress indicates a pipeline run is already active for the item.
	// Callers must wait for a terminal status before starting a fresh run.
	ErrRunInProgress = errors.New("ingestion run in progress")

	// ErrEmptyEmbedText indicates an embedding was requested for empty text.
	// Empty text must never be embedded.
	ErrEmptyEmbedText = errors.New("cannot embed empty text")

	// ErrUnsupportedMode indicates an unknown search mode selector.
	// Unlike malformed queries, a bad mode is rejected at the boundary.
	ErrUnsupportedMode = errors.New("unsupported search mode")

	// ErrNegativeWeight indicates a caller-supplied fusion weight below zero.
	ErrNegativeWeight = errors.New("fusion weights must be non-negative")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. All ranking modes are vector-driven and need it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrToolUnavailable indicates a required external executable
	// (yt-dlp, ffmpeg, ffprobe) was not found on the system.
	ErrToolUnavailable = errors.New("external tool unavailable")

	// ErrEmptyCollection indicates a collection URL expanded to no entries.
	ErrEmptyCollection = errors.New("collection has no entries")
)

// AcquisitionError is a fatal pipeline failure: the source URL could not be
// resolved into local media. It aborts the run and marks the item FAILED.
type AcquisitionError struct {
	URL string
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquire %s: %v", e.URL, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// PersistenceError is a fatal pipeline failure: the record or blob could not
// be written. It aborts the run and marks the item FAILED.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
