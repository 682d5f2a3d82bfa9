package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
)

// fakeAcquirer writes a file with the configured content into destDir so the
// fingerprint stage has real bytes to hash.
type fakeAcquirer struct {
	content    string
	title      string
	duration   int
	err        error
	collection []string
	expandErr  error

	mu    sync.Mutex
	calls int
}

var _ driven.Acquirer = (*fakeAcquirer)(nil)

func (a *fakeAcquirer) Acquire(_ context.Context, sourceURL, destDir string) (*domain.AcquiredMedia, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.err != nil {
		return nil, &domain.AcquisitionError{URL: sourceURL, Err: a.err}
	}
	path := filepath.Join(destDir, "media.mp4")
	if err := os.WriteFile(path, []byte(a.content), 0o600); err != nil {
		return nil, &domain.AcquisitionError{URL: sourceURL, Err: err}
	}
	return &domain.AcquiredMedia{
		LocalPath:       path,
		Title:           a.title,
		DurationSeconds: a.duration,
	}, nil
}

func (a *fakeAcquirer) ExpandCollection(_ context.Context, _ string, maxEntries int) ([]string, error) {
	if a.expandErr != nil {
		return nil, a.expandErr
	}
	urls := a.collection
	if maxEntries > 0 && len(urls) > maxEntries {
		urls = urls[:maxEntries]
	}
	return urls, nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string]string
	putErr  error
	deleted []string
}

var _ driven.BlobStore = (*fakeBlobStore)(nil)

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string]string)}
}

func (b *fakeBlobStore) Put(_ context.Context, key, localPath string) error {
	if b.putErr != nil {
		return b.putErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = localPath
	return nil
}

func (b *fakeBlobStore) GetReadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[key]; !ok {
		return "", errors.New("no such blob")
	}
	return "https://blobs.test/" + key, nil
}

func (b *fakeBlobStore) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	b.deleted = append(b.deleted, key)
	return nil
}

type fakeExtractor struct {
	duration    int
	hasDuration bool
	frames      []string
	audioPath   string
}

var _ driven.MediaExtractor = (*fakeExtractor)(nil)

func (e *fakeExtractor) Duration(_ context.Context, _ string) (int, bool) {
	return e.duration, e.hasDuration
}

func (e *fakeExtractor) ExtractFrames(_ context.Context, _, _ string, _, _ int) []string {
	return e.frames
}

func (e *fakeExtractor) ExtractAudio(_ context.Context, _, _ string) string {
	return e.audioPath
}

type fakeCaptioner struct {
	caption string
	err     error

	mu         sync.Mutex
	calls      int
	lastFrames []string
}

var _ driven.CaptionService = (*fakeCaptioner)(nil)

func (c *fakeCaptioner) Caption(_ context.Context, framePaths []string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.lastFrames = framePaths
	c.mu.Unlock()
	return c.caption, c.err
}

func (c *fakeCaptioner) Close() error { return nil }

type fakeTranscriber struct {
	transcript string
	err        error

	mu    sync.Mutex
	calls int
}

var _ driven.TranscriptionService = (*fakeTranscriber)(nil)

func (t *fakeTranscriber) Transcribe(_ context.Context, _, _ string) (string, error) {
	t.mu.Lock()
	t.calls++
	t.mu.Unlock()
	return t.transcript, t.err
}

func (t *fakeTranscriber) Close() error { return nil }

type fakeEmbedder struct {
	vector []float32
	err    error

	mu       sync.Mutex
	calls    int
	lastText string
}

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

func (e *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.lastText = text
	e.mu.Unlock()
	if text == "" {
		return nil, domain.ErrEmptyEmbedText
	}
	return e.vector, e.err
}

func (e *fakeEmbedder) Dimensions() int   { return len(e.vector) }
func (e *fakeEmbedder) ModelName() string { return "test-embedding" }
func (e *fakeEmbedder) Close() error      { return nil }

// failingStore wraps an ItemStore and fails Update after a number of
// successful calls.
type failingStore struct {
	driven.ItemStore

	mu              sync.Mutex
	updatesLeft     int
	updateErrAfter  error
	updateCallCount int
}

func (s *failingStore) Update(ctx context.Context, item *domain.Item) error {
	s.mu.Lock()
	s.updateCallCount++
	fail := s.updateCallCount > s.updatesLeft
	s.mu.Unlock()
	if fail {
		return s.updateErrAfter
	}
	return s.ItemStore.Update(ctx, item)
}
