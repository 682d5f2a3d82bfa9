package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/blob/fs"
	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memvault-cli/internal/core/services"
)

// stubIngestor records calls and completes every run.
type stubIngestor struct {
	mu          sync.Mutex
	ran         []string
	enqueued    []string
	reprocessed []string
}

var _ driving.Ingestor = (*stubIngestor)(nil)

func (s *stubIngestor) Run(_ context.Context, itemID string) (*driving.RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ran = append(s.ran, itemID)
	return &driving.RunResult{ItemID: itemID, Outcome: driving.OutcomeCompleted}, nil
}

func (s *stubIngestor) Reprocess(_ context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reprocessed = append(s.reprocessed, itemID)
	return nil
}

func (s *stubIngestor) Enqueue(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueued = append(s.enqueued, itemID)
}

// stubAcquirer expands collections into a fixed entry list.
type stubAcquirer struct {
	entries []string
}

var _ driven.Acquirer = (*stubAcquirer)(nil)

func (s *stubAcquirer) Acquire(_ context.Context, sourceURL, destDir string) (*domain.AcquiredMedia, error) {
	path := filepath.Join(destDir, "media.mp4")
	if err := os.WriteFile(path, []byte(sourceURL), 0o644); err != nil {
		return nil, err
	}
	return &domain.AcquiredMedia{LocalPath: path}, nil
}

func (s *stubAcquirer) ExpandCollection(_ context.Context, _ string, maxEntries int) ([]string, error) {
	if maxEntries > 0 && maxEntries < len(s.entries) {
		return s.entries[:maxEntries], nil
	}
	return s.entries, nil
}

// stubSearch returns canned results.
type stubSearch struct {
	results []domain.SearchResult
	lastOpt domain.SearchOptions
}

var _ driving.SearchService = (*stubSearch)(nil)

func (s *stubSearch) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	s.lastOpt = opts
	return s.results, nil
}

// setupTestServices wires the package services against throwaway storage.
func setupTestServices() func() {
	dir, err := os.MkdirTemp("", "memvault_cli_test_")
	if err != nil {
		panic(err)
	}

	st, err := sqlite.NewStore(dir)
	if err != nil {
		panic(err)
	}
	blobStore, err := fs.NewStore(filepath.Join(dir, "blobs"))
	if err != nil {
		panic(err)
	}

	defaults := file.DefaultSettings()
	settings = &defaults
	store = st
	blobs = blobStore
	itemService = services.NewItemService(st.ItemStore(), blobStore)
	ingestor = &stubIngestor{}
	importer = services.NewCollectionImporter(&stubAcquirer{}, itemService, ingestor)
	searchService = &stubSearch{}
	servicesReady = true

	return func() {
		closeServices()
		settings = nil
		itemService = nil
		ingestor = nil
		importer = nil
		searchService = nil
		os.RemoveAll(dir)
	}
}

// executeCommand runs the root command with args and captures the output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
