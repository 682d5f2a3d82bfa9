// Package watch ingests media dropped into a local folder. New files are
// registered as items with file:// source URLs and handed to the ingestion
// pipeline.
package watch

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/acquisition/localfile"
	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

// settlePollInterval is how often a growing file is re-checked before it is
// considered fully written.
const settlePollInterval = 500 * time.Millisecond

// settleChecks is how many consecutive stable size checks a file needs.
const settleChecks = 2

// Registrar is the subset of the item lifecycle the watcher needs.
type Registrar interface {
	Register(ctx context.Context, sourceURL string, folderID *string) (*domain.Item, error)
}

// Watcher turns filesystem events in one directory into ingestion jobs.
type Watcher struct {
	dir      string
	folderID *string
	items    Registrar
	ingestor driving.Ingestor

	fsw *fsnotify.Watcher
}

// NewWatcher creates a watcher over dir. Items it registers are placed in
// folderID (may be nil).
func NewWatcher(dir string, folderID *string, items Registrar, ingestor driving.Ingestor) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		dir:      dir,
		folderID: folderID,
		items:    items,
		ingestor: ingestor,
		fsw:      fsw,
	}, nil
}

// Run processes events until the context is cancelled. Non-media files and
// subdirectories are ignored.
func (w *Watcher) Run(ctx context.Context) error {
	logger.Info("Watching %s for new media", w.dir)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !localfile.IsMediaFile(event.Name) {
				continue
			}
			w.handle(ctx, event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) handle(ctx context.Context, path string) {
	if !waitForSettle(ctx, path) {
		logger.Warn("Dropped file %s vanished before it settled", path)
		return
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	item, err := w.items.Register(ctx, u.String(), w.folderID)
	if err != nil {
		logger.Warn("Registering dropped file %s: %v", path, err)
		return
	}

	logger.Info("Dropped file %s registered as %s", filepath.Base(path), item.ID)
	w.ingestor.Enqueue(item.ID)
}

// waitForSettle waits until the file size stops changing, so a copy still in
// progress is not ingested half-written.
func waitForSettle(ctx context.Context, path string) bool {
	var lastSize int64 = -1
	stable := 0
	for {
		info, err := os.Stat(path)
		if err != nil {
			return false
		}
		if info.Size() == lastSize {
			stable++
			if stable >= settleChecks {
				return true
			}
		} else {
			stable = 0
			lastSize = info.Size()
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(settlePollInterval):
		}
	}
}
