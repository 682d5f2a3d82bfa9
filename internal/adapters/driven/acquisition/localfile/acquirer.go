// Package localfile acquires media from file:// URLs, serving drop-folder
// ingestion and imports from local disk.
package localfile

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
)

// mediaExtensions lists the file types considered media when expanding a
// directory.
var mediaExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".gif":  true,
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
}

// Ensure Acquirer implements the interface.
var _ driven.Acquirer = (*Acquirer)(nil)

// Acquirer copies local files into the pipeline scratch directory.
type Acquirer struct{}

// NewAcquirer creates the local-file acquirer.
func NewAcquirer() *Acquirer {
	return &Acquirer{}
}

// Acquire copies the file behind a file:// URL into destDir. The title is
// derived from the file name; duration stays unknown and is left to the
// extractor probe.
func (a *Acquirer) Acquire(ctx context.Context, sourceURL, destDir string) (*domain.AcquiredMedia, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.AcquisitionError{URL: sourceURL, Err: err}
	}

	srcPath, err := PathFromURL(sourceURL)
	if err != nil {
		return nil, &domain.AcquisitionError{URL: sourceURL, Err: err}
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return nil, &domain.AcquisitionError{URL: sourceURL, Err: err}
	}
	defer src.Close()

	destPath := filepath.Join(destDir, filepath.Base(srcPath))
	dest, err := os.Create(destPath)
	if err != nil {
		return nil, &domain.AcquisitionError{URL: sourceURL, Err: err}
	}
	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		return nil, &domain.AcquisitionError{URL: sourceURL, Err: err}
	}
	if err := dest.Close(); err != nil {
		return nil, &domain.AcquisitionError{URL: sourceURL, Err: err}
	}

	return &domain.AcquiredMedia{
		LocalPath: destPath,
		Title:     TitleFromPath(srcPath),
		SourceID:  srcPath,
	}, nil
}

// ExpandCollection treats a file:// URL pointing at a directory as a
// collection and returns its media files as file:// URLs, sorted by name.
func (a *Acquirer) ExpandCollection(ctx context.Context, collectionURL string, maxEntries int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := PathFromURL(collectionURL)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading collection directory: %w", err)
	}

	var urls []string
	for _, entry := range entries {
		if entry.IsDir() || !IsMediaFile(entry.Name()) {
			continue
		}
		if maxEntries > 0 && len(urls) >= maxEntries {
			break
		}
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(dir, entry.Name()))}
		urls = append(urls, u.String())
	}
	sort.Strings(urls)
	return urls, nil
}

// PathFromURL resolves a file:// URL (or plain path) to a filesystem path.
func PathFromURL(sourceURL string) (string, error) {
	if !strings.HasPrefix(sourceURL, "file://") {
		if sourceURL == "" {
			return "", fmt.Errorf("empty source URL")
		}
		return sourceURL, nil
	}
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return "", fmt.Errorf("parsing file URL: %w", err)
	}
	if parsed.Path == "" {
		return "", fmt.Errorf("file URL %q has no path", sourceURL)
	}
	return filepath.FromSlash(parsed.Path), nil
}

// TitleFromPath derives a display title from the file name, without its
// extension.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsMediaFile reports whether the file name has a recognized media extension.
func IsMediaFile(name string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(name))]
}
