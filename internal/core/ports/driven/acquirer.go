package driven

import (
	"context"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
)

// Acquirer resolves media URLs via an external fetch capability.
//
// Implementations may include:
//   - yt-dlp for platform URLs (best quality constrained by ffmpeg presence)
//   - local file resolution for file:// URLs
type Acquirer interface {
	// Acquire resolves a single playable-media URL into a file under
	// destDir. Failures are returned as *domain.AcquisitionError.
	Acquire(ctx context.Context, sourceURL, destDir string) (*domain.AcquiredMedia, error)

	// ExpandCollection enumerates up to maxEntries member URLs of a
	// playlist/collection URL without downloading them. Bare ids are
	// normalized into fully-qualified item URLs; unusable entries are
	// skipped rather than failing the expansion.
	ExpandCollection(ctx context.Context, collectionURL string, maxEntries int) ([]string, error)
}
