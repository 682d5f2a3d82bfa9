package acquisition

import (
	"context"
	"strings"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
)

// Ensure Mux implements the interface.
var _ driven.Acquirer = (*Mux)(nil)

// Mux dispatches acquisition calls by URL scheme.
type Mux struct {
	local  driven.Acquirer
	remote driven.Acquirer
}

// NewMux creates the scheme router. local handles file:// URLs, remote
// handles everything else.
func NewMux(local, remote driven.Acquirer) *Mux {
	return &Mux{local: local, remote: remote}
}

// Acquire routes to the backend for the URL's scheme.
func (m *Mux) Acquire(ctx context.Context, sourceURL, destDir string) (*domain.AcquiredMedia, error) {
	return m.pick(sourceURL).Acquire(ctx, sourceURL, destDir)
}

// ExpandCollection routes to the backend for the URL's scheme.
func (m *Mux) ExpandCollection(ctx context.Context, collectionURL string, maxEntries int) ([]string, error) {
	return m.pick(collectionURL).ExpandCollection(ctx, collectionURL, maxEntries)
}

func (m *Mux) pick(sourceURL string) driven.Acquirer {
	if strings.HasPrefix(sourceURL, "file://") {
		return m.local
	}
	return m.remote
}
