package acquisition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
)

type recordingAcquirer struct {
	name     string
	acquired []string
	expanded []string
}

func (r *recordingAcquirer) Acquire(_ context.Context, sourceURL, _ string) (*domain.AcquiredMedia, error) {
	r.acquired = append(r.acquired, sourceURL)
	return &domain.AcquiredMedia{LocalPath: "/tmp/" + r.name}, nil
}

func (r *recordingAcquirer) ExpandCollection(_ context.Context, collectionURL string, _ int) ([]string, error) {
	r.expanded = append(r.expanded, collectionURL)
	return nil, nil
}

func TestMux_RoutesByScheme(t *testing.T) {
	local := &recordingAcquirer{name: "local"}
	remote := &recordingAcquirer{name: "remote"}
	mux := NewMux(local, remote)
	ctx := context.Background()

	media, err := mux.Acquire(ctx, "file:///tmp/clip.mp4", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/local", media.LocalPath)

	_, err = mux.Acquire(ctx, "https://example.com/v/1", t.TempDir())
	require.NoError(t, err)

	_, err = mux.ExpandCollection(ctx, "https://example.com/list/1", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"file:///tmp/clip.mp4"}, local.acquired)
	assert.Equal(t, []string{"https://example.com/v/1"}, remote.acquired)
	assert.Equal(t, []string{"https://example.com/list/1"}, remote.expanded)
}
