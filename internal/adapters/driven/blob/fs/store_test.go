package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutAndReadURL(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "media.mp4")
	require.NoError(t, os.WriteFile(src, []byte("video-bytes"), 0o600))

	require.NoError(t, store.Put(ctx, "media/item-1.mp4", src))

	url, err := store.GetReadURL(ctx, "media/item-1.mp4", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"), "got %q", url)

	stored, err := os.ReadFile(filepath.Join(store.Root(), "media", "item-1.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(stored))
}

func TestStore_PutOverwrites(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	dir := t.TempDir()

	first := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(first, []byte("one"), 0o600))
	second := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(second, []byte("two"), 0o600))

	require.NoError(t, store.Put(ctx, "media/x.mp4", first))
	require.NoError(t, store.Put(ctx, "media/x.mp4", second))

	stored, err := os.ReadFile(filepath.Join(store.Root(), "media", "x.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(stored))
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "media.mp4")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o600))
	require.NoError(t, store.Put(ctx, "media/item-1.mp4", src))

	require.NoError(t, store.Delete(ctx, "media/item-1.mp4"))
	_, err = store.GetReadURL(ctx, "media/item-1.mp4", time.Hour)
	assert.Error(t, err)

	// Missing keys delete cleanly.
	assert.NoError(t, store.Delete(ctx, "media/item-1.mp4"))
}

func TestStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Put(ctx, "../outside", "/dev/null")
	assert.Error(t, err)

	err = store.Delete(ctx, "")
	assert.Error(t, err)
}
