package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
)

func newItem(id, folderID string, status domain.ItemStatus, createdAt time.Time) domain.Item {
	return domain.Item{
		ID:        id,
		FolderID:  domain.StringPtr(folderID),
		Status:    status,
		CreatedAt: createdAt,
	}
}

func TestItemStore_CreateGet(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	item := newItem("item-1", "folder-1", domain.StatusPending, time.Now())
	require.NoError(t, store.Create(ctx, &item))

	got, err := store.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, "item-1", got.ID)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	empty := domain.Item{}
	assert.ErrorIs(t, store.Create(ctx, &empty), domain.ErrInvalidInput)
}

func TestItemStore_Update(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	item := newItem("item-1", "folder-1", domain.StatusPending, time.Now())
	require.NoError(t, store.Create(ctx, &item))

	item.Status = domain.StatusCompleted
	item.Title = domain.StringPtr("updated")
	require.NoError(t, store.Update(ctx, &item))

	got, err := store.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, "updated", domain.StringValue(got.Title))

	missing := newItem("missing", "folder-1", domain.StatusPending, time.Now())
	assert.ErrorIs(t, store.Update(ctx, &missing), domain.ErrNotFound)
}

func TestItemStore_Delete(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()

	item := newItem("item-1", "folder-1", domain.StatusPending, time.Now())
	require.NoError(t, store.Create(ctx, &item))
	require.NoError(t, store.Delete(ctx, "item-1"))

	_, err := store.Get(ctx, "item-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStore_FindByFingerprint(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()
	base := time.Now()

	older := newItem("older", "folder-1", domain.StatusCompleted, base.Add(-2*time.Hour))
	older.Fingerprint = domain.StringPtr("abc")
	newer := newItem("newer", "folder-1", domain.StatusCompleted, base.Add(-time.Hour))
	newer.Fingerprint = domain.StringPtr("abc")
	failed := newItem("failed", "folder-1", domain.StatusFailed, base.Add(-3*time.Hour))
	failed.Fingerprint = domain.StringPtr("abc")

	for _, item := range []domain.Item{older, newer, failed} {
		it := item
		require.NoError(t, store.Create(ctx, &it))
	}

	got, err := store.FindByFingerprint(ctx, "abc", "current")
	require.NoError(t, err)
	assert.Equal(t, "older", got.ID, "oldest completed match wins")

	got, err = store.FindByFingerprint(ctx, "abc", "older")
	require.NoError(t, err)
	assert.Equal(t, "newer", got.ID, "excluded id is skipped")

	_, err = store.FindByFingerprint(ctx, "nope", "current")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStore_ListByStatus(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()
	base := time.Now()

	older := newItem("older", "f1", domain.StatusPending, base.Add(-time.Hour))
	newer := newItem("newer", "f1", domain.StatusPending, base)
	done := newItem("done", "f1", domain.StatusCompleted, base)
	for _, item := range []domain.Item{older, newer, done} {
		it := item
		require.NoError(t, store.Create(ctx, &it))
	}

	items, err := store.ListByStatus(ctx, domain.StatusPending, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "older", items[0].ID, "oldest first")

	items, err = store.ListByStatus(ctx, domain.StatusPending, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "older", items[0].ID)
}

func TestItemStore_ListByScope(t *testing.T) {
	store := NewItemStore()
	ctx := context.Background()
	base := time.Now()

	a := newItem("a", "folder-1", domain.StatusCompleted, base.Add(-3*time.Hour))
	a.Embedding = []float32{0.1}
	b := newItem("b", "folder-1", domain.StatusCompleted, base.Add(-2*time.Hour))
	c := newItem("c", "folder-2", domain.StatusCompleted, base.Add(-time.Hour))
	c.Embedding = []float32{0.2}
	d := newItem("d", "folder-3", domain.StatusCompleted, base)
	d.Embedding = []float32{0.3}

	for _, item := range []domain.Item{a, b, c, d} {
		it := item
		require.NoError(t, store.Create(ctx, &it))
	}

	items, err := store.ListByScope(ctx, []string{"folder-1", "folder-2"}, false, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].ID, "newest first")

	items, err = store.ListByScope(ctx, []string{"folder-1", "folder-2"}, true, 0, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.NotEmpty(t, item.Embedding)
	}

	items, err = store.ListByScope(ctx, []string{"folder-1", "folder-2"}, false, 1, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)

	items, err = store.ListByScope(ctx, []string{"folder-1"}, false, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, items)
}
