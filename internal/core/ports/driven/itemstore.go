package driven

import (
	"context"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
)

// ItemStore persists item records. Backed by SQLite.
type ItemStore interface {
	// Create stores a new item. Fails with domain.ErrInvalidInput on empty id.
	Create(ctx context.Context, item *domain.Item) error

	// Get retrieves an item by id. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Item, error)

	// Update writes the full record. A nil pointer field writes NULL.
	Update(ctx context.Context, item *domain.Item) error

	// Delete removes an item record.
	Delete(ctx context.Context, id string) error

	// FindByFingerprint returns the oldest COMPLETED item with the given
	// fingerprint, excluding excludeID. Returns domain.ErrNotFound when no
	// such item exists.
	FindByFingerprint(ctx context.Context, fingerprint, excludeID string) (*domain.Item, error)

	// ListByScope returns items whose folder is in folderIDs, ordered by
	// creation time descending. When onlyEmbedded is set, items without a
	// vector are excluded. limit <= 0 means no limit.
	ListByScope(ctx context.Context, folderIDs []string, onlyEmbedded bool, limit, offset int) ([]domain.Item, error)

	// ListByStatus returns up to limit items in the given status, oldest
	// first. limit <= 0 means no limit. Used to pick up the pending
	// backlog when a worker starts.
	ListByStatus(ctx context.Context, status domain.ItemStatus, limit int) ([]domain.Item, error)
}
