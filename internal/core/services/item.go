package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

// ItemService covers record lifecycle outside a pipeline run: registration
// of new items and deletion of records together with their blobs.
type ItemService struct {
	items driven.ItemStore
	blobs driven.BlobStore
}

// NewItemService creates the item service.
func NewItemService(items driven.ItemStore, blobs driven.BlobStore) *ItemService {
	return &ItemService{items: items, blobs: blobs}
}

// Register creates a PENDING item for a source URL, ready for ingestion.
func (s *ItemService) Register(ctx context.Context, sourceURL string, folderID *string) (*domain.Item, error) {
	if sourceURL == "" {
		return nil, fmt.Errorf("%w: source URL required", domain.ErrInvalidInput)
	}

	item := &domain.Item{
		ID:        uuid.NewString(),
		SourceURL: &sourceURL,
		FolderID:  folderID,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	logger.Info("Registered item %s for %s", item.ID, sourceURL)
	return item, nil
}

// Delete removes the record and, when present, its blob. The blob goes
// first; a missing blob is not an error.
func (s *ItemService) Delete(ctx context.Context, itemID string) error {
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	if item.BlobKey != nil && s.blobs != nil {
		if err := s.blobs.Delete(ctx, *item.BlobKey); err != nil {
			return fmt.Errorf("delete blob: %w", err)
		}
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	logger.Info("Deleted item %s", itemID)
	return nil
}
