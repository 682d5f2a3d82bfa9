package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

// CollectionImporter expands a playlist/collection URL and registers its
// members as PENDING items, enqueuing each for ingestion.
type CollectionImporter struct {
	acquirer driven.Acquirer
	items    *ItemService
	ingestor driving.Ingestor
}

// NewCollectionImporter creates the importer.
func NewCollectionImporter(
	acquirer driven.Acquirer,
	items *ItemService,
	ingestor driving.Ingestor,
) *CollectionImporter {
	return &CollectionImporter{acquirer: acquirer, items: items, ingestor: ingestor}
}

// Import expands the collection and enqueues up to maxEntries members.
// A single bad entry is skipped, never fatal for the batch. Returns the
// number of items enqueued.
func (c *CollectionImporter) Import(
	ctx context.Context, collectionURL string, folderID *string, maxEntries int,
) (int, error) {
	urls, err := c.acquirer.ExpandCollection(ctx, collectionURL, maxEntries)
	if err != nil {
		return 0, fmt.Errorf("expand collection: %w", err)
	}

	enqueued := 0
	for _, url := range urls {
		item, err := c.items.Register(ctx, url, folderID)
		if err != nil {
			logger.Warn("Skipping collection entry %s: %v", url, err)
			continue
		}
		c.ingestor.Enqueue(item.ID)
		enqueued++
	}

	logger.Info("Collection %s: enqueued %d/%d entries", collectionURL, enqueued, len(urls))
	return enqueued, nil
}
