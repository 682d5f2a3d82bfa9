package driving

import (
	"context"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
)

// SearchService serves ranked queries over persisted items.
type SearchService interface {
	// Search ranks items in scope against the query. An empty result set
	// is a valid, successful response - "no results" is never an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
