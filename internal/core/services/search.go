package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memvault-cli/internal/logger"
)

// Ensure RankingService implements the interface.
var _ driving.SearchService = (*RankingService)(nil)

// Keyword boost increments per matched query token.
const (
	titleBoost       = 0.1
	descriptionBoost = 0.05
)

// RankingService is the hybrid ranking engine. It performs read-only scans
// over persisted items and never mutates records.
type RankingService struct {
	items    driven.ItemStore
	blobs    driven.BlobStore
	embedder driven.EmbeddingService
	cfg      domain.RankingConfig
}

// NewRankingService creates the ranking engine. The blob store is optional
// and only used to attach read URLs to results.
func NewRankingService(
	items driven.ItemStore,
	blobs driven.BlobStore,
	embedder driven.EmbeddingService,
	cfg domain.RankingConfig,
) *RankingService {
	return &RankingService{
		items:    items,
		blobs:    blobs,
		embedder: embedder,
		cfg:      cfg,
	}
}

// Search ranks items in scope against the query.
//
// Candidates are the scoped items that carry a vector; records without one
// are excluded in every mode. The minimum score is applied as a post-filter
// after ranking and truncation, never as a query predicate. An empty scope
// or blank query returns an empty result set without touching the embedding
// capability.
func (s *RankingService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	mode := opts.EffectiveMode()
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedMode, opts.Mode)
	}

	vectorWeight, lexicalWeight := s.weights(opts)
	if vectorWeight < 0 || lexicalWeight < 0 {
		return nil, domain.ErrNegativeWeight
	}

	scope := s.effectiveScope(opts)
	if len(scope) == 0 {
		logger.Debug("Empty scope, returning no results")
		return []domain.SearchResult{}, nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Query-time scan over scoped candidates; the store query is
	// parameterized, scoring happens here.
	candidates, err := s.items.ListByScope(ctx, scope, true, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	logger.Debug("Mode %s: %d candidates in scope", mode, len(candidates))

	tokens := domain.QueryTokens(query)

	results := make([]domain.SearchResult, 0, len(candidates))
	for i := range candidates {
		item := candidates[i]
		if len(item.Embedding) == 0 {
			continue
		}
		vectorScore := CosineSimilarity(queryVector, item.Embedding)

		result := domain.SearchResult{Item: item, VectorScore: vectorScore}
		switch mode {
		case domain.SearchModeVector:
			result.Score = vectorScore

		case domain.SearchModeHybrid:
			doc := domain.NewLexicalDoc(
				domain.StringValue(item.Title),
				domain.StringValue(item.DescriptionAI),
				domain.StringValue(item.DescriptionManual),
				domain.StringValue(item.Transcript),
			)
			result.LexicalScore = doc.Score(tokens)
			result.Score = vectorWeight*vectorScore + lexicalWeight*result.LexicalScore

		case domain.SearchModeKeywordBoost:
			result.Score = vectorScore + keywordBoost(tokens, item)
		}
		results = append(results, result)
	}

	// Descending composite score; equal composites fall back to vector
	// score so ordering stays deterministic.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].VectorScore > results[j].VectorScore
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}

	if opts.MinScore != nil {
		filtered := results[:0]
		for _, r := range results {
			if r.Score >= *opts.MinScore {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	s.attachReadURLs(ctx, results)
	logger.Info("Final results: %d", len(results))
	return results, nil
}

// weights resolves fusion weights: caller override first, then the engine's
// configured defaults. Weights are used as given - no renormalization.
func (s *RankingService) weights(opts domain.SearchOptions) (vector, lexical float64) {
	vector, lexical = s.cfg.VectorWeight, s.cfg.LexicalWeight
	if opts.VectorWeight != nil {
		vector = *opts.VectorWeight
	}
	if opts.LexicalWeight != nil {
		lexical = *opts.LexicalWeight
	}
	return vector, lexical
}

// effectiveScope intersects the optional single-folder narrowing with the
// caller's scope. A folder outside the scope yields an empty scope - the
// access boundary always wins.
func (s *RankingService) effectiveScope(opts domain.SearchOptions) []string {
	if opts.FolderID == nil {
		return opts.Scope
	}
	for _, id := range opts.Scope {
		if id == *opts.FolderID {
			return []string{id}
		}
	}
	return nil
}

// keywordBoost sums the additive boosts for query tokens substring-matched
// case-insensitively in the title and AI description.
func keywordBoost(tokens []string, item domain.Item) float64 {
	title := strings.ToLower(domain.StringValue(item.Title))
	description := strings.ToLower(domain.StringValue(item.DescriptionAI))

	var boost float64
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			boost += titleBoost
		}
		if strings.Contains(description, tok) {
			boost += descriptionBoost
		}
	}
	return boost
}

// attachReadURLs best-effort resolves blob read URLs for result media.
func (s *RankingService) attachReadURLs(ctx context.Context, results []domain.SearchResult) {
	if s.blobs == nil {
		return
	}
	for i := range results {
		if results[i].Item.BlobKey == nil {
			continue
		}
		url, err := s.blobs.GetReadURL(ctx, *results[i].Item.BlobKey, s.cfg.ReadURLTTL)
		if err != nil {
			logger.Debug("Read URL for %s: %v", results[i].Item.ID, err)
			continue
		}
		results[i].ReadURL = url
	}
}
