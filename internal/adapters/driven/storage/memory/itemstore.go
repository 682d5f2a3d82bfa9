// Package memory provides in-memory implementations of the storage ports
// for testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
)

// Ensure ItemStore implements the interface.
var _ driven.ItemStore = (*ItemStore)(nil)

// ItemStore is an in-memory implementation of driven.ItemStore.
type ItemStore struct {
	mu    sync.RWMutex
	items map[string]domain.Item
}

// NewItemStore creates a new in-memory item store.
func NewItemStore() *ItemStore {
	return &ItemStore{items: make(map[string]domain.Item)}
}

// Create stores a new item.
func (s *ItemStore) Create(_ context.Context, item *domain.Item) error {
	if item.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = *item
	return nil
}

// Get retrieves an item by id.
func (s *ItemStore) Get(_ context.Context, id string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

// Update writes the full record.
func (s *ItemStore) Update(_ context.Context, item *domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	s.items[item.ID] = *item
	return nil
}

// Delete removes an item.
func (s *ItemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

// FindByFingerprint returns the oldest COMPLETED item with the fingerprint,
// excluding excludeID.
func (s *ItemStore) FindByFingerprint(_ context.Context, fingerprint, excludeID string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var match *domain.Item
	for id := range s.items {
		item := s.items[id]
		if item.ID == excludeID || item.Status != domain.StatusCompleted {
			continue
		}
		if item.Fingerprint == nil || *item.Fingerprint != fingerprint {
			continue
		}
		if match == nil || item.CreatedAt.Before(match.CreatedAt) {
			m := item
			match = &m
		}
	}

	if match == nil {
		return nil, domain.ErrNotFound
	}
	return match, nil
}

// ListByStatus returns items in the given status, oldest first.
func (s *ItemStore) ListByStatus(
	_ context.Context, status domain.ItemStatus, limit int,
) ([]domain.Item, error) {
	s.mu.RLock()
	var matched []domain.Item
	for id := range s.items {
		if s.items[id].Status == status {
			matched = append(matched, s.items[id])
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// ListByScope returns items in the given folders, newest first.
func (s *ItemStore) ListByScope(
	_ context.Context, folderIDs []string, onlyEmbedded bool, limit, offset int,
) ([]domain.Item, error) {
	scope := make(map[string]bool, len(folderIDs))
	for _, id := range folderIDs {
		scope[id] = true
	}

	s.mu.RLock()
	var matched []domain.Item
	for id := range s.items {
		item := s.items[id]
		if item.FolderID == nil || !scope[*item.FolderID] {
			continue
		}
		if onlyEmbedded && len(item.Embedding) == 0 {
			continue
		}
		matched = append(matched, item)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []domain.Item{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
