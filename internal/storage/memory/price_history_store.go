package memory

import (
	"context"
	"sort"
	"sync"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/storage"
)

// PriceHistoryStore is an in-memory implementation of storage.PriceHistoryStore.
type PriceHistoryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PriceSample // keyed by sample ID
}

// NewPriceHistoryStore creates a new in-memory price history store.
func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{
		data: make(map[string]*domain.PriceSample),
	}
}

// Insert adds a new price sample. Returns ErrDuplicateKey if the ID exists.
func (s *PriceHistoryStore) Insert(_ context.Context, sample *domain.PriceSample) error {
	if sample == nil || sample.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sample.ID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *sample
	s.data[sample.ID] = &cp
	return nil
}

// GetRecent retrieves up to limit samples, newest first.
func (s *PriceHistoryStore) GetRecent(_ context.Context, limit int) ([]*domain.PriceSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PriceSample, 0, len(s.data))
	for _, p := range s.data {
		cp := *p
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)
