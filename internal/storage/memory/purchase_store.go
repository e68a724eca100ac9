package memory

import (
	"context"
	"sort"
	"sync"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/storage"
)

// PurchaseStore is an in-memory implementation of storage.PurchaseStore.
type PurchaseStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Purchase // keyed by purchase ID
}

// NewPurchaseStore creates a new in-memory purchase store.
func NewPurchaseStore() *PurchaseStore {
	return &PurchaseStore{
		data: make(map[string]*domain.Purchase),
	}
}

// Insert adds a new purchase. Returns ErrDuplicateKey if the ID exists.
func (s *PurchaseStore) Insert(_ context.Context, p *domain.Purchase) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.ID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := clonePurchase(p)
	s.data[p.ID] = cp
	return nil
}

// GetByID retrieves a purchase by its ID. Returns ErrNotFound if not exists.
func (s *PurchaseStore) GetByID(_ context.Context, id string) (*domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return clonePurchase(p), nil
}

// GetByEmail retrieves all purchases for an email, newest first.
func (s *PurchaseStore) GetByEmail(_ context.Context, email string) ([]*domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Purchase
	for _, p := range s.data {
		if p.Email == email {
			result = append(result, clonePurchase(p))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// clonePurchase copies a purchase including its nullable fields so callers
// never share pointers with the store.
func clonePurchase(p *domain.Purchase) *domain.Purchase {
	cp := *p
	if p.ReferralCode != nil {
		v := *p.ReferralCode
		cp.ReferralCode = &v
	}
	if p.TransactionHash != nil {
		v := *p.TransactionHash
		cp.TransactionHash = &v
	}
	return &cp
}

var _ storage.PurchaseStore = (*PurchaseStore)(nil)
