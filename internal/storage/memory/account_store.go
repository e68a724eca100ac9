package memory

import (
	"context"
	"sync"
	"time"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/storage"
)

// AccountStore is an in-memory implementation of storage.AccountStore.
type AccountStore struct {
	mu      sync.RWMutex
	byEmail map[string]*domain.Account // keyed by email
	byCode  map[string]string          // referral code -> email
}

// NewAccountStore creates a new in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		byEmail: make(map[string]*domain.Account),
		byCode:  make(map[string]string),
	}
}

// Insert adds a new account. Returns ErrDuplicateKey if the email or
// referral code is already taken.
func (s *AccountStore) Insert(_ context.Context, a *domain.Account) error {
	if a == nil || a.ID == "" || a.Email == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[a.Email]; exists {
		return storage.ErrDuplicateKey
	}
	if a.ReferralCode != "" {
		if _, exists := s.byCode[a.ReferralCode]; exists {
			return storage.ErrDuplicateKey
		}
	}

	cp := cloneAccount(a)
	s.byEmail[a.Email] = cp
	if a.ReferralCode != "" {
		s.byCode[a.ReferralCode] = a.Email
	}
	return nil
}

// GetByEmail retrieves an account by email. Returns ErrNotFound if not exists.
func (s *AccountStore) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.byEmail[email]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return cloneAccount(a), nil
}

// GetByReferralCode retrieves an account by referral code.
// Returns ErrNotFound if no account holds the code.
func (s *AccountStore) GetByReferralCode(_ context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email, exists := s.byCode[code]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return cloneAccount(s.byEmail[email]), nil
}

// SetDeposited marks the account as having deposited and stamps UpdatedAt.
func (s *AccountStore) SetDeposited(_ context.Context, email string, deposited bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.byEmail[email]
	if !exists {
		return storage.ErrNotFound
	}

	a.HasDeposited = deposited
	a.UpdatedAt = time.Now()
	return nil
}

// SetReferralCode assigns a referral code to an existing account.
func (s *AccountStore) SetReferralCode(_ context.Context, email, code string) error {
	if code == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.byEmail[email]
	if !exists {
		return storage.ErrNotFound
	}
	if _, taken := s.byCode[code]; taken {
		return storage.ErrDuplicateKey
	}

	// Release the old code if the account had one.
	if a.ReferralCode != "" {
		delete(s.byCode, a.ReferralCode)
	}

	a.ReferralCode = code
	a.UpdatedAt = time.Now()
	s.byCode[code] = email
	return nil
}

// cloneAccount copies an account including its phrase slice so callers
// never share backing arrays with the store.
func cloneAccount(a *domain.Account) *domain.Account {
	cp := *a
	if a.WalletPhrase != nil {
		cp.WalletPhrase = append([]string(nil), a.WalletPhrase...)
	}
	return &cp
}

var _ storage.AccountStore = (*AccountStore)(nil)
