package storage

import (
	"context"

	"bdc-storefront/internal/domain"
)

// PurchaseStore provides access to purchases storage.
// Purchases are append-only; there is no update path.
type PurchaseStore interface {
	// Insert adds a new purchase. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, p *domain.Purchase) error

	// GetByID retrieves a purchase by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Purchase, error)

	// GetByEmail retrieves all purchases for an email, newest first.
	GetByEmail(ctx context.Context, email string) ([]*domain.Purchase, error)
}

// AccountStore provides access to the account registry.
type AccountStore interface {
	// Insert adds a new account. Returns ErrDuplicateKey if the email or
	// referral code is already taken.
	Insert(ctx context.Context, a *domain.Account) error

	// GetByEmail retrieves an account by email. Returns ErrNotFound if not exists.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// GetByReferralCode retrieves an account by referral code.
	// Returns ErrNotFound if no account holds the code.
	GetByReferralCode(ctx context.Context, code string) (*domain.Account, error)

	// SetDeposited marks the account as having deposited and stamps UpdatedAt.
	// Returns ErrNotFound if the email is unknown.
	SetDeposited(ctx context.Context, email string, deposited bool) error

	// SetReferralCode assigns a referral code to an existing account.
	// Returns ErrNotFound if the email is unknown and ErrDuplicateKey
	// if the code is already taken.
	SetReferralCode(ctx context.Context, email, code string) error
}

// PriceHistoryStore provides access to price_history storage.
// Samples are append-only.
type PriceHistoryStore interface {
	// Insert adds a new price sample. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, s *domain.PriceSample) error

	// GetRecent retrieves up to limit samples, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.PriceSample, error)
}
