package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/storage"
)

// AccountStore implements storage.AccountStore using PostgreSQL.
//
// referral_code is stored as NULL while the code is not yet issued so the
// unique index only applies to issued codes.
type AccountStore struct {
	pool *Pool
}

// NewAccountStore creates a new AccountStore.
func NewAccountStore(pool *Pool) *AccountStore {
	return &AccountStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AccountStore = (*AccountStore)(nil)

// Insert adds a new account. Returns ErrDuplicateKey if the email or
// referral code is already taken.
func (s *AccountStore) Insert(ctx context.Context, a *domain.Account) (err error) {
	defer observeQuery("insert_account", time.Now(), &err)

	query := `
		INSERT INTO users (
			id, email, referral_code, has_deposited,
			wallet_phrase, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7
		)
	`

	_, err = s.pool.Exec(ctx, query,
		a.ID, a.Email, nullIfEmpty(a.ReferralCode), a.HasDeposited,
		a.WalletPhrase, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByEmail retrieves an account by email. Returns ErrNotFound if not exists.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (_ *domain.Account, err error) {
	defer observeQuery("get_account_by_email", time.Now(), &err)

	query := `
		SELECT
			id, email, referral_code, has_deposited,
			wallet_phrase, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	row := s.pool.QueryRow(ctx, query, email)
	a, err := scanAccount(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

// GetByReferralCode retrieves an account by referral code.
// Returns ErrNotFound if no account holds the code.
func (s *AccountStore) GetByReferralCode(ctx context.Context, code string) (_ *domain.Account, err error) {
	defer observeQuery("get_account_by_referral_code", time.Now(), &err)

	query := `
		SELECT
			id, email, referral_code, has_deposited,
			wallet_phrase, created_at, updated_at
		FROM users
		WHERE referral_code = $1
	`

	row := s.pool.QueryRow(ctx, query, code)
	a, err := scanAccount(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get account by referral code: %w", err)
	}
	return a, nil
}

// SetDeposited marks the account as having deposited and stamps UpdatedAt.
// Returns ErrNotFound if the email is unknown.
func (s *AccountStore) SetDeposited(ctx context.Context, email string, deposited bool) (err error) {
	defer observeQuery("set_account_deposited", time.Now(), &err)

	query := `
		UPDATE users
		SET has_deposited = $2, updated_at = now()
		WHERE email = $1
	`

	tag, err := s.pool.Exec(ctx, query, email, deposited)
	if err != nil {
		return fmt.Errorf("set account deposited: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetReferralCode assigns a referral code to an existing account.
// Returns ErrNotFound if the email is unknown and ErrDuplicateKey if the
// code is already taken.
func (s *AccountStore) SetReferralCode(ctx context.Context, email, code string) (err error) {
	defer observeQuery("set_account_referral_code", time.Now(), &err)

	query := `
		UPDATE users
		SET referral_code = $2, updated_at = now()
		WHERE email = $1
	`

	tag, err := s.pool.Exec(ctx, query, email, nullIfEmpty(code))
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("set account referral code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanAccount scans a single row into an Account.
func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a    domain.Account
		code *string
	)

	err := row.Scan(
		&a.ID, &a.Email, &code, &a.HasDeposited,
		&a.WalletPhrase, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if code != nil {
		a.ReferralCode = *code
	}

	return &a, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
