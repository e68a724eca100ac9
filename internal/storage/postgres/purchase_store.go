package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/storage"
)

// PurchaseStore implements storage.PurchaseStore using PostgreSQL.
type PurchaseStore struct {
	pool *Pool
}

// NewPurchaseStore creates a new PurchaseStore.
func NewPurchaseStore(pool *Pool) *PurchaseStore {
	return &PurchaseStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PurchaseStore = (*PurchaseStore)(nil)

// Insert adds a new purchase. Returns ErrDuplicateKey if the ID exists.
func (s *PurchaseStore) Insert(ctx context.Context, p *domain.Purchase) (err error) {
	defer observeQuery("insert_purchase", time.Now(), &err)

	query := `
		INSERT INTO purchases (
			id, amount, price, token_amount,
			email, referral_code, transaction_hash, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8
		)
	`

	_, err = s.pool.Exec(ctx, query,
		p.ID, p.Amount, p.Price, p.TokenAmount,
		p.Email, p.ReferralCode, p.TransactionHash, p.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetByID retrieves a purchase by its ID. Returns ErrNotFound if not exists.
func (s *PurchaseStore) GetByID(ctx context.Context, id string) (_ *domain.Purchase, err error) {
	defer observeQuery("get_purchase_by_id", time.Now(), &err)

	query := `
		SELECT
			id, amount, price, token_amount,
			email, referral_code, transaction_hash, created_at
		FROM purchases
		WHERE id = $1
	`

	row := s.pool.QueryRow(ctx, query, id)
	p, err := scanPurchase(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get purchase by id: %w", err)
	}
	return p, nil
}

// GetByEmail retrieves all purchases for an email, newest first.
func (s *PurchaseStore) GetByEmail(ctx context.Context, email string) (_ []*domain.Purchase, err error) {
	defer observeQuery("get_purchases_by_email", time.Now(), &err)

	query := `
		SELECT
			id, amount, price, token_amount,
			email, referral_code, transaction_hash, created_at
		FROM purchases
		WHERE email = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("get purchases by email: %w", err)
	}
	defer rows.Close()

	return scanPurchases(rows)
}

// scanPurchase scans a single row into a Purchase.
func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var p domain.Purchase

	err := row.Scan(
		&p.ID, &p.Amount, &p.Price, &p.TokenAmount,
		&p.Email, &p.ReferralCode, &p.TransactionHash, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// scanPurchases scans multiple rows into a slice of Purchase.
func scanPurchases(rows pgx.Rows) ([]*domain.Purchase, error) {
	var purchases []*domain.Purchase

	for rows.Next() {
		var p domain.Purchase

		err := rows.Scan(
			&p.ID, &p.Amount, &p.Price, &p.TokenAmount,
			&p.Email, &p.ReferralCode, &p.TransactionHash, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan purchase row: %w", err)
		}

		purchases = append(purchases, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchase rows: %w", err)
	}

	return purchases, nil
}
