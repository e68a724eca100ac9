package clickhouse

import (
	"context"
	"fmt"
	"time"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using ClickHouse.
type PriceHistoryStore struct {
	conn *Conn
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(conn *Conn) *PriceHistoryStore {
	return &PriceHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// Insert adds a new price sample. Returns ErrDuplicateKey if the ID exists.
// MergeTree doesn't enforce uniqueness, so the ID is checked explicitly
// before the insert.
func (s *PriceHistoryStore) Insert(ctx context.Context, sample *domain.PriceSample) (err error) {
	defer observeQuery("insert_price_sample", time.Now(), &err)

	exists, err := s.exists(ctx, sample.ID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_history (
			id, price, change_percent, timestamp
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	if err := batch.Append(sample.ID, sample.Price, sample.ChangePercent, sample.Timestamp); err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetRecent retrieves up to limit samples, newest first.
func (s *PriceHistoryStore) GetRecent(ctx context.Context, limit int) (_ []*domain.PriceSample, err error) {
	defer observeQuery("get_recent_price_samples", time.Now(), &err)

	query := `
		SELECT id, price, change_percent, timestamp
		FROM price_history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent price samples: %w", err)
	}
	defer rows.Close()

	return scanPriceSamples(rows)
}

// exists checks if a sample with the given ID exists.
func (s *PriceHistoryStore) exists(ctx context.Context, id string) (bool, error) {
	query := `
		SELECT count(*) FROM price_history
		WHERE id = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows abstracts driver.Rows for scanning.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanPriceSamples scans multiple rows.
func scanPriceSamples(rows chRows) ([]*domain.PriceSample, error) {
	var samples []*domain.PriceSample

	for rows.Next() {
		var s domain.PriceSample

		err := rows.Scan(&s.ID, &s.Price, &s.ChangePercent, &s.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan price sample row: %w", err)
		}

		samples = append(samples, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price sample rows: %w", err)
	}

	return samples, nil
}
