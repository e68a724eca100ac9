package clickhouse

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/storage"
)

func createTestSample(id string, price float64, ts time.Time) *domain.PriceSample {
	return &domain.PriceSample{
		ID:            id,
		Price:         price,
		ChangePercent: 0.0027,
		Timestamp:     ts,
	}
}

func TestPriceHistoryStore_InsertAndGetRecent(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceHistoryStore(conn)

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		sample := createTestSample(
			fmt.Sprintf("sample-%03d", i),
			17.0+float64(i)*0.001,
			base.Add(time.Duration(i)*time.Hour),
		)
		require.NoError(t, store.Insert(ctx, sample))
	}

	samples, err := store.GetRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	// Newest first
	assert.Equal(t, "sample-004", samples[0].ID)
	assert.Equal(t, "sample-003", samples[1].ID)
	assert.Equal(t, "sample-002", samples[2].ID)
	assert.InDelta(t, 17.004, samples[0].Price, 0.0001)
	assert.InDelta(t, 0.0027, samples[0].ChangePercent, 0.0001)
	assert.WithinDuration(t, base.Add(4*time.Hour), samples[0].Timestamp, time.Millisecond)
}

func TestPriceHistoryStore_InsertDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceHistoryStore(conn)

	sample := createTestSample("dup-sample", 17.0, time.Now().UTC())
	require.NoError(t, store.Insert(ctx, sample))

	err := store.Insert(ctx, sample)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPriceHistoryStore_GetRecentLimitExceedsRows(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceHistoryStore(conn)

	require.NoError(t, store.Insert(ctx, createTestSample("only", 17.0, time.Now().UTC())))

	samples, err := store.GetRecent(ctx, 24)
	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestPriceHistoryStore_GetRecentEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPriceHistoryStore(conn)

	samples, err := store.GetRecent(ctx, 24)
	require.NoError(t, err)
	assert.Empty(t, samples)
}
