package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/storage"
)

func createTestPurchase(id, email string) *domain.Purchase {
	return &domain.Purchase{
		ID:           id,
		Amount:       100.0027,
		Price:        17.0,
		TokenAmount:  5.8824,
		Email:        email,
		ReferralCode: ptr("AB3DE"),
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPurchaseStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPurchaseStore(pool)

	purchase := createTestPurchase("purchase-001", "buyer@example.com")

	err := store.Insert(ctx, purchase)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "purchase-001")
	require.NoError(t, err)

	assert.Equal(t, purchase.ID, retrieved.ID)
	assert.InDelta(t, purchase.Amount, retrieved.Amount, 0.0001)
	assert.InDelta(t, purchase.Price, retrieved.Price, 0.0001)
	assert.InDelta(t, purchase.TokenAmount, retrieved.TokenAmount, 0.0001)
	assert.Equal(t, purchase.Email, retrieved.Email)
	require.NotNil(t, retrieved.ReferralCode)
	assert.Equal(t, *purchase.ReferralCode, *retrieved.ReferralCode)
	assert.Nil(t, retrieved.TransactionHash)
	assert.WithinDuration(t, purchase.CreatedAt, retrieved.CreatedAt, time.Millisecond)
}

func TestPurchaseStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPurchaseStore(pool)

	purchase := createTestPurchase("purchase-dup", "buyer@example.com")

	require.NoError(t, store.Insert(ctx, purchase))

	err := store.Insert(ctx, purchase)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPurchaseStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPurchaseStore(pool)

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPurchaseStore_GetByEmailNewestFirst(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPurchaseStore(pool)

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i, id := range []string{"p-1", "p-2", "p-3"} {
		p := createTestPurchase(id, "repeat@example.com")
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Insert(ctx, p))
	}

	other := createTestPurchase("p-other", "other@example.com")
	require.NoError(t, store.Insert(ctx, other))

	purchases, err := store.GetByEmail(ctx, "repeat@example.com")
	require.NoError(t, err)
	require.Len(t, purchases, 3)

	assert.Equal(t, "p-3", purchases[0].ID)
	assert.Equal(t, "p-2", purchases[1].ID)
	assert.Equal(t, "p-1", purchases[2].ID)
}

func TestPurchaseStore_GetByEmailEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPurchaseStore(pool)

	purchases, err := store.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, purchases)
}
