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

func createTestAccount(id, email, code string) *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Account{
		ID:           id,
		Email:        email,
		ReferralCode: code,
		WalletPhrase: []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAccountStore_InsertAndGetByEmail(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	account := createTestAccount("acc-001", "buyer@example.com", "AB3DE")
	account.WalletPhrase = []string{"abandon", "ability", "able", "about"}

	require.NoError(t, store.Insert(ctx, account))

	retrieved, err := store.GetByEmail(ctx, "buyer@example.com")
	require.NoError(t, err)

	assert.Equal(t, account.ID, retrieved.ID)
	assert.Equal(t, account.Email, retrieved.Email)
	assert.Equal(t, account.ReferralCode, retrieved.ReferralCode)
	assert.False(t, retrieved.HasDeposited)
	assert.Equal(t, account.WalletPhrase, retrieved.WalletPhrase)
}

func TestAccountStore_InsertDuplicateEmail(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	require.NoError(t, store.Insert(ctx, createTestAccount("acc-1", "dup@example.com", "AAAA1")))

	err := store.Insert(ctx, createTestAccount("acc-2", "dup@example.com", "BBBB2"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestAccountStore_InsertDuplicateReferralCode(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	require.NoError(t, store.Insert(ctx, createTestAccount("acc-1", "one@example.com", "SAME1")))

	err := store.Insert(ctx, createTestAccount("acc-2", "two@example.com", "SAME1"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestAccountStore_EmptyReferralCodeNotUnique(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	// Accounts without an issued code must not collide with each other.
	require.NoError(t, store.Insert(ctx, createTestAccount("acc-1", "one@example.com", "")))
	require.NoError(t, store.Insert(ctx, createTestAccount("acc-2", "two@example.com", "")))

	retrieved, err := store.GetByEmail(ctx, "one@example.com")
	require.NoError(t, err)
	assert.Empty(t, retrieved.ReferralCode)
}

func TestAccountStore_GetByReferralCode(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	require.NoError(t, store.Insert(ctx, createTestAccount("acc-1", "ref@example.com", "XY9Z2")))

	retrieved, err := store.GetByReferralCode(ctx, "XY9Z2")
	require.NoError(t, err)
	assert.Equal(t, "ref@example.com", retrieved.Email)

	_, err = store.GetByReferralCode(ctx, "NOPE1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAccountStore_SetDeposited(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	account := createTestAccount("acc-1", "dep@example.com", "DEP01")
	require.NoError(t, store.Insert(ctx, account))

	require.NoError(t, store.SetDeposited(ctx, "dep@example.com", true))

	retrieved, err := store.GetByEmail(ctx, "dep@example.com")
	require.NoError(t, err)
	assert.True(t, retrieved.HasDeposited)
	assert.True(t, retrieved.UpdatedAt.After(account.UpdatedAt) || retrieved.UpdatedAt.Equal(account.UpdatedAt))

	err = store.SetDeposited(ctx, "unknown@example.com", true)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAccountStore_SetReferralCode(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewAccountStore(pool)

	require.NoError(t, store.Insert(ctx, createTestAccount("acc-1", "first@example.com", "")))
	require.NoError(t, store.Insert(ctx, createTestAccount("acc-2", "second@example.com", "TAKEN")))

	require.NoError(t, store.SetReferralCode(ctx, "first@example.com", "FRESH"))

	retrieved, err := store.GetByReferralCode(ctx, "FRESH")
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", retrieved.Email)

	err = store.SetReferralCode(ctx, "first@example.com", "TAKEN")
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	err = store.SetReferralCode(ctx, "unknown@example.com", "ANY01")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
