package memory

import (
	"context"
	"errors"
	"testing"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/storage"
)

func TestAccountStore_InsertAndGet(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	a := &domain.Account{
		ID:           "u1",
		Email:        "buyer@example.com",
		ReferralCode: "AB12C",
		HasDeposited: true,
		WalletPhrase: []string{"abandon", "ability", "able"},
	}

	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	byEmail, err := store.GetByEmail(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if byEmail.ReferralCode != "AB12C" {
		t.Errorf("ReferralCode mismatch: got %q", byEmail.ReferralCode)
	}

	byCode, err := store.GetByReferralCode(ctx, "AB12C")
	if err != nil {
		t.Fatalf("GetByReferralCode failed: %v", err)
	}
	if byCode.Email != "buyer@example.com" {
		t.Errorf("Email mismatch: got %q", byCode.Email)
	}

	// Phrase slice must be a copy.
	byEmail.WalletPhrase[0] = "tampered"
	again, _ := store.GetByEmail(ctx, "buyer@example.com")
	if again.WalletPhrase[0] != "abandon" {
		t.Error("store leaked internal phrase slice")
	}
}

func TestAccountStore_DuplicateEmail(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	a := &domain.Account{ID: "u1", Email: "buyer@example.com"}
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	b := &domain.Account{ID: "u2", Email: "buyer@example.com"}
	if err := store.Insert(ctx, b); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestAccountStore_DuplicateReferralCode(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	a := &domain.Account{ID: "u1", Email: "a@example.com", ReferralCode: "AB12C"}
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	b := &domain.Account{ID: "u2", Email: "b@example.com", ReferralCode: "AB12C"}
	if err := store.Insert(ctx, b); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for taken code, got %v", err)
	}

	if err := store.SetReferralCode(ctx, "b@example.com", "AB12C"); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey from SetReferralCode, got %v", err)
	}
}

func TestAccountStore_SetDeposited(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	a := &domain.Account{ID: "u1", Email: "buyer@example.com"}
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.SetDeposited(ctx, "buyer@example.com", true); err != nil {
		t.Fatalf("SetDeposited failed: %v", err)
	}

	got, _ := store.GetByEmail(ctx, "buyer@example.com")
	if !got.HasDeposited {
		t.Error("Expected HasDeposited to be true")
	}

	if err := store.SetDeposited(ctx, "unknown@example.com", true); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAccountStore_SetReferralCode_ReplacesOld(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	a := &domain.Account{ID: "u1", Email: "buyer@example.com", ReferralCode: "OLD11"}
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.SetReferralCode(ctx, "buyer@example.com", "NEW22"); err != nil {
		t.Fatalf("SetReferralCode failed: %v", err)
	}

	if _, err := store.GetByReferralCode(ctx, "OLD11"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected old code released, got %v", err)
	}
	got, err := store.GetByReferralCode(ctx, "NEW22")
	if err != nil {
		t.Fatalf("GetByReferralCode failed: %v", err)
	}
	if got.Email != "buyer@example.com" {
		t.Errorf("Email mismatch: got %q", got.Email)
	}
}
