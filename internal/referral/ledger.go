// Package referral manages buyer accounts and their referral codes.
package referral

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/observability"
	"bdc-storefront/internal/storage"
)

// codeAlphabet is the character set referral codes are drawn from.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the length of every generated referral code.
const CodeLength = 5

// maxCodeAttempts bounds the retry loop when a generated code collides
// with an existing one.
const maxCodeAttempts = 100

// ErrCodeSpaceExhausted is returned when a unique code could not be
// generated within the attempt budget.
var ErrCodeSpaceExhausted = errors.New("referral code space exhausted")

// Ledger issues referral codes and attributes purchases to referrers.
// Code generation is serialized so two concurrent callers can never be
// handed the same code.
type Ledger struct {
	mu       sync.Mutex
	accounts storage.AccountStore
}

// NewLedger creates a ledger backed by the given account store.
func NewLedger(accounts storage.AccountStore) *Ledger {
	return &Ledger{accounts: accounts}
}

// EnsureAccount returns the account for email, creating one with a fresh
// referral code on first sight. Emails are compared case-insensitively.
func (l *Ledger) EnsureAccount(ctx context.Context, email string) (*domain.Account, error) {
	return l.ensure(ctx, email, nil, false)
}

// ConfirmDeposit records a completed deposit for email. A first-time
// buyer gets an account with the given recovery phrase attached; a
// returning buyer keeps their stored phrase and only the deposit flag
// is updated.
func (l *Ledger) ConfirmDeposit(ctx context.Context, email string, phrase []string) (*domain.Account, error) {
	return l.ensure(ctx, email, phrase, true)
}

func (l *Ledger) ensure(ctx context.Context, email string, phrase []string, deposited bool) (*domain.Account, error) {
	email = NormalizeEmail(email)

	account, err := l.accounts.GetByEmail(ctx, email)
	if err == nil {
		if deposited && !account.HasDeposited {
			if err := l.accounts.SetDeposited(ctx, email, true); err != nil {
				return nil, fmt.Errorf("mark deposited: %w", err)
			}
			account.HasDeposited = true
		}
		return account, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	code, err := l.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account = &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		ReferralCode: code,
		HasDeposited: deposited,
		WalletPhrase: phrase,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := l.accounts.Insert(ctx, account); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			// Lost a race on the email; the winner's account is fine.
			return l.accounts.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}

// GenerateCode returns a fresh referral code that no account holds.
// Generation and the uniqueness check run under the ledger lock, so the
// returned code is unique among all codes handed out so far.
func (l *Ledger) GenerateCode(ctx context.Context) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", fmt.Errorf("generate referral code: %w", err)
		}
		_, err = l.accounts.GetByReferralCode(ctx, code)
		if errors.Is(err, storage.ErrNotFound) {
			observability.RecordCodeIssued()
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("check referral code: %w", err)
		}
	}
	return "", ErrCodeSpaceExhausted
}

// Attribute resolves a referral code to its owner and returns the reward
// notice shown to the buyer. An unknown, empty, or malformed code yields
// no attribution and no error; a mistyped code never blocks a purchase.
func (l *Ledger) Attribute(ctx context.Context, code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > CodeLength {
		return "", false
	}

	referrer, err := l.accounts.GetByReferralCode(ctx, code)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("Referral reward (10%% dividen) will be credited to %s", referrer.Email), true
}

// MarkDeposited flags the account as having completed a deposit.
func (l *Ledger) MarkDeposited(ctx context.Context, email string) error {
	return l.accounts.SetDeposited(ctx, NormalizeEmail(email), true)
}

// NormalizeEmail lowercases and trims an email for use as a store key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// randomCode draws each character uniformly from the alphabet. rand.Int
// avoids the skew a plain byte-modulo draw would introduce, since 256 is
// not a multiple of the alphabet size.
func randomCode() (string, error) {
	alphabetSize := big.NewInt(int64(len(codeAlphabet)))
	out := make([]byte, CodeLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		out[i] = codeAlphabet[n.Int64()]
	}
	return string(out), nil
}
