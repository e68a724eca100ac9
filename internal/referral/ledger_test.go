package referral

import (
	"context"
	"strings"
	"sync"
	"testing"

	"bdc-storefront/internal/storage/memory"
)

func TestEnsureAccount_CreatesOnce(t *testing.T) {
	l := NewLedger(memory.NewAccountStore())
	ctx := context.Background()

	first, err := l.EnsureAccount(ctx, "Buyer@Example.com")
	if err != nil {
		t.Fatalf("EnsureAccount failed: %v", err)
	}
	if first.Email != "buyer@example.com" {
		t.Errorf("Expected normalized email, got %q", first.Email)
	}
	if len(first.ReferralCode) != CodeLength {
		t.Errorf("Expected %d-char code, got %q", CodeLength, first.ReferralCode)
	}
	for _, c := range first.ReferralCode {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Errorf("Code %q contains character outside alphabet", first.ReferralCode)
		}
	}

	second, err := l.EnsureAccount(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("Second EnsureAccount failed: %v", err)
	}
	if second.ID != first.ID || second.ReferralCode != first.ReferralCode {
		t.Errorf("Expected same account on repeat, got %+v vs %+v", first, second)
	}
}

func TestGenerateCode_UniqueUnderConcurrency(t *testing.T) {
	l := NewLedger(memory.NewAccountStore())
	ctx := context.Background()

	const n = 100
	var mu sync.Mutex
	seen := make(map[string]bool, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			code, err := l.GenerateCode(ctx)
			if err != nil {
				t.Errorf("GenerateCode failed: %v", err)
				return
			}
			mu.Lock()
			seen[code] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	// GenerateCode only checks the store; codes not yet attached to an
	// account may theoretically repeat, but 100 draws from 36^5 should
	// never collide in practice.
	if len(seen) != n {
		t.Errorf("Expected %d distinct codes, got %d", n, len(seen))
	}
}

func TestRandomCode_CoversAlphabet(t *testing.T) {
	counts := make(map[byte]int, len(codeAlphabet))

	// 2000 codes give 10000 character draws; a uniform generator leaves
	// no alphabet character unseen at that volume.
	for i := 0; i < 2000; i++ {
		code, err := randomCode()
		if err != nil {
			t.Fatalf("randomCode failed: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("Code length: got %d, want %d", len(code), CodeLength)
		}
		for j := 0; j < len(code); j++ {
			if !strings.ContainsRune(codeAlphabet, rune(code[j])) {
				t.Fatalf("Code %q contains character outside alphabet", code)
			}
			counts[code[j]]++
		}
	}

	for i := 0; i < len(codeAlphabet); i++ {
		if counts[codeAlphabet[i]] == 0 {
			t.Errorf("Character %q never generated", codeAlphabet[i])
		}
	}
}

func TestAttribute(t *testing.T) {
	store := memory.NewAccountStore()
	l := NewLedger(store)
	ctx := context.Background()

	owner, err := l.EnsureAccount(ctx, "referrer@example.com")
	if err != nil {
		t.Fatalf("EnsureAccount failed: %v", err)
	}

	msg, ok := l.Attribute(ctx, owner.ReferralCode)
	if !ok {
		t.Fatal("Expected attribution for a valid code")
	}
	want := "Referral reward (10% dividen) will be credited to referrer@example.com"
	if msg != want {
		t.Errorf("Message mismatch:\n got %q\nwant %q", msg, want)
	}

	// Code lookup is case-insensitive on the caller side.
	if _, ok := l.Attribute(ctx, "  "+strings.ToLower(owner.ReferralCode)+" "); !ok {
		t.Error("Expected attribution for lowercased, padded code")
	}
}

func TestAttribute_SilentFailures(t *testing.T) {
	l := NewLedger(memory.NewAccountStore())
	ctx := context.Background()

	for _, code := range []string{"", "   ", "ZZZZZ", "TOOLONGCODE"} {
		if msg, ok := l.Attribute(ctx, code); ok || msg != "" {
			t.Errorf("Attribute(%q): expected silent failure, got ok=%v msg=%q", code, ok, msg)
		}
	}
}

func TestConfirmDeposit_NewAccount(t *testing.T) {
	store := memory.NewAccountStore()
	l := NewLedger(store)
	ctx := context.Background()

	phrase := []string{"abandon", "ability", "able"}
	account, err := l.ConfirmDeposit(ctx, "buyer@example.com", phrase)
	if err != nil {
		t.Fatalf("ConfirmDeposit failed: %v", err)
	}
	if !account.HasDeposited {
		t.Error("Expected HasDeposited to be true")
	}
	if len(account.ReferralCode) != CodeLength {
		t.Errorf("Expected generated code, got %q", account.ReferralCode)
	}

	stored, err := store.GetByEmail(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if len(stored.WalletPhrase) != 3 || stored.WalletPhrase[0] != "abandon" {
		t.Errorf("Expected stored phrase, got %v", stored.WalletPhrase)
	}
}

func TestConfirmDeposit_ExistingAccountKeepsPhrase(t *testing.T) {
	store := memory.NewAccountStore()
	l := NewLedger(store)
	ctx := context.Background()

	first, err := l.ConfirmDeposit(ctx, "buyer@example.com", []string{"alpha"})
	if err != nil {
		t.Fatalf("First ConfirmDeposit failed: %v", err)
	}

	second, err := l.ConfirmDeposit(ctx, "buyer@example.com", []string{"amount"})
	if err != nil {
		t.Fatalf("Second ConfirmDeposit failed: %v", err)
	}
	if second.ReferralCode != first.ReferralCode {
		t.Errorf("Expected stable code, got %q vs %q", first.ReferralCode, second.ReferralCode)
	}

	stored, _ := store.GetByEmail(ctx, "buyer@example.com")
	if len(stored.WalletPhrase) != 1 || stored.WalletPhrase[0] != "alpha" {
		t.Errorf("Expected original phrase to survive, got %v", stored.WalletPhrase)
	}
}

func TestMarkDeposited(t *testing.T) {
	store := memory.NewAccountStore()
	l := NewLedger(store)
	ctx := context.Background()

	if _, err := l.EnsureAccount(ctx, "buyer@example.com"); err != nil {
		t.Fatalf("EnsureAccount failed: %v", err)
	}
	if err := l.MarkDeposited(ctx, "Buyer@Example.com"); err != nil {
		t.Fatalf("MarkDeposited failed: %v", err)
	}

	got, err := store.GetByEmail(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if !got.HasDeposited {
		t.Error("Expected HasDeposited to be true")
	}
}
