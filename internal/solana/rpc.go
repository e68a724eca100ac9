// Package solana talks to a Solana JSON-RPC node. The storefront uses it
// as the balance oracle for the deposit address.
package solana

import "context"

// BalanceClient defines the RPC surface the deposit flow needs.
type BalanceClient interface {
	// GetTokenBalance returns the token balance of the owner's account
	// for the given mint, in UI units. Returns ErrNoTokenAccount when
	// the owner holds no account for the mint.
	GetTokenBalance(ctx context.Context, owner, mint string) (float64, error)

	// GetSlot retrieves the current slot. Used as a liveness probe.
	GetSlot(ctx context.Context) (int64, error)
}

// TokenBalance is a parsed token-account balance.
type TokenBalance struct {
	// Account is the token account address holding the balance.
	Account string
	// Amount is the raw integer amount in base units.
	Amount string
	// Decimals is the mint's decimal count.
	Decimals int
	// UIAmount is the balance scaled by decimals.
	UIAmount float64
}
