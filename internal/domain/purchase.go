package domain

import "time"

// Purchase represents one settled token purchase.
// Created exactly once per confirmed deposit; immutable afterwards.
// Corresponds to purchases table in PostgreSQL.
type Purchase struct {
	ID              string    // PRIMARY KEY
	Amount          float64   // payment in USDC
	Price           float64   // unit price at settlement
	TokenAmount     float64   // BDC bought, rounded to 4 decimals
	Email           string    // buyer email
	ReferralCode    *string   // code supplied by the buyer (nullable)
	TransactionHash *string   // on-chain tx hash when known (nullable)
	CreatedAt       time.Time // record creation time
}
