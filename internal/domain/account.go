package domain

import "time"

// Account is a buyer identity keyed by email.
// Created on the first confirmed deposit for an email.
// Corresponds to users table in PostgreSQL.
type Account struct {
	ID           string    // PRIMARY KEY
	Email        string    // UNIQUE
	ReferralCode string    // UNIQUE, 5 chars [A-Z0-9]; empty until issued
	HasDeposited bool      // set on first confirmed deposit
	WalletPhrase []string  // 12 words, present only after a confirmation
	CreatedAt    time.Time // record creation time
	UpdatedAt    time.Time // last deposit-status change
}
