// Package rest holds the wire types of the storefront HTTP API.
package rest

import "time"

type Stats struct {
	TotalSupply               int64     `json:"totalSupply"`
	SoldSupply                int64     `json:"soldSupply"`
	CurrentPrice              float64   `json:"currentPrice"`
	TotalDividendsDistributed float64   `json:"totalDividendsDistributed"`
	ActiveDividendHolders     int64     `json:"activeDividendHolders"`
	UpdatedAt                 time.Time `json:"updatedAt"`
}

type PriceSample struct {
	Price         float64   `json:"price"`
	ChangePercent float64   `json:"changePercent"`
	Timestamp     time.Time `json:"timestamp"`
}

type CalculatePurchaseRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type CalculatePurchaseResponse struct {
	BdcAmount     float64 `json:"bdcAmount"`
	CurrentPrice  float64 `json:"currentPrice"`
	NewPrice      float64 `json:"newPrice"`
	PriceIncrease float64 `json:"priceIncrease"`
}

// PurchaseRequest mirrors the Purchase entity on the wire. Price and
// bdcAmount are accepted but recomputed server-side at settlement; the
// client-quoted figures are never trusted.
type PurchaseRequest struct {
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	Price           float64 `json:"price,omitempty"`
	BdcAmount       float64 `json:"bdcAmount,omitempty"`
	Email           string  `json:"email" validate:"required,email"`
	ReferralCode    string  `json:"referralCode,omitempty"`
	TransactionHash string  `json:"transactionHash,omitempty"`
}

type Purchase struct {
	ID              string    `json:"id"`
	Amount          float64   `json:"amount"`
	Price           float64   `json:"price"`
	BdcAmount       float64   `json:"bdcAmount"`
	Email           string    `json:"email"`
	ReferralCode    *string   `json:"referralCode"`
	TransactionHash *string   `json:"transactionHash"`
	CreatedAt       time.Time `json:"createdAt"`
}

type DepositAddress struct {
	Address string `json:"address"`
	QRCode  string `json:"qrCode"`
}

type RandomAmount struct {
	Amount float64 `json:"amount"`
}

type ValidateDepositRequest struct {
	Address        string  `json:"address" validate:"required"`
	ExpectedAmount float64 `json:"expectedAmount" validate:"required,gt=0"`
	Email          string  `json:"email" validate:"required,email"`
	ReferralCode   string  `json:"referralCode,omitempty"`
}

type ValidateDepositResponse struct {
	IsValid          bool     `json:"isValid"`
	ActualAmount     float64  `json:"actualAmount,omitempty"`
	WalletPhrase     []string `json:"walletPhrase,omitempty"`
	UserReferralCode string   `json:"userReferralCode,omitempty"`
	ReferralMessage  string   `json:"referralMessage,omitempty"`
	Message          string   `json:"message"`
}

type CreateDepositSessionRequest struct {
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Email        string  `json:"email" validate:"required,email"`
	ReferralCode string  `json:"referralCode,omitempty"`
}

type DepositSession struct {
	ID               string                   `json:"id"`
	Address          string                   `json:"address"`
	BaseAmount       float64                  `json:"baseAmount"`
	ExpectedAmount   float64                  `json:"expectedAmount"`
	Email            string                   `json:"email"`
	Status           string                   `json:"status"`
	Message          string                   `json:"message"`
	RemainingSeconds int                      `json:"remainingSeconds"`
	AttemptCount     int                      `json:"attemptCount"`
	CreatedAt        time.Time                `json:"createdAt"`
	Result           *ValidateDepositResponse `json:"result,omitempty"`
}

type Health struct {
	Status string `json:"status"`
}
