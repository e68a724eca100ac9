package domain

import "time"

// SaleState is the process-wide sale aggregate.
// Corresponds to token_stats table in PostgreSQL.
type SaleState struct {
	ID                        string    // PRIMARY KEY
	TotalSupply               int64     // hard cap of sellable tokens
	SoldSupply                int64     // whole tokens settled so far
	CurrentPrice              float64   // unit price in USDC
	TotalDividendsDistributed float64   // cumulative dividends paid out
	ActiveHolders             int64     // holders eligible for dividends
	UpdatedAt                 time.Time // last settlement time
}

// Initial sale parameters. The launch snapshot the aggregate is seeded from.
const (
	InitialTotalSupply   int64   = 600_000_000_000
	InitialSoldSupply    int64   = 271_838_183_177
	InitialPrice         float64 = 17.0000
	InitialDividends     float64 = 2_847_293.47
	InitialActiveHolders int64   = 15_847
)

// PriceSample is one point of the published price history.
// Corresponds to price_history table; retrieval is newest-first.
type PriceSample struct {
	ID            string    // PRIMARY KEY
	Price         float64   // unit price in USDC
	ChangePercent float64   // relative change vs previous sample
	Timestamp     time.Time // sample time
}
