// Package pricing owns the sale-wide state and the bonding-curve price rule.
//
// The curve is deliberately size-insensitive: every settlement nudges the
// price up by a fixed relative increment (constant market drift per
// transaction), not by a supply-proportional amount.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/storage"
)

// Sale parameters.
const (
	// FluctuationRate is the relative price drift applied per settlement (0.0027%).
	FluctuationRate = 0.000027

	// MinPrice is the floor the unit price never drops below.
	MinPrice = 0.01

	// MinPurchaseAmount is the published minimum purchase in USDC.
	MinPurchaseAmount = 70.0
)

// Pricing errors.
var (
	// ErrInvalidAmount is returned for non-positive or below-minimum amounts.
	ErrInvalidAmount = errors.New("invalid purchase amount")

	// ErrSupplyExhausted is returned when a settlement would push sold
	// supply past the total supply.
	ErrSupplyExhausted = errors.New("sale supply exhausted")
)

// Quote is a side-effect-free projection of a purchase at the current price.
type Quote struct {
	TokenAmount  float64 // BDC bought, rounded to 4 decimals
	CurrentPrice float64 // unit price the quote was computed against
	NewPrice     float64 // price after a hypothetical settlement (not applied)
	PriceDelta   float64 // NewPrice - CurrentPrice, rounded to 6 decimals
}

// Settlement is the result of applying a confirmed purchase to the sale.
type Settlement struct {
	TokenAmount float64         // BDC bought, rounded to 4 decimals
	Price       float64         // unit price the purchase settled at
	State       domain.SaleState // sale state after the settlement
}

// Engine owns the SaleState aggregate. All mutation goes through Settle,
// which serializes against concurrent settlements; quoting reads a
// consistent snapshot.
type Engine struct {
	mu      sync.RWMutex
	state   domain.SaleState
	history storage.PriceHistoryStore
}

// NewEngine creates an engine seeded with the launch sale state.
func NewEngine(history storage.PriceHistoryStore) *Engine {
	return &Engine{
		state: domain.SaleState{
			ID:                        uuid.NewString(),
			TotalSupply:               domain.InitialTotalSupply,
			SoldSupply:                domain.InitialSoldSupply,
			CurrentPrice:              domain.InitialPrice,
			TotalDividendsDistributed: domain.InitialDividends,
			ActiveHolders:             domain.InitialActiveHolders,
			UpdatedAt:                 time.Now(),
		},
		history: history,
	}
}

// NextPrice applies the bonding curve: price plus a fixed relative
// increment, floored at MinPrice. The purchase amount does not influence
// the step; it is part of the signature because the curve is defined per
// settlement, and a future curve may consume it.
func NextPrice(price, amount float64) float64 {
	_ = amount
	next := price + price*FluctuationRate
	return math.Max(next, MinPrice)
}

// Quote computes a purchase projection without mutating sale state.
// Fails with ErrInvalidAmount when amount is not positive or below the
// published minimum.
func (e *Engine) Quote(amount float64) (Quote, error) {
	if amount <= 0 || amount < MinPurchaseAmount {
		return Quote{}, fmt.Errorf("%w: %.4f (minimum %.0f USDC)", ErrInvalidAmount, amount, MinPurchaseAmount)
	}

	e.mu.RLock()
	price := e.state.CurrentPrice
	e.mu.RUnlock()

	next := NextPrice(price, amount)
	return Quote{
		TokenAmount:  round4(amount / price),
		CurrentPrice: price,
		NewPrice:     next,
		PriceDelta:   round6(next - price),
	}, nil
}

// Settle applies a confirmed purchase: increments sold supply by the whole
// tokens bought at the price in effect and advances the price along the
// curve. The read-compute-write sequence holds the engine lock for its
// whole duration, so concurrent settlements apply strictly one after
// another.
func (e *Engine) Settle(amount float64) (Settlement, error) {
	if amount <= 0 {
		return Settlement{}, fmt.Errorf("%w: %.4f", ErrInvalidAmount, amount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	price := e.state.CurrentPrice
	tokens := amount / price
	sold := int64(math.Floor(tokens))

	if e.state.SoldSupply+sold > e.state.TotalSupply {
		return Settlement{}, fmt.Errorf("%w: %d sold of %d", ErrSupplyExhausted, e.state.SoldSupply, e.state.TotalSupply)
	}

	e.state.SoldSupply += sold
	e.state.CurrentPrice = NextPrice(price, amount)
	e.state.UpdatedAt = time.Now()

	return Settlement{
		TokenAmount: round4(tokens),
		Price:       price,
		State:       e.state,
	}, nil
}

// Stats returns a snapshot of the sale state.
func (e *Engine) Stats() domain.SaleState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// RecordSample appends a price sample to the published history.
func (e *Engine) RecordSample(ctx context.Context, price, changePercent float64) error {
	return e.history.Insert(ctx, &domain.PriceSample{
		ID:            uuid.NewString(),
		Price:         price,
		ChangePercent: changePercent,
		Timestamp:     time.Now(),
	})
}

// History returns up to limit samples, newest first. A non-positive limit
// falls back to the default window of 24 samples.
func (e *Engine) History(ctx context.Context, limit int) ([]*domain.PriceSample, error) {
	if limit <= 0 {
		limit = 24
	}
	return e.history.GetRecent(ctx, limit)
}

// SeedHistory populates 24 hourly samples around the base price with small
// jitter so the history endpoint has data before the first settlement.
func (e *Engine) SeedHistory(ctx context.Context) error {
	e.mu.RLock()
	base := e.state.CurrentPrice
	e.mu.RUnlock()

	now := time.Now()
	for i := 0; i < 24; i++ {
		fluctuation := (rand.Float64() - 0.5) * FluctuationRate * 2
		sample := &domain.PriceSample{
			ID:            uuid.NewString(),
			Price:         base + base*fluctuation,
			ChangePercent: fluctuation * 100,
			Timestamp:     now.Add(-time.Duration(24-i) * time.Hour),
		}
		if err := e.history.Insert(ctx, sample); err != nil {
			return fmt.Errorf("seed price history: %w", err)
		}
	}
	return nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round6(v float64) float64 {
	return math.Round(v*1000000) / 1000000
}
