package server

import (
	"math"

	"bdc-storefront/internal/deposit"
	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/sale"
	"bdc-storefront/pkg/rest"
)

func newRESTStats(state domain.SaleState) rest.Stats {
	return rest.Stats{
		TotalSupply:               state.TotalSupply,
		SoldSupply:                state.SoldSupply,
		CurrentPrice:              state.CurrentPrice,
		TotalDividendsDistributed: state.TotalDividendsDistributed,
		ActiveDividendHolders:     state.ActiveHolders,
		UpdatedAt:                 state.UpdatedAt,
	}
}

func newRESTPriceHistory(samples []*domain.PriceSample) []rest.PriceSample {
	out := make([]rest.PriceSample, len(samples))
	for i, s := range samples {
		out[i] = rest.PriceSample{
			Price:         s.Price,
			ChangePercent: s.ChangePercent,
			Timestamp:     s.Timestamp,
		}
	}
	return out
}

func newRESTPurchase(p *domain.Purchase) rest.Purchase {
	return rest.Purchase{
		ID:              p.ID,
		Amount:          p.Amount,
		Price:           p.Price,
		BdcAmount:       p.TokenAmount,
		Email:           p.Email,
		ReferralCode:    p.ReferralCode,
		TransactionHash: p.TransactionHash,
		CreatedAt:       p.CreatedAt,
	}
}

func newRESTCheckResult(result *sale.CheckResult) rest.ValidateDepositResponse {
	response := rest.ValidateDepositResponse{
		IsValid:      result.Status == sale.StatusConfirmed,
		ActualAmount: result.ActualAmount,
		Message:      result.Message,
	}
	if c := result.Confirmation; c != nil {
		response.WalletPhrase = c.WalletPhrase
		response.UserReferralCode = c.UserReferralCode
		response.ReferralMessage = c.ReferralMessage
	}
	return response
}

func newRESTSession(snapshot deposit.Snapshot) rest.DepositSession {
	session := rest.DepositSession{
		ID:               snapshot.ID,
		Address:          snapshot.Address,
		BaseAmount:       snapshot.BaseAmount,
		ExpectedAmount:   snapshot.ExpectedAmount,
		Email:            snapshot.Email,
		Status:           string(snapshot.Status),
		Message:          snapshot.Message,
		RemainingSeconds: snapshot.RemainingSeconds,
		AttemptCount:     snapshot.AttemptCount,
		CreatedAt:        snapshot.CreatedAt,
	}
	if snapshot.Result != nil {
		result := newRESTCheckResult(snapshot.Result)
		session.Result = &result
	}
	return session
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
