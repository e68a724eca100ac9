// Package sale composes the pricing engine, the ledgers, and the balance
// oracle into the storefront's purchase and deposit flows.
package sale

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"bdc-storefront/internal/domain"
	"bdc-storefront/internal/observability"
	"bdc-storefront/internal/pricing"
	"bdc-storefront/internal/referral"
	"bdc-storefront/internal/solana"
	"bdc-storefront/internal/storage"
	"bdc-storefront/internal/wallet"
	"bdc-storefront/pkg/logx"
)

// Tolerance is the maximum absolute difference between the observed
// balance and the expected deposit amount that still confirms a deposit.
const Tolerance = 0.001

// NetworkFee is the fixed fee in USDC added on top of the base deposit
// amount to make each expected amount unique.
const NetworkFee = 0.0027

// ErrInvalidEmail is returned when the buyer email fails parsing.
var ErrInvalidEmail = errors.New("invalid email address")

// CheckStatus classifies one balance oracle check.
type CheckStatus string

// Check statuses.
const (
	StatusConfirmed   CheckStatus = "confirmed"
	StatusMismatch    CheckStatus = "mismatch"
	StatusNoDeposit   CheckStatus = "no_deposit"
	StatusOracleError CheckStatus = "oracle_error"
)

// CheckResult is the outcome of a single deposit check. Confirmation is
// present only when Status is StatusConfirmed.
type CheckResult struct {
	Status       CheckStatus
	ActualAmount float64
	Message      string
	Confirmation *Confirmation
}

// Confirmation carries everything handed to the buyer after a confirmed
// deposit.
type Confirmation struct {
	WalletPhrase     []string
	UserReferralCode string
	ReferralMessage  string
	Purchase         *domain.Purchase
}

// Service owns the purchase and deposit confirmation flows.
type Service struct {
	engine    *pricing.Engine
	purchases storage.PurchaseStore
	referrals *referral.Ledger
	oracle    solana.BalanceClient

	depositAddress string
	mint           string
	log            *slog.Logger
}

// NewService creates the sale service. The deposit address is the wallet
// buyers send USDC to; mint identifies the token being watched.
func NewService(
	engine *pricing.Engine,
	purchases storage.PurchaseStore,
	referrals *referral.Ledger,
	oracle solana.BalanceClient,
	depositAddress, mint string,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		engine:         engine,
		purchases:      purchases,
		referrals:      referrals,
		oracle:         oracle,
		depositAddress: depositAddress,
		mint:           mint,
		log:            log,
	}
}

// DepositAddress returns the wallet buyers deposit to.
func (s *Service) DepositAddress() string {
	return s.depositAddress
}

// Quote computes a purchase preview without touching sale state.
func (s *Service) Quote(amount float64) (pricing.Quote, error) {
	q, err := s.engine.Quote(amount)
	if err == nil {
		observability.RecordQuote()
	}
	return q, err
}

// Stats returns the current sale state.
func (s *Service) Stats() domain.SaleState {
	return s.engine.Stats()
}

// History returns recent price samples, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]*domain.PriceSample, error) {
	return s.engine.History(ctx, limit)
}

// RecordPurchase settles a pre-validated purchase and appends it to the
// purchase ledger plus a price sample to the published history. This is
// the direct purchase path; deposits go through CheckDeposit. The
// transaction hash is the client-reported on-chain reference, stored
// verbatim when present.
func (s *Service) RecordPurchase(ctx context.Context, amount float64, email string, referralCode, transactionHash *string) (*domain.Purchase, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEmail, email)
	}

	settlement, err := s.engine.Settle(amount)
	if err != nil {
		observability.RecordSettlementError(settleReason(err))
		return nil, err
	}
	observability.RecordSettlement(settlement.State.SoldSupply, settlement.State.CurrentPrice)

	purchase := &domain.Purchase{
		ID:              uuid.NewString(),
		Amount:          amount,
		Price:           settlement.Price,
		TokenAmount:     settlement.TokenAmount,
		Email:           referral.NormalizeEmail(email),
		ReferralCode:    referralCode,
		TransactionHash: transactionHash,
		CreatedAt:       time.Now(),
	}
	if err := s.purchases.Insert(ctx, purchase); err != nil {
		return nil, fmt.Errorf("record purchase: %w", err)
	}

	if err := s.engine.RecordSample(ctx, settlement.Price, NetworkFee); err != nil {
		s.log.Warn("record price sample", logx.Error(err))
	}

	s.log.Info("purchase recorded",
		slog.String("purchase_id", purchase.ID),
		slog.Float64("amount", amount),
		slog.Float64("token_amount", settlement.TokenAmount),
	)
	return purchase, nil
}

// CheckDeposit asks the oracle for the deposit address balance and
// confirms the deposit when it matches the expected amount within
// Tolerance. All confirmation side effects complete before the result is
// returned, so a confirmed result is always fully settled.
func (s *Service) CheckDeposit(ctx context.Context, address string, expectedAmount float64, email, referralCode string) (*CheckResult, error) {
	started := time.Now()
	balance, err := s.oracle.GetTokenBalance(ctx, address, s.mint)
	if err != nil {
		if errors.Is(err, solana.ErrNoTokenAccount) {
			observability.RecordOracleCheck("no_account", time.Since(started))
			return &CheckResult{
				Status:  StatusNoDeposit,
				Message: "No USDC found in this address. Please make sure to deposit USDC to the provided address.",
			}, nil
		}
		observability.RecordOracleCheck("error", time.Since(started))
		s.log.Warn("balance oracle check failed", slog.String("address", address), logx.Error(err))
		return &CheckResult{
			Status:  StatusOracleError,
			Message: "Unable to check Solana network at this time. Please try again later.",
		}, nil
	}
	observability.RecordOracleCheck("ok", time.Since(started))

	if diff := balance - expectedAmount; diff > Tolerance || diff < -Tolerance {
		return &CheckResult{
			Status:       StatusMismatch,
			ActualAmount: balance,
			Message: fmt.Sprintf(
				"Balance found (%v USDC) but doesn't match expected amount (%v USDC). Please deposit the correct amount.",
				balance, expectedAmount),
		}, nil
	}

	confirmation, err := s.confirm(ctx, expectedAmount, email, referralCode)
	if err != nil {
		return nil, err
	}

	observability.RecordConfirmedDeposit()
	s.log.Info("deposit confirmed",
		slog.String("email", referral.NormalizeEmail(email)),
		slog.Float64("expected", expectedAmount),
		slog.Float64("actual", balance),
	)
	return &CheckResult{
		Status:       StatusConfirmed,
		ActualAmount: balance,
		Message:      "Deposit confirmed successfully! Access to full exchange akan segera diberikan.",
		Confirmation: confirmation,
	}, nil
}

// confirm applies all deposit side effects: settle the purchase, ensure
// the buyer account, generate the recovery phrase, and attribute the
// referral. Settlement runs first: when it fails, no account has been
// created or flagged, so a rejected deposit leaves no partial state.
func (s *Service) confirm(ctx context.Context, amount float64, email, referralCode string) (*Confirmation, error) {
	settlement, err := s.engine.Settle(amount)
	if err != nil {
		observability.RecordSettlementError(settleReason(err))
		return nil, err
	}
	observability.RecordSettlement(settlement.State.SoldSupply, settlement.State.CurrentPrice)

	phrase, err := wallet.NewPhrase()
	if err != nil {
		return nil, err
	}

	account, err := s.referrals.ConfirmDeposit(ctx, email, phrase)
	if err != nil {
		return nil, fmt.Errorf("confirm deposit account: %w", err)
	}

	referralMessage := ""
	var codePtr *string
	if referralCode != "" {
		msg, ok := s.referrals.Attribute(ctx, referralCode)
		if ok {
			referralMessage = msg
			observability.RecordAttribution("ok")
		} else {
			observability.RecordAttribution("unknown_code")
		}
		code := referralCode
		codePtr = &code
	}

	purchase := &domain.Purchase{
		ID:           uuid.NewString(),
		Amount:       amount,
		Price:        settlement.Price,
		TokenAmount:  settlement.TokenAmount,
		Email:        account.Email,
		ReferralCode: codePtr,
		CreatedAt:    time.Now(),
	}
	if err := s.purchases.Insert(ctx, purchase); err != nil {
		return nil, fmt.Errorf("record deposit purchase: %w", err)
	}

	return &Confirmation{
		WalletPhrase:     phrase,
		UserReferralCode: account.ReferralCode,
		ReferralMessage:  referralMessage,
		Purchase:         purchase,
	}, nil
}

func settleReason(err error) string {
	switch {
	case errors.Is(err, pricing.ErrSupplyExhausted):
		return "supply_exhausted"
	case errors.Is(err, pricing.ErrInvalidAmount):
		return "invalid_amount"
	default:
		return "other"
	}
}
