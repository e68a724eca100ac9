package server

import (
	"errors"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"bdc-storefront/internal/deposit"
	"bdc-storefront/internal/sale"
	"bdc-storefront/internal/solana"
	"bdc-storefront/pkg/errcodes"
	"bdc-storefront/pkg/httpx/reply"
	"bdc-storefront/pkg/httpx/req"
	"bdc-storefront/pkg/rest"
)

type DepositServer struct {
	sale     *sale.Service
	sessions *deposit.Manager
}

func NewDepositServer(saleService *sale.Service, sessions *deposit.Manager) DepositServer {
	return DepositServer{sale: saleService, sessions: sessions}
}

// postValidateDeposit is the single-shot check path: the client supplies
// the address and the exact expected amount, and gets the oracle verdict
// back immediately.
func (s DepositServer) postValidateDeposit(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ValidateDepositRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := solana.ValidateAddress(request.Address); err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("solana.ValidateAddress: %w", err),
			failure.WithCode(errcodes.InvalidAddress),
			failure.WithDescription("Invalid Solana address"),
		)
	}

	result, err := s.sale.CheckDeposit(ctx, request.Address, request.ExpectedAmount, request.Email, request.ReferralCode)
	if err != nil {
		return mapSaleError(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTCheckResult(result))
	return nil
}

func (s DepositServer) postDepositSession(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateDepositSessionRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	session, err := s.sessions.Create(request.Amount, request.Email, request.ReferralCode)
	if err != nil {
		if errors.Is(err, deposit.ErrInvalidAmount) {
			return failure.NewInvalidArgumentErrorFromError(
				fmt.Errorf("sessions.Create: %w", err),
				failure.WithCode(errcodes.InvalidDepositAmount),
				failure.WithDescription("Invalid deposit amount"),
			)
		}
		return fmt.Errorf("sessions.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTSession(session.Snapshot()))
	return nil
}

func (s DepositServer) getDepositSession(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	session, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		return sessionNotFound(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSession(session.Snapshot()))
	return nil
}

func (s DepositServer) postDepositSessionCheck(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	snapshot, err := s.sessions.Check(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return sessionNotFound(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTSession(snapshot))
	return nil
}

func (s DepositServer) deleteDepositSession(w http.ResponseWriter, r *http.Request) error {
	if err := s.sessions.Close(chi.URLParam(r, "id")); err != nil {
		return sessionNotFound(err)
	}

	reply.NoContent(w)
	return nil
}

func sessionNotFound(err error) error {
	if errors.Is(err, deposit.ErrSessionNotFound) {
		return failure.NewNotFoundError(err.Error(),
			failure.WithCode(errcodes.SessionNotFound),
			failure.WithDescription("Deposit session not found"),
		)
	}
	return err
}
