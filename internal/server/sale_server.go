package server

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"bdc-storefront/internal/pricing"
	"bdc-storefront/internal/qr"
	"bdc-storefront/internal/sale"
	"bdc-storefront/pkg/errcodes"
	"bdc-storefront/pkg/httpx/reply"
	"bdc-storefront/pkg/httpx/req"
	"bdc-storefront/pkg/rest"
)

// Random amount bounds when the query leaves them out.
const (
	defaultRandomMin = 10.0
	defaultRandomMax = 1000.0
)

type SaleServer struct {
	sale *sale.Service
}

func NewSaleServer(saleService *sale.Service) SaleServer {
	return SaleServer{sale: saleService}
}

func (s SaleServer) getStats(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, newRESTStats(s.sale.Stats()))
	return nil
}

func (s SaleServer) getPriceHistory(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	history, err := s.sale.History(ctx, limit)
	if err != nil {
		return fmt.Errorf("sale.History: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPriceHistory(history))
	return nil
}

func (s SaleServer) postCalculatePurchase(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CalculatePurchaseRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	quote, err := s.sale.Quote(request.Amount)
	if err != nil {
		return failure.NewInvalidArgumentErrorFromError(
			fmt.Errorf("sale.Quote: %w", err),
			failure.WithCode(errcodes.InvalidPurchaseAmount),
			failure.WithDescription("Invalid purchase amount"),
		)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.CalculatePurchaseResponse{
		BdcAmount:     quote.TokenAmount,
		CurrentPrice:  quote.CurrentPrice,
		NewPrice:      quote.NewPrice,
		PriceIncrease: quote.PriceDelta,
	})
	return nil
}

func (s SaleServer) postPurchase(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.PurchaseRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	var code *string
	if request.ReferralCode != "" {
		code = &request.ReferralCode
	}
	var hash *string
	if request.TransactionHash != "" {
		hash = &request.TransactionHash
	}

	purchase, err := s.sale.RecordPurchase(ctx, request.Amount, request.Email, code, hash)
	if err != nil {
		return mapSaleError(err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPurchase(purchase))
	return nil
}

func (s SaleServer) getDepositAddress(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	address := s.sale.DepositAddress()
	dataURL, err := qr.DataURL(address, qr.DefaultSize)
	if err != nil {
		return fmt.Errorf("qr.DataURL: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.DepositAddress{
		Address: address,
		QRCode:  dataURL,
	})
	return nil
}

func (s SaleServer) getRandomAmount(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	min := queryFloat(r, "min", defaultRandomMin)
	max := queryFloat(r, "max", defaultRandomMax)
	if max < min {
		return failure.NewInvalidArgumentError(
			fmt.Sprintf("max %v below min %v", max, min),
			failure.WithCode(errcodes.ValidationError),
			failure.WithDescription("max must not be below min"),
		)
	}

	amount := rand.Float64()*(max-min) + min
	reply.JSON(ctx, w, http.StatusOK, rest.RandomAmount{
		Amount: round4(amount),
	})
	return nil
}

func (s SaleServer) getHealth(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.Health{Status: "ok"})
	return nil
}

func queryFloat(r *http.Request, name string, fallback float64) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		return fallback
	}
	return v
}

func mapSaleError(err error) error {
	switch {
	case errors.Is(err, sale.ErrInvalidEmail):
		return failure.NewInvalidArgumentErrorFromError(err,
			failure.WithCode(errcodes.InvalidEmail),
			failure.WithDescription("Invalid email address"),
		)
	case errors.Is(err, pricing.ErrInvalidAmount):
		return failure.NewInvalidArgumentErrorFromError(err,
			failure.WithCode(errcodes.InvalidPurchaseAmount),
			failure.WithDescription("Invalid purchase amount"),
		)
	case errors.Is(err, pricing.ErrSupplyExhausted):
		return failure.NewUnprocessableEntityError(err.Error(),
			failure.WithCode(errcodes.SupplyExhausted),
			failure.WithDescription("Sale supply exhausted"),
		)
	default:
		return err
	}
}
