package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bdc-storefront/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", handler(s.getStats))
		r.Get("/price-history", handler(s.getPriceHistory))
		r.Post("/calculate-purchase", handler(s.postCalculatePurchase))
		r.Post("/purchase", handler(s.postPurchase))

		r.Get("/deposit-address", handler(s.getDepositAddress))
		r.Get("/qr-code", handler(s.getDepositAddress))
		r.Get("/random-amount", handler(s.getRandomAmount))
		r.Post("/validate-deposit", handler(s.postValidateDeposit))

		r.Route("/deposit-sessions", func(r chi.Router) {
			r.Post("/", handler(s.postDepositSession))
			r.Get("/{id}", handler(s.getDepositSession))
			r.Post("/{id}/check", handler(s.postDepositSessionCheck))
			r.Delete("/{id}", handler(s.deleteDepositSession))
		})
	})

	r.Get("/health", handler(s.getHealth))
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
