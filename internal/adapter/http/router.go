package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/logger"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

// NewRouter wires the engine's HTTP surface. Every route sits behind the
// bearer middleware; a 401 response means the stored credential must be
// dropped.
func NewRouter(
	orders *OrderHandler,
	billing *BillingHandler,
	reconciliation *ReconciliationHandler,
	verifier interfaces.TokenVerifier,
	lgr logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(RecoveryMiddleware(lgr))
	r.Use(LoggingMiddleware(lgr))
	r.Use(AuthMiddleware(verifier, lgr))

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orders.CreateOrder)
		r.Get("/{id}", orders.GetOrder)
		r.Get("/{id}/history", orders.GetStatusHistory)
		r.Patch("/{id}/status", orders.UpdateStatus)
		r.Post("/{id}/items", orders.AddItems)
		r.Patch("/{id}/items/{itemID}/cancel", orders.CancelItem)
		r.Post("/{id}/billing", billing.CommitBilling)
		r.Put("/{id}/billing", billing.CommitBilling)
	})

	r.Route("/outlets/{outletID}", func(r chi.Router) {
		r.Get("/revenue", reconciliation.GetRevenue)
		r.Post("/reconciliation", reconciliation.Submit)
		r.Post("/reconciliation/unlock", reconciliation.Unlock)
	})

	return r
}
