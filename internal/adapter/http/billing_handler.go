package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/logger"
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

type BillingHandler struct {
	service interfaces.BillingService
	logger  logger.Logger
}

func NewBillingHandler(service interfaces.BillingService, logger logger.Logger) *BillingHandler {
	return &BillingHandler{
		service: service,
		logger:  logger,
	}
}

type CommitBillingRequest struct {
	PaymentType    string  `json:"payment_type,omitempty"`
	AmountPaid     int64   `json:"amount_paid"`
	Discount       int64   `json:"discount"`
	Remark         *string `json:"remark,omitempty"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
}

type BillingResponse struct {
	ID            int       `json:"id"`
	OrderID       int       `json:"order_id"`
	ReceiptNumber string    `json:"receipt_number"`
	Subtotal      int64     `json:"subtotal"`
	Tax           int64     `json:"tax"`
	Discount      int64     `json:"discount"`
	Total         int64     `json:"total"`
	AmountPaid    int64     `json:"amount_paid"`
	Change        int64     `json:"change"`
	PaymentType   string    `json:"payment_type"`
	CashierName   string    `json:"cashier_name"`
	Remark        *string   `json:"remark,omitempty"`
	PaidAt        time.Time `json:"paid_at"`
}

// CommitBilling serves both the create (POST) and amend (PUT) paths; the
// session decides which persistence verb applies from the order's current
// billing state.
func (h *BillingHandler) CommitBilling(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondError(w, domain.NewSessionError(fmt.Errorf("no actor in context")))
		return
	}

	orderID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "id", Message: "invalid order id"}})
		return
	}

	var req CommitBillingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "body", Message: "invalid request body"}})
		return
	}

	if req.PaymentType != "" && !domain.PaymentType(req.PaymentType).Valid() {
		respondValidationErrors(w, []ValidationError{{Field: "payment_type", Message: "unknown payment type"}})
		return
	}

	billing, err := h.service.CommitBilling(r.Context(), interfaces.CommitBillingCommand{
		OrderID:        orderID,
		IdempotencyKey: req.IdempotencyKey,
		PaymentType:    domain.PaymentType(req.PaymentType),
		AmountPaid:     req.AmountPaid,
		ManualDiscount: req.Discount,
		Remark:         req.Remark,
		Actor:          actor,
	})
	if err != nil {
		h.logger.Error("billing_commit_failed", "Failed to commit billing", "", map[string]interface{}{
			"order_id": orderID,
		}, err)
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}

	writeJSON(w, status, BillingResponse{
		ID:            billing.ID,
		OrderID:       billing.OrderID,
		ReceiptNumber: billing.ReceiptNumber,
		Subtotal:      billing.Subtotal,
		Tax:           billing.Tax,
		Discount:      billing.Discount,
		Total:         billing.Total,
		AmountPaid:    billing.AmountPaid,
		Change:        billing.Change,
		PaymentType:   string(billing.PaymentType),
		CashierName:   billing.CashierName,
		Remark:        billing.Remark,
		PaidAt:        billing.PaidAt,
	})
}
