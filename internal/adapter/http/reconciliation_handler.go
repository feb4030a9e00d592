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

type ReconciliationHandler struct {
	service interfaces.ReconciliationService
	logger  logger.Logger
}

func NewReconciliationHandler(service interfaces.ReconciliationService, logger logger.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{
		service: service,
		logger:  logger,
	}
}

type SubmitCashRequest struct {
	Date        string            `json:"date"`
	CashDeposit *int64            `json:"cash_deposit"`
	Adjustment  int64             `json:"adjustment"`
	Remarks     map[string]string `json:"remarks,omitempty"`
}

type UnlockRequest struct {
	Date string `json:"date"`
}

type DailyCashResponse struct {
	OutletID         int               `json:"outlet_id"`
	Date             string            `json:"date"`
	PreviousBalance  int64             `json:"previous_balance"`
	CashRevenue      int64             `json:"cash_revenue"`
	CashDeposit      int64             `json:"cash_deposit"`
	Adjustment       int64             `json:"adjustment"`
	RemainingBalance int64             `json:"remaining_balance"`
	Remarks          map[string]string `json:"remarks,omitempty"`
	Locked           bool              `json:"locked"`
	SubmittedBy      string            `json:"submitted_by"`
}

type RevenueSummaryResponse struct {
	OutletID       int                `json:"outlet_id"`
	Date           string             `json:"date"`
	ByPaymentType  map[string]int64   `json:"by_payment_type"`
	TotalRevenue   int64              `json:"total_revenue"`
	CashRevenue    int64              `json:"cash_revenue"`
	Reconciliation *DailyCashResponse `json:"reconciliation,omitempty"`
}

func (h *ReconciliationHandler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	outletID, err := strconv.Atoi(chi.URLParam(r, "outletID"))
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "outlet_id", Message: "invalid outlet id"}})
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "date", Message: "date must be YYYY-MM-DD"}})
		return
	}

	summary, err := h.service.RevenueSummary(r.Context(), outletID, date)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := RevenueSummaryResponse{
		OutletID:      summary.OutletID,
		Date:          summary.Date.Format("2006-01-02"),
		ByPaymentType: make(map[string]int64, len(summary.ByPaymentType)),
		TotalRevenue:  summary.TotalRevenue,
		CashRevenue:   summary.CashRevenue,
	}
	for paymentType, amount := range summary.ByPaymentType {
		resp.ByPaymentType[string(paymentType)] = amount
	}
	if summary.Reconciliation != nil {
		record := toDailyCashResponse(summary.Reconciliation)
		resp.Reconciliation = &record
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ReconciliationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondError(w, domain.NewSessionError(fmt.Errorf("no actor in context")))
		return
	}

	outletID, err := strconv.Atoi(chi.URLParam(r, "outletID"))
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "outlet_id", Message: "invalid outlet id"}})
		return
	}

	var req SubmitCashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "body", Message: "invalid request body"}})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "date", Message: "date must be YYYY-MM-DD"}})
		return
	}

	remarks := make(map[domain.PaymentType]string, len(req.Remarks))
	for paymentType, remark := range req.Remarks {
		remarks[domain.PaymentType(paymentType)] = remark
	}

	record, err := h.service.Submit(r.Context(), interfaces.SubmitCashCommand{
		OutletID:    outletID,
		Date:        date,
		CashDeposit: req.CashDeposit,
		Adjustment:  req.Adjustment,
		Remarks:     remarks,
		Actor:       actor,
	})
	if err != nil {
		h.logger.Error("reconciliation_submit_failed", "Failed to submit daily cash", "", map[string]interface{}{
			"outlet_id": outletID,
		}, err)
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDailyCashResponse(record))
}

func (h *ReconciliationHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondError(w, domain.NewSessionError(fmt.Errorf("no actor in context")))
		return
	}

	outletID, err := strconv.Atoi(chi.URLParam(r, "outletID"))
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "outlet_id", Message: "invalid outlet id"}})
		return
	}

	var req UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "body", Message: "invalid request body"}})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "date", Message: "date must be YYYY-MM-DD"}})
		return
	}

	record, err := h.service.Unlock(r.Context(), interfaces.UnlockCommand{
		OutletID: outletID,
		Date:     date,
		Actor:    actor,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDailyCashResponse(record))
}

func toDailyCashResponse(record *domain.DailyCashRecord) DailyCashResponse {
	resp := DailyCashResponse{
		OutletID:         record.OutletID,
		Date:             record.Date.Format("2006-01-02"),
		PreviousBalance:  record.PreviousBalance,
		CashRevenue:      record.CashRevenue,
		CashDeposit:      record.CashDeposit,
		Adjustment:       record.Adjustment,
		RemainingBalance: record.RemainingBalance,
		Locked:           record.Locked,
		SubmittedBy:      record.SubmittedBy,
	}
	if len(record.Remarks) > 0 {
		resp.Remarks = make(map[string]string, len(record.Remarks))
		for paymentType, remark := range record.Remarks {
			resp.Remarks[string(paymentType)] = remark
		}
	}
	return resp
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return time.Parse("2006-01-02", value)
}
