package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/logger"
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.LifecycleService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.LifecycleService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type CreateOrderRequest struct {
	OutletID     int                `json:"outlet_id"`
	OrderType    string             `json:"order_type"`
	TableNumber  *int               `json:"table_number,omitempty"`
	CustomerName *string            `json:"customer_name,omitempty"`
	OnlineCode   *string            `json:"online_code,omitempty"`
	Remark       *string            `json:"remark,omitempty"`
	DiscountPct  *float64           `json:"discount_pct,omitempty"`
	Items        []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	FoodID    int                 `json:"food_id"`
	Name      string              `json:"name"`
	Category  string              `json:"category"`
	Quantity  int                 `json:"quantity"`
	UnitPrice int64               `json:"unit_price"`
	Options   []ItemOptionRequest `json:"options,omitempty"`
}

type ItemOptionRequest struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type TransitionRequest struct {
	Status    string `json:"status"`
	Confirmed bool   `json:"confirmed"`
}

type AddItemsRequest struct {
	Items []OrderItemRequest `json:"items"`
}

type CancelItemRequest struct {
	OptionID *int `json:"option_id,omitempty"`
}

type OrderResponse struct {
	ID           int                 `json:"id"`
	Number       string              `json:"number"`
	OutletID     int                 `json:"outlet_id"`
	OrderType    string              `json:"order_type"`
	Status       string              `json:"status"`
	TableNumber  *int                `json:"table_number,omitempty"`
	CustomerName *string             `json:"customer_name,omitempty"`
	OnlineCode   *string             `json:"online_code,omitempty"`
	WaiterName   string              `json:"waiter_name"`
	Remark       *string             `json:"remark,omitempty"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type OrderItemResponse struct {
	ID        int                  `json:"id"`
	Name      string               `json:"name"`
	Category  string               `json:"category"`
	Quantity  int                  `json:"quantity"`
	UnitPrice int64                `json:"unit_price"`
	Total     int64                `json:"total"`
	Status    string               `json:"status"`
	Options   []ItemOptionResponse `json:"options,omitempty"`
}

type ItemOptionResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
	Status    string `json:"status"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondError(w, domain.NewSessionError(fmt.Errorf("no actor in context")))
		return
	}

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "body", Message: "invalid request body"}})
		return
	}

	if validationErrors := validateCreateOrderRequest(req); len(validationErrors) > 0 {
		h.logger.Error("validation_failed", "Order validation failed", "", map[string]interface{}{
			"errors": validationErrors,
		}, fmt.Errorf("validation failed"))
		respondValidationErrors(w, validationErrors)
		return
	}

	cmd := interfaces.CreateOrderCommand{
		OutletID:     req.OutletID,
		OrderType:    req.OrderType,
		TableNumber:  req.TableNumber,
		CustomerName: trimPtr(req.CustomerName),
		OnlineCode:   trimPtr(req.OnlineCode),
		Remark:       req.Remark,
		DiscountPct:  req.DiscountPct,
		Items:        convertItemsToCommand(req.Items),
		Actor:        actor,
	}

	order, err := h.service.CreateOrder(r.Context(), cmd)
	if err != nil {
		h.logger.Error("order_creation_failed", "Failed to create order", "", nil, err)
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "id", Message: "invalid order id"}})
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondError(w, domain.NewSessionError(fmt.Errorf("no actor in context")))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "id", Message: "invalid order id"}})
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "body", Message: "invalid request body"}})
		return
	}

	order, err := h.service.RequestTransition(r.Context(), interfaces.TransitionCommand{
		OrderID:   id,
		Target:    domain.Status(strings.ToUpper(req.Status)),
		Confirmed: req.Confirmed,
		Actor:     actor,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondError(w, domain.NewSessionError(fmt.Errorf("no actor in context")))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "id", Message: "invalid order id"}})
		return
	}

	var req AddItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "body", Message: "invalid request body"}})
		return
	}
	if validationErrors := validateItems(req.Items); len(validationErrors) > 0 {
		respondValidationErrors(w, validationErrors)
		return
	}

	order, err := h.service.AddItems(r.Context(), interfaces.AddItemsCommand{
		OrderID: id,
		Items:   convertItemsToCommand(req.Items),
		Actor:   actor,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) CancelItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondError(w, domain.NewSessionError(fmt.Errorf("no actor in context")))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "id", Message: "invalid order id"}})
		return
	}
	itemID, err := strconv.Atoi(chi.URLParam(r, "itemID"))
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "item_id", Message: "invalid item id"}})
		return
	}

	var req CancelItemRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondValidationErrors(w, []ValidationError{{Field: "body", Message: "invalid request body"}})
			return
		}
	}

	order, err := h.service.CancelItem(r.Context(), interfaces.CancelItemCommand{
		OrderID:  id,
		ItemID:   itemID,
		OptionID: req.OptionID,
		Actor:    actor,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

type StatusLogResponse struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
	Notes     *string   `json:"notes,omitempty"`
}

func (h *OrderHandler) GetStatusHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondValidationErrors(w, []ValidationError{{Field: "id", Message: "invalid order id"}})
		return
	}

	logs, err := h.service.GetStatusHistory(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]StatusLogResponse, 0, len(logs))
	for _, log := range logs {
		resp = append(resp, StatusLogResponse{
			Status:    string(log.Status),
			ChangedBy: log.ChangedBy,
			ChangedAt: log.ChangedAt,
			Notes:     log.Notes,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func validateCreateOrderRequest(req CreateOrderRequest) []ValidationError {
	var errs []ValidationError

	if req.OutletID < 1 {
		errs = append(errs, ValidationError{Field: "outlet_id", Message: "outlet id is required"})
	}

	if !domain.OrderType(req.OrderType).Valid() {
		errs = append(errs, ValidationError{Field: "order_type", Message: "invalid order type"})
	}

	errs = append(errs, validateItems(req.Items)...)
	return errs
}

func validateItems(items []OrderItemRequest) []ValidationError {
	var errs []ValidationError

	if len(items) < 1 {
		errs = append(errs, ValidationError{Field: "items", Message: "order must contain at least 1 item"})
	}

	for i, item := range items {
		itemPrefix := fmt.Sprintf("items[%d]", i)

		if strings.TrimSpace(item.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.name", itemPrefix),
				Message: "item name is required",
			})
		}
		if item.Quantity < 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.quantity", itemPrefix),
				Message: "item quantity must not be negative",
			})
		}
		if item.UnitPrice < 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.unit_price", itemPrefix),
				Message: "item price must not be negative",
			})
		}

		for j, opt := range item.Options {
			optPrefix := fmt.Sprintf("%s.options[%d]", itemPrefix, j)
			if opt.Quantity < 0 {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.quantity", optPrefix),
					Message: "option quantity must not be negative",
				})
			}
			if opt.UnitPrice < 0 {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.unit_price", optPrefix),
					Message: "option price must not be negative",
				})
			}
		}
	}

	return errs
}

func convertItemsToCommand(items []OrderItemRequest) []interfaces.OrderItemCommand {
	result := make([]interfaces.OrderItemCommand, len(items))
	for i, item := range items {
		options := make([]interfaces.OrderItemOptionCommand, len(item.Options))
		for j, opt := range item.Options {
			options[j] = interfaces.OrderItemOptionCommand{
				Name:      strings.TrimSpace(opt.Name),
				Quantity:  opt.Quantity,
				UnitPrice: opt.UnitPrice,
			}
		}
		result[i] = interfaces.OrderItemCommand{
			FoodID:    item.FoodID,
			Name:      strings.TrimSpace(item.Name),
			Category:  strings.TrimSpace(item.Category),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Options:   options,
		}
	}
	return result
}

func toOrderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:           order.ID,
		Number:       order.Number,
		OutletID:     order.OutletID,
		OrderType:    string(order.Type),
		Status:       string(order.Status),
		TableNumber:  order.TableNumber,
		CustomerName: order.CustomerName,
		OnlineCode:   order.OnlineCode,
		WaiterName:   order.WaiterName,
		Remark:       order.Remark,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}

	for _, item := range order.Items {
		itemResp := OrderItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			Category:  item.Category,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
			Status:    string(item.Status),
		}
		for _, opt := range item.Options {
			itemResp.Options = append(itemResp.Options, ItemOptionResponse{
				ID:        opt.ID,
				Name:      opt.Name,
				Quantity:  opt.Quantity,
				UnitPrice: opt.UnitPrice,
				Total:     opt.Total,
				Status:    string(opt.Status),
			})
		}
		resp.Items = append(resp.Items, itemResp)
	}

	return resp
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
