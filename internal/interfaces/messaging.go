package interfaces

import (
	"context"
	"time"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
)

// Event messages (adapter/rabbitmq).

// OrderRefreshMessage tells dependent views to resynchronize from the
// source of truth instead of trusting their optimistic local copy. It is
// idempotent: consumers re-fetch, they never apply the payload.
type OrderRefreshMessage struct {
	CorrelationID string        `json:"correlation_id"`
	OrderID       int           `json:"order_id"`
	OrderNumber   string        `json:"order_number"`
	NewStatus     domain.Status `json:"new_status"`
	ChangedBy     string        `json:"changed_by"`
	Timestamp     time.Time     `json:"timestamp"`
}

// KitchenTicketMessage carries the active lines of an order, grouped by
// category for the kitchen stations. Canceled lines never appear.
type KitchenTicketMessage struct {
	CorrelationID string           `json:"correlation_id"`
	OrderNumber   string           `json:"order_number"`
	OrderType     domain.OrderType `json:"order_type"`
	TableNumber   *int             `json:"table_number,omitempty"`
	Groups        []TicketGroup    `json:"groups"`
	Timestamp     time.Time        `json:"timestamp"`
}

type TicketGroup struct {
	Category string       `json:"category"`
	Lines    []TicketLine `json:"lines"`
}

type TicketLine struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Options  []string `json:"options,omitempty"`
}

// ReceiptMessage is emitted after a billing commit for the printer lane.
type ReceiptMessage struct {
	CorrelationID string             `json:"correlation_id"`
	ReceiptNumber string             `json:"receipt_number"`
	OrderNumber   string             `json:"order_number"`
	Subtotal      int64              `json:"subtotal"`
	Tax           int64              `json:"tax"`
	Discount      int64              `json:"discount"`
	Total         int64              `json:"total"`
	AmountPaid    int64              `json:"amount_paid"`
	Change        int64              `json:"change"`
	PaymentType   domain.PaymentType `json:"payment_type"`
	CashierName   string             `json:"cashier_name"`
	PaidAt        time.Time          `json:"paid_at"`
}

// Messaging interfaces (adapter/rabbitmq).

type EventPublisher interface {
	PublishOrderRefresh(ctx context.Context, msg OrderRefreshMessage) error
	PublishKitchenTicket(ctx context.Context, msg KitchenTicketMessage) error
	PublishReceipt(ctx context.Context, msg ReceiptMessage) error
}

type EventConsumer interface {
	ConsumeKitchenTickets(ctx context.Context, handler TicketHandler) error
	ConsumeReceipts(ctx context.Context, handler ReceiptHandler) error
}

type (
	TicketHandler  func(ctx context.Context, body []byte) error
	ReceiptHandler func(ctx context.Context, body []byte) error
)
