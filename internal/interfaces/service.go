package interfaces

import (
	"context"
	"time"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
)

// Service interfaces (business logic).

type LifecycleService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	RequestTransition(ctx context.Context, cmd TransitionCommand) (*domain.Order, error)
	AddItems(ctx context.Context, cmd AddItemsCommand) (*domain.Order, error)
	CancelItem(ctx context.Context, cmd CancelItemCommand) (*domain.Order, error)
	GetStatusHistory(ctx context.Context, orderID int) ([]*domain.StatusLog, error)
}

type BillingService interface {
	CommitBilling(ctx context.Context, cmd CommitBillingCommand) (*domain.Billing, error)
}

type ReconciliationService interface {
	RevenueSummary(ctx context.Context, outletID int, date time.Time) (*RevenueSummary, error)
	Submit(ctx context.Context, cmd SubmitCashCommand) (*domain.DailyCashRecord, error)
	Unlock(ctx context.Context, cmd UnlockCommand) (*domain.DailyCashRecord, error)
}

// TokenVerifier resolves a bearer credential to an actor. Implementations
// are owned by the auth layer; a session failure must surface as
// domain.KindSession so callers can force re-authentication.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Actor, error)
}

// Commands.

type CreateOrderCommand struct {
	OutletID     int
	OrderType    string
	TableNumber  *int
	CustomerName *string
	OnlineCode   *string
	Remark       *string
	DiscountPct  *float64
	Items        []OrderItemCommand
	Actor        domain.Actor
}

type OrderItemCommand struct {
	FoodID    int
	Name      string
	Category  string
	Quantity  int
	UnitPrice int64
	Options   []OrderItemOptionCommand
}

type OrderItemOptionCommand struct {
	Name      string
	Quantity  int
	UnitPrice int64
}

type TransitionCommand struct {
	OrderID int
	Target  domain.Status
	// Confirmed must be true for a cancel; the propose step never
	// dispatches.
	Confirmed bool
	Actor     domain.Actor
}

type AddItemsCommand struct {
	OrderID int
	Items   []OrderItemCommand
	Actor   domain.Actor
}

type CancelItemCommand struct {
	OrderID  int
	ItemID   int
	OptionID *int
	Actor    domain.Actor
}

type CommitBillingCommand struct {
	OrderID int
	// IdempotencyKey deduplicates repeat submissions; generated when
	// empty.
	IdempotencyKey string
	PaymentType    domain.PaymentType
	AmountPaid     int64
	ManualDiscount int64
	Remark         *string
	Actor          domain.Actor
}

type SubmitCashCommand struct {
	OutletID    int
	Date        time.Time
	CashDeposit *int64
	Adjustment  int64
	Remarks     map[domain.PaymentType]string
	Actor       domain.Actor
}

type UnlockCommand struct {
	OutletID int
	Date     time.Time
	Actor    domain.Actor
}

// RevenueSummary is the read model behind the reconciliation screen.
type RevenueSummary struct {
	OutletID       int
	Date           time.Time
	ByPaymentType  map[domain.PaymentType]int64
	TotalRevenue   int64
	CashRevenue    int64
	Reconciliation *domain.DailyCashRecord
}
