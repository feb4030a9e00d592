package interfaces

import (
	"context"
	"time"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
)

// Repository interfaces (adapter/postgres).

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int) (*domain.Order, error)
	GenerateOrderNumber(ctx context.Context) (string, error)
	UpdateStatusWithLog(ctx context.Context, order *domain.Order, status domain.Status, changedBy string) error
	AddItems(ctx context.Context, orderID int, items []domain.OrderItem) error
	CancelItem(ctx context.Context, orderID, itemID int) error
	CancelOption(ctx context.Context, orderID, itemID, optionID int) error
	GetStatusHistory(ctx context.Context, orderID int) ([]*domain.StatusLog, error)
}

type BillingRepository interface {
	Create(ctx context.Context, billing *domain.Billing) error
	Update(ctx context.Context, billing *domain.Billing) error
	FindByOrderID(ctx context.Context, orderID int) (*domain.Billing, error)
	GenerateReceiptNumber(ctx context.Context) (string, error)
	// RevenueByPaymentType sums paid totals for the outlet's calendar
	// date, grouped by payment type.
	RevenueByPaymentType(ctx context.Context, outletID int, date time.Time) (map[domain.PaymentType]int64, error)
}

type ReconciliationRepository interface {
	Find(ctx context.Context, outletID int, date time.Time) (*domain.DailyCashRecord, error)
	// Upsert creates the record on first submission and overwrites on
	// re-submission after unlock.
	Upsert(ctx context.Context, record *domain.DailyCashRecord) error
	Unlock(ctx context.Context, outletID int, date time.Time) error
	// PreviousRemaining returns the remaining balance of the latest
	// record before the date, zero when none exists.
	PreviousRemaining(ctx context.Context, outletID int, date time.Time) (int64, error)
}
