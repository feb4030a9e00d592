package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

type billingRepository struct {
	db DB
}

func NewBillingRepository(db DB) interfaces.BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) Create(ctx context.Context, billing *domain.Billing) error {
	query := `
		INSERT INTO billings (order_id, outlet_id, receipt_number, idempotency_key,
		                      subtotal, tax, discount, total, amount_paid, change,
		                      payment_type, cashier_id, cashier_name, remark, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		billing.OrderID, billing.OutletID, billing.ReceiptNumber, billing.IdempotencyKey,
		billing.Subtotal, billing.Tax, billing.Discount, billing.Total,
		billing.AmountPaid, billing.Change, billing.PaymentType,
		billing.CashierID, billing.CashierName, billing.Remark, billing.PaidAt,
	).Scan(&billing.ID)
	if err != nil {
		return fmt.Errorf("failed to insert billing: %w", err)
	}
	return nil
}

func (r *billingRepository) Update(ctx context.Context, billing *domain.Billing) error {
	query := `
		UPDATE billings
		SET idempotency_key = $1, subtotal = $2, tax = $3, discount = $4, total = $5,
		    amount_paid = $6, change = $7, payment_type = $8, cashier_id = $9,
		    cashier_name = $10, remark = $11, paid_at = $12
		WHERE id = $13
	`
	tag, err := r.db.Exec(ctx, query,
		billing.IdempotencyKey, billing.Subtotal, billing.Tax, billing.Discount,
		billing.Total, billing.AmountPaid, billing.Change, billing.PaymentType,
		billing.CashierID, billing.CashierName, billing.Remark, billing.PaidAt,
		billing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update billing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("billing %d not found", billing.ID)
	}
	return nil
}

// FindByOrderID returns nil without error when the order has no billing
// yet; the session uses that to pick create over update.
func (r *billingRepository) FindByOrderID(ctx context.Context, orderID int) (*domain.Billing, error) {
	query := `
		SELECT id, order_id, outlet_id, receipt_number, idempotency_key,
		       subtotal, tax, discount, total, amount_paid, change,
		       payment_type, cashier_id, cashier_name, remark, paid_at
		FROM billings
		WHERE order_id = $1
	`

	var b domain.Billing
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&b.ID, &b.OrderID, &b.OutletID, &b.ReceiptNumber, &b.IdempotencyKey,
		&b.Subtotal, &b.Tax, &b.Discount, &b.Total, &b.AmountPaid, &b.Change,
		&b.PaymentType, &b.CashierID, &b.CashierName, &b.Remark, &b.PaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load billing: %w", err)
	}
	return &b, nil
}

func (r *billingRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	now := time.Now().UTC()
	prefix := fmt.Sprintf("RCP_%s_", now.Format("20060102"))

	query := `
		SELECT COUNT(*) FROM billings
		WHERE receipt_number LIKE $1 AND DATE(paid_at) = $2
	`

	var count int
	err := r.db.QueryRow(ctx, query, prefix+"%", now.Format("2006-01-02")).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count billings: %w", err)
	}

	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

func (r *billingRepository) RevenueByPaymentType(ctx context.Context, outletID int, date time.Time) (map[domain.PaymentType]int64, error) {
	query := `
		SELECT payment_type, COALESCE(SUM(total), 0)
		FROM billings
		WHERE outlet_id = $1 AND DATE(paid_at) = $2
		GROUP BY payment_type
	`

	rows, err := r.db.Query(ctx, query, outletID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query revenue: %w", err)
	}
	defer rows.Close()

	revenue := make(map[domain.PaymentType]int64)
	for rows.Next() {
		var paymentType domain.PaymentType
		var amount int64
		if err := rows.Scan(&paymentType, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan revenue row: %w", err)
		}
		revenue[paymentType] = amount
	}

	return revenue, nil
}
