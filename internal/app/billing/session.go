package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miruku-pixel/poddo-pos-engine/internal/adapter/logger"
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

// Session orchestrates the pricing calculator, discount policy and
// payment policy into a single committed Billing per order.
type Session struct {
	orders    interfaces.OrderRepository
	billings  interfaces.BillingRepository
	calc      *Calculator
	publisher interfaces.EventPublisher
	logger    logger.Logger

	mu       sync.Mutex
	inFlight map[int]struct{}
}

func NewSession(
	orders interfaces.OrderRepository,
	billings interfaces.BillingRepository,
	calc *Calculator,
	publisher interfaces.EventPublisher,
	logger logger.Logger,
) *Session {
	return &Session{
		orders:    orders,
		billings:  billings,
		calc:      calc,
		publisher: publisher,
		logger:    logger,
		inFlight:  make(map[int]struct{}),
	}
}

// CommitBilling validates and commits the settlement of an order. A
// repeat commit carrying the same idempotency key returns the stored
// record unchanged; a concurrent commit for the same order is rejected,
// not queued.
func (s *Session) CommitBilling(ctx context.Context, cmd interfaces.CommitBillingCommand) (*domain.Billing, error) {
	// 1. Per-order in-flight guard, released on every exit path.
	if !s.acquire(cmd.OrderID) {
		return nil, &domain.Error{Kind: domain.KindConflict, Message: domain.ErrBillingInFlight.Error(), Err: domain.ErrBillingInFlight}
	}
	defer s.release(cmd.OrderID)

	// 2. Load the order snapshot.
	order, err := s.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	// 3. Idempotent replay: same key, same answer.
	existing, err := s.billings.FindByOrderID(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up billing: %w", err)
	}
	if existing != nil && cmd.IdempotencyKey != "" && existing.IdempotencyKey == cmd.IdempotencyKey {
		s.logger.Debug("billing_replayed", "Duplicate commit returned stored billing", existing.ReceiptNumber, map[string]interface{}{
			"order_id": cmd.OrderID,
		})
		return existing, nil
	}

	if !order.HasActiveItems() {
		return nil, domain.NewValidationError("items", domain.ErrNoActiveItems.Error())
	}

	// 4. Price the order.
	quote, err := s.calc.Quote(order, cmd.ManualDiscount)
	if err != nil {
		return nil, err
	}
	if quote.Underflow > 0 {
		s.logger.Error("total_underflow", "Discount exceeds subtotal plus tax", "", map[string]interface{}{
			"order_id":  order.ID,
			"underflow": quote.Underflow,
		}, domain.NewValidationError("discount", "total would be negative"))
		return nil, domain.NewValidationError("discount", "discount exceeds subtotal plus tax")
	}

	// 5. Resolve the payment rule; a locked type may not be overridden.
	rule := ResolvePayment(order.Type)
	paymentType := cmd.PaymentType
	if paymentType == "" {
		paymentType = rule.Default
	}
	if rule.Locked && paymentType != rule.Default {
		return nil, domain.NewValidationError("payment_type", domain.ErrLockedPaymentOverride.Error())
	}
	if !rule.Locked && !rule.Allows(paymentType) {
		return nil, domain.NewValidationError("payment_type", "payment type is not selectable for this order type")
	}

	// 6. Amount paid mirrors total unless the type allows tendering.
	amountPaid := quote.Total
	if rule.AmountPaidEditable {
		amountPaid = cmd.AmountPaid
		if amountPaid < quote.Total {
			return nil, domain.NewValidationError("amount_paid", domain.ErrAmountPaidBelowTotal.Error())
		}
	}

	billing := &domain.Billing{
		OrderID:        order.ID,
		OutletID:       order.OutletID,
		IdempotencyKey: cmd.IdempotencyKey,
		Subtotal:       quote.Subtotal,
		Tax:            quote.Tax,
		Discount:       quote.Discount,
		Total:          quote.Total,
		AmountPaid:     amountPaid,
		Change:         amountPaid - quote.Total,
		PaymentType:    paymentType,
		CashierID:      cmd.Actor.ID,
		CashierName:    cmd.Actor.DisplayName,
		Remark:         cmd.Remark,
		PaidAt:         time.Now(),
	}
	if billing.IdempotencyKey == "" {
		billing.IdempotencyKey = uuid.NewString()
	}

	// 7. Create or amend: at most one billing record per order.
	if existing == nil {
		number, err := s.billings.GenerateReceiptNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate receipt number: %w", err)
		}
		billing.ReceiptNumber = number
		if err := s.billings.Create(ctx, billing); err != nil {
			s.logger.Error("billing_create_failed", "Failed to create billing", "", nil, err)
			return nil, err
		}
	} else {
		billing.ID = existing.ID
		billing.ReceiptNumber = existing.ReceiptNumber
		if err := s.billings.Update(ctx, billing); err != nil {
			s.logger.Error("billing_update_failed", "Failed to update billing", "", nil, err)
			return nil, err
		}
	}

	// 8. Hand the receipt to the printer lane. The commit already
	// succeeded; a publish failure is logged, never surfaced.
	receipt := interfaces.ReceiptMessage{
		CorrelationID: uuid.NewString(),
		ReceiptNumber: billing.ReceiptNumber,
		OrderNumber:   order.Number,
		Subtotal:      billing.Subtotal,
		Tax:           billing.Tax,
		Discount:      billing.Discount,
		Total:         billing.Total,
		AmountPaid:    billing.AmountPaid,
		Change:        billing.Change,
		PaymentType:   billing.PaymentType,
		CashierName:   billing.CashierName,
		PaidAt:        billing.PaidAt,
	}
	if err := s.publisher.PublishReceipt(ctx, receipt); err != nil {
		s.logger.Error("receipt_publish_failed", "Failed to publish receipt", billing.ReceiptNumber, nil, err)
	}

	s.logger.Debug("billing_committed", fmt.Sprintf("Order %s billed", order.Number), billing.ReceiptNumber, map[string]interface{}{
		"order_id": order.ID,
		"total":    billing.Total,
	})

	return billing, nil
}

func (s *Session) acquire(orderID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[orderID]; busy {
		return false
	}
	s.inFlight[orderID] = struct{}{}
	return true
}

func (s *Session) release(orderID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, orderID)
}
