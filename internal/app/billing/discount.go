package billing

import (
	"math"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
)

type DiscountMode string

const (
	// DiscountManual: the operator enters the value; the field is
	// editable, bounded above by subtotal plus tax.
	DiscountManual DiscountMode = "MANUAL"
	// DiscountAutomatic: derived from the order-type percentage; the
	// field is read-only.
	DiscountAutomatic DiscountMode = "AUTOMATIC"
)

// DiscountDecision is the resolved discount for an order at bill time.
type DiscountDecision struct {
	Mode     DiscountMode
	Amount   int64
	Editable bool
}

// ResolveDiscount branches on the order type's policy row. basis is
// subtotal plus tax. Re-resolve whenever the order type or its percentage
// changes; automatic amounts never honor operator input.
func ResolveDiscount(order *domain.Order, basis, manual int64) (DiscountDecision, error) {
	policy := order.Type.Policy()

	if policy.AllowsManualDiscount {
		if manual < 0 {
			return DiscountDecision{}, domain.NewValidationError("discount", "discount must not be negative")
		}
		if manual > basis {
			return DiscountDecision{}, domain.NewValidationError("discount", "discount must not exceed subtotal plus tax")
		}
		return DiscountDecision{Mode: DiscountManual, Amount: manual, Editable: true}, nil
	}

	var amount int64
	if order.DiscountPct != nil {
		// The one place the engine rounds instead of truncating.
		amount = int64(math.Round(float64(basis) * *order.DiscountPct))
	}
	return DiscountDecision{Mode: DiscountAutomatic, Amount: amount}, nil
}
