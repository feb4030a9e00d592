package billing

import (
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
)

// TaxFunc is the pluggable tax rule. The current business rule is zero
// tax, but the seam stays so future rules land without touching callers.
type TaxFunc func(subtotal int64) int64

// ZeroTax is the shipped tax rule.
func ZeroTax(int64) int64 { return 0 }

// Calculator turns an order's active lines into the billing amounts. All
// values are non-negative integer minor units.
type Calculator struct {
	tax TaxFunc
}

func NewCalculator(tax TaxFunc) *Calculator {
	if tax == nil {
		tax = ZeroTax
	}
	return &Calculator{tax: tax}
}

// Subtotal sums quantity times unit price over active items plus the
// active options of active items. Anything CANCELED contributes zero.
func (c *Calculator) Subtotal(order *domain.Order) int64 {
	var subtotal int64
	for _, item := range order.Items {
		if !item.Active() {
			continue
		}
		subtotal += int64(item.Quantity) * item.UnitPrice
		for _, opt := range item.Options {
			if !opt.Active() {
				continue
			}
			subtotal += int64(opt.Quantity) * opt.UnitPrice
		}
	}
	return subtotal
}

func (c *Calculator) Tax(subtotal int64) int64 {
	return c.tax(subtotal)
}

// Quote is the computed billing breakdown before commit. Underflow holds
// the amount clamped off a would-be negative total so the operator can be
// warned.
type Quote struct {
	Subtotal  int64
	Tax       int64
	Discount  int64
	Total     int64
	Mode      DiscountMode
	Underflow int64
}

// Quote composes subtotal, tax and the discount policy for the order.
// manualDiscount is only consulted for manual-discount-eligible types.
func (c *Calculator) Quote(order *domain.Order, manualDiscount int64) (Quote, error) {
	subtotal := c.Subtotal(order)
	tax := c.tax(subtotal)

	decision, err := ResolveDiscount(order, subtotal+tax, manualDiscount)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: decision.Amount,
		Mode:     decision.Mode,
	}

	q.Total = subtotal + tax - decision.Amount
	if q.Total < 0 {
		q.Underflow = -q.Total
		q.Total = 0
	}

	return q, nil
}
