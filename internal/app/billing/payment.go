package billing

import (
	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
)

// PaymentRule is the resolved payment policy for an order type. Display
// lists all payment types for consistency; only Selectable may actually
// be chosen when the selector is open.
type PaymentRule struct {
	Default            domain.PaymentType
	Locked             bool
	Selectable         []domain.PaymentType
	Display            []domain.PaymentType
	AmountPaidEditable bool
}

// ResolvePayment maps an order type to its payment rule. Re-resolve on
// every order-type change: a manual choice never survives a type change,
// the selector resets to the policy default.
func ResolvePayment(t domain.OrderType) PaymentRule {
	policy := t.Policy()

	rule := PaymentRule{
		Display:            domain.AllPaymentTypes,
		AmountPaidEditable: policy.AmountPaidEditable,
	}

	if policy.ForcedPaymentType != "" {
		rule.Default = policy.ForcedPaymentType
		rule.Locked = true
		rule.Selectable = []domain.PaymentType{policy.ForcedPaymentType}
		return rule
	}

	rule.Default = domain.PaymentCash
	rule.Selectable = domain.OpenPaymentTypes
	return rule
}

// Allows reports whether the operator may settle with the given payment
// type under this rule.
func (r PaymentRule) Allows(p domain.PaymentType) bool {
	for _, t := range r.Selectable {
		if t == p {
			return true
		}
	}
	return false
}
