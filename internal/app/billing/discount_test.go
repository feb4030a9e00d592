package billing

import (
	"testing"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
)

func TestResolveDiscount_ManualWithinBounds(t *testing.T) {
	order := &domain.Order{Type: domain.OrderTypeDineIn}

	d, err := ResolveDiscount(order, 100000, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Mode != DiscountManual || d.Amount != 10000 || !d.Editable {
		t.Errorf("decision = %+v, want editable MANUAL 10000", d)
	}

	// Discount equal to the basis is allowed.
	if _, err := ResolveDiscount(order, 100000, 100000); err != nil {
		t.Errorf("discount equal to basis should pass: %v", err)
	}
}

func TestResolveDiscount_ManualRejections(t *testing.T) {
	order := &domain.Order{Type: domain.OrderTypeTakeAway}

	if _, err := ResolveDiscount(order, 100000, -1); err == nil {
		t.Error("negative manual discount must be rejected")
	}
	if _, err := ResolveDiscount(order, 100000, 100001); err == nil {
		t.Error("manual discount above subtotal plus tax must be rejected")
	}
}

func TestResolveDiscount_AutomaticRounds(t *testing.T) {
	pct := 0.10
	order := &domain.Order{Type: domain.OrderTypeGrabFood, DiscountPct: &pct}

	d, err := ResolveDiscount(order, 50000, 99999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Mode != DiscountAutomatic || d.Editable {
		t.Errorf("decision = %+v, want read-only AUTOMATIC", d)
	}
	// Operator input must be ignored for automatic types.
	if d.Amount != 5000 {
		t.Errorf("amount = %d, want 5000", d.Amount)
	}
}

func TestResolveDiscount_AutomaticRoundsHalfUp(t *testing.T) {
	pct := 0.15
	order := &domain.Order{Type: domain.OrderTypeGoFood, DiscountPct: &pct}

	// 33333 * 0.15 = 4999.95 -> 5000 rounded, not 4999 truncated.
	d, err := ResolveDiscount(order, 33333, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Amount != 5000 {
		t.Errorf("amount = %d, want 5000", d.Amount)
	}
}

func TestResolveDiscount_AutomaticWithoutPercentage(t *testing.T) {
	order := &domain.Order{Type: domain.OrderTypeStaff}

	d, err := ResolveDiscount(order, 50000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Amount != 0 {
		t.Errorf("amount = %d, want 0 when the type carries no percentage", d.Amount)
	}
}
