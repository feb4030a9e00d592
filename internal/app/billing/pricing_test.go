package billing

import (
	"testing"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
)

func dineInOrder() *domain.Order {
	return &domain.Order{
		ID:     1,
		Type:   domain.OrderTypeDineIn,
		Status: domain.StatusServed,
		Items: []domain.OrderItem{
			{
				ID: 10, Name: "Nasi Goreng", Quantity: 2, UnitPrice: 40000, Status: domain.ItemActive,
				Options: []domain.OrderItemOption{
					{ID: 100, Name: "Extra Telur", Quantity: 2, UnitPrice: 5000, Status: domain.ItemActive},
				},
			},
			{ID: 11, Name: "Es Teh", Quantity: 2, UnitPrice: 5000, Status: domain.ItemActive},
		},
	}
}

func TestSubtotal_SumsActiveLines(t *testing.T) {
	calc := NewCalculator(nil)
	order := dineInOrder()

	// 2*40000 + 2*5000 options + 2*5000 = 100000
	if got := calc.Subtotal(order); got != 100000 {
		t.Errorf("subtotal = %d, want 100000", got)
	}
}

func TestSubtotal_ExcludesCanceledItemAndItsOptions(t *testing.T) {
	calc := NewCalculator(nil)
	order := dineInOrder()
	if err := order.CancelItem(10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only Es Teh remains: 2*5000.
	if got := calc.Subtotal(order); got != 10000 {
		t.Errorf("subtotal = %d, want 10000", got)
	}
}

func TestSubtotal_ExcludesCanceledOptionOnly(t *testing.T) {
	calc := NewCalculator(nil)
	order := dineInOrder()
	if err := order.CancelOption(10, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calc.Subtotal(order); got != 90000 {
		t.Errorf("subtotal = %d, want 90000", got)
	}
}

func TestQuote_TaxSeam(t *testing.T) {
	tenPercent := func(subtotal int64) int64 { return subtotal / 10 }
	calc := NewCalculator(tenPercent)

	q, err := calc.Quote(dineInOrder(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Subtotal != 100000 || q.Tax != 10000 || q.Total != 110000 {
		t.Errorf("quote = %+v, want subtotal 100000 tax 10000 total 110000", q)
	}
}

func TestQuote_ZeroTaxDefault(t *testing.T) {
	calc := NewCalculator(nil)
	q, err := calc.Quote(dineInOrder(), 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Tax != 0 {
		t.Errorf("tax = %d, want 0", q.Tax)
	}
	if q.Discount != 10000 || q.Mode != DiscountManual {
		t.Errorf("discount = %d mode %s, want 10000 MANUAL", q.Discount, q.Mode)
	}
	if q.Total != 90000 {
		t.Errorf("total = %d, want 90000", q.Total)
	}
}

func TestQuote_ClampsNegativeTotal(t *testing.T) {
	pct := 1.5
	order := &domain.Order{
		Type:        domain.OrderTypeGrabFood,
		DiscountPct: &pct,
		Items: []domain.OrderItem{
			{ID: 1, Name: "Bakso", Quantity: 1, UnitPrice: 50000, Status: domain.ItemActive},
		},
	}

	calc := NewCalculator(nil)
	q, err := calc.Quote(order, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Total != 0 {
		t.Errorf("total = %d, want clamp to 0", q.Total)
	}
	if q.Underflow != 25000 {
		t.Errorf("underflow = %d, want 25000", q.Underflow)
	}
}
