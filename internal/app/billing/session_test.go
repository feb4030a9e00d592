package billing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/miruku-pixel/poddo-pos-engine/internal/domain"
	"github.com/miruku-pixel/poddo-pos-engine/internal/interfaces"
)

// Fakes.

type nopLogger struct{}

func (nopLogger) Info(string, string, string, map[string]interface{})         {}
func (nopLogger) Debug(string, string, string, map[string]interface{})        {}
func (nopLogger) Warn(string, string, string, map[string]interface{})         {}
func (nopLogger) Error(string, string, string, map[string]interface{}, error) {}

type fakeOrderRepo struct {
	order *domain.Order

	// findStarted/findRelease, when set, turn FindByID into a barrier so a
	// second commit can race the first one.
	findStarted chan struct{}
	findRelease chan struct{}
	blockOnce   sync.Once
}

func (f *fakeOrderRepo) Create(context.Context, *domain.Order) error { return nil }

func (f *fakeOrderRepo) FindByID(_ context.Context, id int) (*domain.Order, error) {
	if f.findStarted != nil {
		f.blockOnce.Do(func() {
			close(f.findStarted)
			<-f.findRelease
		})
	}
	if f.order == nil || f.order.ID != id {
		return nil, domain.ErrOrderNotFound
	}
	copied := *f.order
	return &copied, nil
}

func (f *fakeOrderRepo) GenerateOrderNumber(context.Context) (string, error) { return "", nil }
func (f *fakeOrderRepo) UpdateStatusWithLog(context.Context, *domain.Order, domain.Status, string) error {
	return nil
}
func (f *fakeOrderRepo) AddItems(context.Context, int, []domain.OrderItem) error { return nil }
func (f *fakeOrderRepo) CancelItem(context.Context, int, int) error              { return nil }
func (f *fakeOrderRepo) CancelOption(context.Context, int, int, int) error       { return nil }
func (f *fakeOrderRepo) GetStatusHistory(context.Context, int) ([]*domain.StatusLog, error) {
	return nil, nil
}

type fakeBillingRepo struct {
	stored      *domain.Billing
	createCalls int
	updateCalls int
	nextReceipt string
}

func (f *fakeBillingRepo) Create(_ context.Context, b *domain.Billing) error {
	f.createCalls++
	b.ID = 1
	copied := *b
	f.stored = &copied
	return nil
}

func (f *fakeBillingRepo) Update(_ context.Context, b *domain.Billing) error {
	f.updateCalls++
	copied := *b
	f.stored = &copied
	return nil
}

func (f *fakeBillingRepo) FindByOrderID(_ context.Context, orderID int) (*domain.Billing, error) {
	if f.stored == nil || f.stored.OrderID != orderID {
		return nil, nil
	}
	copied := *f.stored
	return &copied, nil
}

func (f *fakeBillingRepo) GenerateReceiptNumber(context.Context) (string, error) {
	if f.nextReceipt == "" {
		return "RCP_20260829_001", nil
	}
	return f.nextReceipt, nil
}

func (f *fakeBillingRepo) RevenueByPaymentType(context.Context, int, time.Time) (map[domain.PaymentType]int64, error) {
	return nil, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	receipts []interfaces.ReceiptMessage
}

func (f *fakePublisher) PublishOrderRefresh(context.Context, interfaces.OrderRefreshMessage) error {
	return nil
}
func (f *fakePublisher) PublishKitchenTicket(context.Context, interfaces.KitchenTicketMessage) error {
	return nil
}
func (f *fakePublisher) PublishReceipt(_ context.Context, msg interfaces.ReceiptMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts = append(f.receipts, msg)
	return nil
}

func cashier() domain.Actor {
	return domain.Actor{ID: 7, DisplayName: "Cashier One", Role: domain.RoleCashier}
}

func servedDineIn() *domain.Order {
	table := 4
	return &domain.Order{
		ID:          1,
		Number:      "ORD_20260829_001",
		OutletID:    1,
		Type:        domain.OrderTypeDineIn,
		Status:      domain.StatusServed,
		TableNumber: &table,
		Items: []domain.OrderItem{
			{ID: 10, Name: "Nasi Goreng", Quantity: 2, UnitPrice: 40000, Status: domain.ItemActive,
				Options: []domain.OrderItemOption{
					{ID: 100, Name: "Extra Telur", Quantity: 2, UnitPrice: 5000, Status: domain.ItemActive},
				}},
			{ID: 11, Name: "Es Teh", Quantity: 2, UnitPrice: 5000, Status: domain.ItemActive},
		},
	}
}

func newTestSession(orders *fakeOrderRepo, billings *fakeBillingRepo, pub *fakePublisher) *Session {
	return NewSession(orders, billings, NewCalculator(ZeroTax), pub, nopLogger{})
}

func TestCommitBilling_DineInWithChange(t *testing.T) {
	orders := &fakeOrderRepo{order: servedDineIn()}
	billings := &fakeBillingRepo{}
	pub := &fakePublisher{}
	session := newTestSession(orders, billings, pub)

	billing, err := session.CommitBilling(context.Background(), interfaces.CommitBillingCommand{
		OrderID:        1,
		PaymentType:    domain.PaymentCash,
		AmountPaid:     100000,
		ManualDiscount: 10000,
		Actor:          cashier(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if billing.Subtotal != 100000 {
		t.Errorf("subtotal = %d, want 100000", billing.Subtotal)
	}
	if billing.Discount != 10000 {
		t.Errorf("discount = %d, want 10000", billing.Discount)
	}
	if billing.Total != 90000 {
		t.Errorf("total = %d, want 90000", billing.Total)
	}
	if billing.Change != 10000 {
		t.Errorf("change = %d, want 10000", billing.Change)
	}
	if billing.ReceiptNumber == "" {
		t.Error("receipt number should be assigned on create")
	}
	if billing.IdempotencyKey == "" {
		t.Error("idempotency key should be generated when not supplied")
	}
	if billings.createCalls != 1 {
		t.Errorf("create called %d times, want 1", billings.createCalls)
	}
	if len(pub.receipts) != 1 {
		t.Fatalf("expected 1 receipt published, got %d", len(pub.receipts))
	}
	if pub.receipts[0].Total != 90000 || pub.receipts[0].Change != 10000 {
		t.Errorf("published receipt = %+v", pub.receipts[0])
	}
}

func TestCommitBilling_AmountPaidBelowTotal(t *testing.T) {
	orders := &fakeOrderRepo{order: servedDineIn()}
	session := newTestSession(orders, &fakeBillingRepo{}, &fakePublisher{})

	_, err := session.CommitBilling(context.Background(), interfaces.CommitBillingCommand{
		OrderID:     1,
		PaymentType: domain.PaymentCash,
		AmountPaid:  80000,
	})
	if err == nil {
		t.Fatal("expected error for amount paid below total")
	}
	if domain.KindOf(err) != domain.KindValidation {
		t.Errorf("expected validation kind, got %v", domain.KindOf(err))
	}
}

func TestCommitBilling_NoActiveItems(t *testing.T) {
	order := servedDineIn()
	order.Items[0].Status = domain.ItemCanceled
	order.Items[1].Status = domain.ItemCanceled
	orders := &fakeOrderRepo{order: order}
	billings := &fakeBillingRepo{}
	session := newTestSession(orders, billings, &fakePublisher{})

	_, err := session.CommitBilling(context.Background(), interfaces.CommitBillingCommand{
		OrderID:     1,
		PaymentType: domain.PaymentCash,
	})
	if err == nil {
		t.Fatal("expected error for order with no active items")
	}
	if billings.createCalls != 0 {
		t.Error("no billing must be written for a fully canceled order")
	}
}

func TestCommitBilling_LockedPaymentOverride(t *testing.T) {
	pct := 0.10
	code := "GF-42"
	orders := &fakeOrderRepo{order: &domain.Order{
		ID: 1, OutletID: 1, Type: domain.OrderTypeGrabFood, Status: domain.StatusServed,
		OnlineCode: &code, DiscountPct: &pct,
		Items: []domain.OrderItem{
			{ID: 10, Name: "Bakso", Quantity: 1, UnitPrice: 50000, Status: domain.ItemActive},
		},
	}}
	billings := &fakeBillingRepo{}
	session := newTestSession(orders, billings, &fakePublisher{})

	_, err := session.CommitBilling(context.Background(), interfaces.CommitBillingCommand{
		OrderID:     1,
		PaymentType: domain.PaymentCash,
	})
	if err == nil {
		t.Fatal("expected error for overriding a locked payment type")
	}
	if domain.KindOf(err) != domain.KindValidation {
		t.Errorf("expected validation kind, got %v", domain.KindOf(err))
	}

	// Leaving the type empty settles with the forced default and the
	// automatic discount, amount paid mirroring the total.
	billing, err := session.CommitBilling(context.Background(), interfaces.CommitBillingCommand{
		OrderID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if billing.PaymentType != domain.PaymentGrabFood {
		t.Errorf("payment type = %s, want GRABFOOD", billing.PaymentType)
	}
	if billing.Discount != 5000 {
		t.Errorf("discount = %d, want 5000", billing.Discount)
	}
	if billing.Total != 45000 {
		t.Errorf("total = %d, want 45000", billing.Total)
	}
	if billing.AmountPaid != 45000 || billing.Change != 0 {
		t.Errorf("amount paid = %d change = %d, want total mirrored with zero change", billing.AmountPaid, billing.Change)
	}
}

func TestCommitBilling_IdempotentReplay(t *testing.T) {
	orders := &fakeOrderRepo{order: servedDineIn()}
	billings := &fakeBillingRepo{}
	session := newTestSession(orders, billings, &fakePublisher{})

	cmd := interfaces.CommitBillingCommand{
		OrderID:        1,
		IdempotencyKey: "key-1",
		PaymentType:    domain.PaymentCash,
		AmountPaid:     100000,
		Actor:          cashier(),
	}

	first, err := session.CommitBilling(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := session.CommitBilling(context.Background(), cmd)
	if err != nil {
		t.Fatalf("unexpected error on replay: %v", err)
	}

	if second.ID != first.ID || second.ReceiptNumber != first.ReceiptNumber {
		t.Error("replay should return the stored billing")
	}
	if billings.createCalls != 1 || billings.updateCalls != 0 {
		t.Errorf("replay must not write: create=%d update=%d", billings.createCalls, billings.updateCalls)
	}
}

func TestCommitBilling_UpdateKeepsReceiptNumber(t *testing.T) {
	orders := &fakeOrderRepo{order: servedDineIn()}
	billings := &fakeBillingRepo{}
	session := newTestSession(orders, billings, &fakePublisher{})

	first, err := session.CommitBilling(context.Background(), interfaces.CommitBillingCommand{
		OrderID:        1,
		IdempotencyKey: "key-1",
		PaymentType:    domain.PaymentCash,
		AmountPaid:     100000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A genuinely new commit (different key) amends the record.
	second, err := session.CommitBilling(context.Background(), interfaces.CommitBillingCommand{
		OrderID:        1,
		IdempotencyKey: "key-2",
		PaymentType:    domain.PaymentQRIS,
		AmountPaid:     100000,
		ManualDiscount: 10000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.ReceiptNumber != first.ReceiptNumber {
		t.Error("amending a billing must keep the original receipt number")
	}
	if second.PaymentType != domain.PaymentQRIS || second.Total != 90000 {
		t.Errorf("amended billing = %+v", second)
	}
	if billings.createCalls != 1 || billings.updateCalls != 1 {
		t.Errorf("create=%d update=%d, want 1 and 1", billings.createCalls, billings.updateCalls)
	}
}

func TestCommitBilling_ConcurrentCommitRejected(t *testing.T) {
	orders := &fakeOrderRepo{
		order:       servedDineIn(),
		findStarted: make(chan struct{}),
		findRelease: make(chan struct{}),
	}
	session := newTestSession(orders, &fakeBillingRepo{}, &fakePublisher{})

	cmd := interfaces.CommitBillingCommand{
		OrderID:     1,
		PaymentType: domain.PaymentCash,
		AmountPaid:  100000,
	}

	done := make(chan error, 1)
	go func() {
		_, err := session.CommitBilling(context.Background(), cmd)
		done <- err
	}()

	<-orders.findStarted

	// The first commit is parked inside the repository; a second one for
	// the same order must be rejected immediately.
	_, err := session.CommitBilling(context.Background(), cmd)
	if err == nil {
		t.Fatal("expected in-flight rejection")
	}
	if domain.KindOf(err) != domain.KindConflict {
		t.Errorf("expected conflict kind, got %v", domain.KindOf(err))
	}

	close(orders.findRelease)
	if err := <-done; err != nil {
		t.Fatalf("first commit should succeed: %v", err)
	}

	// The guard is released after completion.
	if _, err := session.CommitBilling(context.Background(), interfaces.CommitBillingCommand{
		OrderID:        1,
		IdempotencyKey: "key-later",
		PaymentType:    domain.PaymentCash,
		AmountPaid:     100000,
	}); err != nil {
		t.Errorf("commit after release should succeed: %v", err)
	}
}
