package domain

import "time"

// Billing is the committed financial settlement of an order. At most one
// exists per order; a later commit amends it rather than creating a
// second record.
type Billing struct {
	ID             int
	OrderID        int
	OutletID       int
	ReceiptNumber  string
	IdempotencyKey string
	Subtotal       int64
	Tax            int64
	Discount       int64
	Total          int64
	AmountPaid     int64
	Change         int64
	PaymentType    PaymentType
	CashierID      int
	CashierName    string
	Remark         *string
	PaidAt         time.Time
}
