package domain

import "time"

// DailyCashRecord is the per-outlet, per-calendar-date reconciliation
// entry. It is created implicitly on first submission, locked on submit,
// and unlocked only by an admin; re-submission after unlock overwrites
// the prior values.
type DailyCashRecord struct {
	ID               int
	OutletID         int
	Date             time.Time
	PreviousBalance  int64
	CashRevenue      int64
	CashDeposit      int64
	Adjustment       int64
	RemainingBalance int64
	Remarks          map[PaymentType]string
	Locked           bool
	SubmittedBy      string
	SubmittedAt      time.Time
}

// ComputeRemaining derives the carried-over balance. Adjustment is zero
// unless an admin submitted one.
func (r *DailyCashRecord) ComputeRemaining() int64 {
	return r.PreviousBalance + r.CashRevenue + r.Adjustment - r.CashDeposit
}
