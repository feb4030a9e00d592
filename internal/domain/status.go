package domain

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPrepared  Status = "PREPARED"
	StatusServed    Status = "SERVED"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
)

type ItemStatus string

const (
	ItemActive   ItemStatus = "ACTIVE"
	ItemCanceled ItemStatus = "CANCELED"
)

type Role string

const (
	RoleWaiter  Role = "WAITER"
	RoleCashier Role = "CASHIER"
	RoleAdmin   Role = "ADMIN"
)

// Actor is the authenticated operator attached to every mutating command.
type Actor struct {
	ID          int
	DisplayName string
	Role        Role
}

// StatusLog records a single status change for audit.
type StatusLog struct {
	ID        int
	OrderID   int
	Status    Status
	ChangedBy string
	ChangedAt time.Time
	Notes     *string
}
