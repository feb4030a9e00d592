package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure for the caller: validation and
// authorization are rejected before any write, conflict means the resource
// changed underneath the operator, session means the credential is no
// longer valid, transport covers everything past the request boundary.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAuthorization
	KindConflict
	KindSession
	KindTransport
)

// Error is the typed failure the engine surfaces to operators. Field is
// set for validation errors so the message lands next to the offending
// control.
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

func NewAuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewSessionError(err error) *Error {
	return &Error{Kind: KindSession, Message: "session invalid", Err: err}
}

func NewTransportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: "request failed", Err: err}
}

// KindOf extracts the ErrorKind from an error chain, KindUnknown when the
// chain carries no typed error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrTransitionInFlight      = errors.New("a transition for this order is already in flight")
	ErrNotOrderOwner           = errors.New("waiter may only act on their own orders")
	ErrCancelNotConfirmed      = errors.New("cancellation requires confirmation")
	ErrNoActiveItems           = errors.New("order has no active items")
	ErrLockedPaymentOverride   = errors.New("payment type is locked by the order type")
	ErrAmountPaidBelowTotal    = errors.New("amount paid is below total")
	ErrBillingInFlight         = errors.New("a billing commit for this order is already in flight")
	ErrLedgerLocked            = errors.New("daily cash record is locked")
	ErrLedgerInFlight          = errors.New("a reconciliation request for this day is already in flight")
	ErrUnlockRequiresAdmin     = errors.New("unlock requires admin role")
)
