package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for the lifecycle engine. Every operation fails with
// exactly one of these kinds; callers surface kind and message verbatim.
var (
	// ErrValidation marks malformed, user-correctable input.
	ErrValidation = errors.New("invalid input")
	// ErrRequestNotFound covers both unknown request ids and requests not
	// visible to the caller, so existence is never leaked.
	ErrRequestNotFound = errors.New("recycling request not found")
	// ErrTransactionNotFound covers unknown and unowned transaction ids.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidTransition marks a transition not legal from the current status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden marks a caller lacking the role or ownership an operation requires.
	ErrForbidden = errors.New("access forbidden")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PaymentPendingError is returned when a recycler attempts to accept new work
// while commission transactions are still pending or unconfirmed. It carries
// the number of outstanding transactions as remediation information.
type PaymentPendingError struct {
	PendingPayments int
}

func (e *PaymentPendingError) Error() string {
	return fmt.Sprintf("commission payment pending: %d outstanding transaction(s) must be confirmed first", e.PendingPayments)
}
