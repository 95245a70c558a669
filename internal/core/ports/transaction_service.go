package ports

import (
	"context"

	"github.com/e2recycle/platform/internal/core/domain"
)

// PayInput carries the recycler's payment details for a commission.
type PayInput struct {
	Method    string
	Reference string
}

// ConfirmInput carries the admin's verdict on a paid commission.
type ConfirmInput struct {
	Confirmed bool
	Notes     string
}

// TransactionService defines the commission-side lifecycle operations.
type TransactionService interface {
	Pay(ctx context.Context, ident domain.Identity, transactionID string, in PayInput) (*domain.Transaction, error)
	Confirm(ctx context.Context, ident domain.Identity, transactionID string, in ConfirmInput) (*domain.Transaction, error)
	// ListOutstanding returns the caller's view of open commission debt:
	// for a recycler, own transactions in pending or paid, newest first
	// (the same set the accept gating rule counts); for the admin, every
	// transaction in the system.
	ListOutstanding(ctx context.Context, ident domain.Identity) ([]*domain.Transaction, error)
}
