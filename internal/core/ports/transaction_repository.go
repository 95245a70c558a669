package ports

import (
	"context"
	"time"

	"github.com/e2recycle/platform/internal/core/domain"
)

// TransactionPatch is the set of fields a conditional status update may write.
type TransactionPatch struct {
	Status           domain.TransactionStatus
	PaymentMethod    string
	PaymentReference string
	PaidAt           *time.Time
	AdminNotes       string
	ConfirmedBy      string
	ConfirmedAt      *time.Time
	UpdatedAt        time.Time
}

// ListTransactionsFilter carries query parameters for listing transactions.
type ListTransactionsFilter struct {
	RecyclerID string                     // non-empty: scoped to one recycler
	Statuses   []domain.TransactionStatus // optional: restrict to these statuses
}

// TransactionRepository defines persistence operations for commission
// transactions. Transactions are created only by RequestRepository.Accept.
type TransactionRepository interface {
	// FindByID retrieves a transaction. When recyclerID is non-empty the
	// lookup is additionally filtered by ownership, so unowned ids behave
	// exactly like unknown ids.
	FindByID(ctx context.Context, id string, recyclerID string) (*domain.Transaction, error)
	FindByRequestID(ctx context.Context, requestID string) (*domain.Transaction, error)
	// UpdateIfStatus applies patch only if the transaction currently has the
	// expected status, additionally filtered by recyclerID when non-empty.
	// Returns ErrTransactionNotFound when no document matched.
	UpdateIfStatus(ctx context.Context, id string, recyclerID string, expected domain.TransactionStatus, patch TransactionPatch) (*domain.Transaction, error)
	// List returns transactions matching filter, newest first.
	List(ctx context.Context, filter ListTransactionsFilter) ([]*domain.Transaction, error)
}
