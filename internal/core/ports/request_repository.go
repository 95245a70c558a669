package ports

import (
	"context"
	"time"

	"github.com/e2recycle/platform/internal/core/domain"
)

// RequestPatch is the set of fields a conditional status update may write.
// Zero-valued fields are left untouched.
type RequestPatch struct {
	Status     domain.RequestStatus
	AcceptedBy string
	UpdatedAt  time.Time
}

// ListRequestsFilter carries all query parameters for listing requests.
// Scoping is always enforced by the service layer before the repository is
// called.
type ListRequestsFilter struct {
	UserID string // non-empty: scoped to the submitting user
	// RecyclerView scopes the listing to what a recycler may browse: the
	// approved pool plus requests this recycler has accepted.
	RecyclerView string
	Status       string // optional: filter by request status
	ProductType  string // optional: filter by product type
	Page         int    // 1-based
	Limit        int    // max rows per page (capped by the service)
}

// RequestRepository defines persistence operations for recycling requests.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.RecyclingRequest) error
	FindByID(ctx context.Context, id string) (*domain.RecyclingRequest, error)
	// UpdateIfStatus applies patch only if the request currently has the
	// expected status (compare-and-swap). Returns the updated request, or
	// ErrRequestNotFound when no document matched both id and status.
	UpdateIfStatus(ctx context.Context, id string, expected domain.RequestStatus, patch RequestPatch) (*domain.RecyclingRequest, error)
	// Accept atomically performs the approved→accepted transition and
	// creates the paired commission transaction, all under one snapshot:
	// it fails with *domain.PaymentPendingError when the recycler has any
	// transaction in pending or paid, with ErrInvalidTransition when the
	// request exists but is not approved, and with ErrRequestNotFound when
	// the id is unknown. On failure neither entity is mutated.
	Accept(ctx context.Context, requestID, recyclerID string, commissionRate int) (*domain.RecyclingRequest, *domain.Transaction, error)
	// List returns a page of requests matching filter and the total count.
	List(ctx context.Context, filter ListRequestsFilter) ([]*domain.RecyclingRequest, int64, error)
}
