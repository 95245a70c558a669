package ports

import (
	"context"

	"github.com/e2recycle/platform/internal/core/domain"
)

// SubmitRequestInput carries all data needed to submit a recycling request.
type SubmitRequestInput struct {
	ProductName    string
	ProductType    string
	Description    string
	Quantity       int
	EstimatedPrice float64
	// IdempotencyKey, when non-empty, makes replayed submissions return the
	// originally created request instead of creating a duplicate.
	IdempotencyKey string
}

// ReviewDecision is the admin's verdict on a pending request.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

// ListRequestsInput carries parameters for the request listing endpoint.
// Scope is derived from the identity, not from the input.
type ListRequestsInput struct {
	Status      string
	ProductType string
	Page        int
	Limit       int
}

// ListRequestsResult is returned by List.
type ListRequestsResult struct {
	Items      []*domain.RecyclingRequest
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AcceptResult pairs the accepted request with the commission transaction
// created for it.
type AcceptResult struct {
	Request     *domain.RecyclingRequest
	Transaction *domain.Transaction
}

// RequestService defines the request-side lifecycle operations.
type RequestService interface {
	Submit(ctx context.Context, ident domain.Identity, in SubmitRequestInput) (*domain.RecyclingRequest, error)
	Review(ctx context.Context, ident domain.Identity, requestID string, decision ReviewDecision) (*domain.RecyclingRequest, error)
	Accept(ctx context.Context, ident domain.Identity, requestID string) (*AcceptResult, error)
	Complete(ctx context.Context, ident domain.Identity, requestID string) (*domain.RecyclingRequest, error)
	// GetSecretCode releases the pickup secret only to the accepting
	// recycler and only once the paired transaction is confirmed.
	GetSecretCode(ctx context.Context, ident domain.Identity, requestID string) (string, error)
	Get(ctx context.Context, ident domain.Identity, requestID string) (*domain.RecyclingRequest, error)
	List(ctx context.Context, ident domain.Identity, in ListRequestsInput) (*ListRequestsResult, error)
}
