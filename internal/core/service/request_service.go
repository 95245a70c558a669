package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/e2recycle/platform/internal/core/domain"
	"github.com/e2recycle/platform/internal/core/ports"
)

// IdempotencyStore abstracts the submit replay store (Redis).
type IdempotencyStore interface {
	// Lookup returns the request id previously remembered for key, or ""
	// when the key has not been seen.
	Lookup(ctx context.Context, key string) (string, error)
	Remember(ctx context.Context, key, requestID string) error
}

// AuditRecorder receives audit entries for successful transitions.
// Recording is fire-and-forget; it never fails the triggering operation.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}

const maxListLimit = 100

type RequestService struct {
	repo           ports.RequestRepository
	txRepo         ports.TransactionRepository
	idempotency    IdempotencyStore
	audit          AuditRecorder
	commissionRate int
	logger         zerolog.Logger
}

func NewRequestService(
	repo ports.RequestRepository,
	txRepo ports.TransactionRepository,
	idempotency IdempotencyStore,
	audit AuditRecorder,
	commissionRate int,
	logger zerolog.Logger,
) *RequestService {
	if commissionRate <= 0 {
		commissionRate = domain.DefaultCommissionRate
	}
	return &RequestService{
		repo:           repo,
		txRepo:         txRepo,
		idempotency:    idempotency,
		audit:          audit,
		commissionRate: commissionRate,
		logger:         logger,
	}
}

// Submit creates a new request in pending status. If an idempotency key is
// provided and already seen, the previously created request is returned
// without side effects.
func (s *RequestService) Submit(ctx context.Context, ident domain.Identity, in ports.SubmitRequestInput) (*domain.RecyclingRequest, error) {
	if ident.IsAdmin() || !domain.IsSubmitterRole(ident.Role()) {
		return nil, domain.ErrForbidden
	}
	if err := validateSubmitInput(in); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		existingID, err := s.idempotency.Lookup(ctx, in.IdempotencyKey)
		if err != nil {
			s.logger.Warn().Err(err).Msg("idempotency lookup failed, submitting anyway")
		} else if existingID != "" {
			existing, err := s.repo.FindByID(ctx, existingID)
			if err == nil && existing.UserID == ident.UserID() {
				s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("request_id", existingID).Msg("idempotent replay")
				return existing, nil
			}
		}
	}

	now := time.Now().UTC()
	request := &domain.RecyclingRequest{
		ID:             uuid.NewString(),
		UserID:         ident.UserID(),
		ProductName:    in.ProductName,
		ProductType:    in.ProductType,
		Description:    in.Description,
		Quantity:       in.Quantity,
		EstimatedPrice: in.EstimatedPrice,
		UniqueCode:     generateUniqueCode(),
		SecretCode:     generateSecretCode(),
		Status:         domain.RequestPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		s.logger.Error().Err(err).Msg("failed to create recycling request")
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Remember(ctx, in.IdempotencyKey, request.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to remember idempotency key")
		}
	}

	s.recordAudit("request", request.ID, "", string(domain.RequestPending), ident)
	s.logger.Info().
		Str("request_id", request.ID).
		Str("unique_code", request.UniqueCode).
		Str("user_id", ident.UserID()).
		Msg("recycling request submitted")

	return request, nil
}

// Review applies the admin's verdict to a request: approve moves
// pending→approved, reject moves pending→rejected or approved→rejected.
func (s *RequestService) Review(ctx context.Context, ident domain.Identity, requestID string, decision ports.ReviewDecision) (*domain.RecyclingRequest, error) {
	if !ident.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	var target domain.RequestStatus
	switch decision {
	case ports.DecisionApprove:
		target = domain.RequestApproved
	case ports.DecisionReject:
		target = domain.RequestRejected
	default:
		return nil, fmt.Errorf("%w: decision must be approve or reject", domain.ErrValidation)
	}

	current, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, target)
	}

	updated, err := s.repo.UpdateIfStatus(ctx, requestID, current.Status, ports.RequestPatch{
		Status:    target,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		// A concurrent transition won the compare-and-swap.
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, target)
	}

	s.recordAudit("request", requestID, string(current.Status), string(target), ident)
	s.logger.Info().Str("request_id", requestID).Str("decision", string(decision)).Msg("request reviewed")
	return updated, nil
}

// Accept transitions an approved request to accepted for the calling
// recycler and creates the paired commission transaction. The gating check,
// status compare-and-swap, and transaction insert all happen under one
// snapshot in the repository; a gated recycler can never slip through.
func (s *RequestService) Accept(ctx context.Context, ident domain.Identity, requestID string) (*ports.AcceptResult, error) {
	if ident.IsAdmin() || ident.Role() != domain.RoleRecycler {
		return nil, domain.ErrForbidden
	}

	request, tx, err := s.repo.Accept(ctx, requestID, ident.UserID(), s.commissionRate)
	if err != nil {
		return nil, err
	}

	s.recordAudit("request", requestID, string(domain.RequestApproved), string(domain.RequestAccepted), ident)
	s.recordAudit("transaction", tx.ID, "", string(domain.TransactionPending), ident)
	s.logger.Info().
		Str("request_id", requestID).
		Str("recycler_id", ident.UserID()).
		Str("transaction_id", tx.ID).
		Float64("commission_amount", tx.CommissionAmount).
		Msg("request accepted")

	return &ports.AcceptResult{Request: request, Transaction: tx}, nil
}

// Complete transitions accepted→completed. Only the accepting recycler or
// the admin may call it.
func (s *RequestService) Complete(ctx context.Context, ident domain.Identity, requestID string) (*domain.RecyclingRequest, error) {
	current, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !ident.IsAdmin() && current.AcceptedBy != ident.UserID() {
		return nil, domain.ErrForbidden
	}
	if !current.Status.CanTransitionTo(domain.RequestCompleted) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, domain.RequestCompleted)
	}

	updated, err := s.repo.UpdateIfStatus(ctx, requestID, domain.RequestAccepted, ports.RequestPatch{
		Status:    domain.RequestCompleted,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, domain.RequestCompleted)
	}

	s.recordAudit("request", requestID, string(domain.RequestAccepted), string(domain.RequestCompleted), ident)
	s.logger.Info().Str("request_id", requestID).Msg("request completed")
	return updated, nil
}

// GetSecretCode releases the pickup secret only to the accepting recycler,
// and only once the paired transaction has been confirmed.
func (s *RequestService) GetSecretCode(ctx context.Context, ident domain.Identity, requestID string) (string, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return "", err
	}
	if ident.IsAdmin() || request.AcceptedBy == "" || request.AcceptedBy != ident.UserID() {
		return "", domain.ErrForbidden
	}

	tx, err := s.txRepo.FindByRequestID(ctx, requestID)
	if err != nil {
		return "", domain.ErrForbidden
	}
	if tx.Status != domain.TransactionConfirmed {
		return "", domain.ErrForbidden
	}

	return request.SecretCode, nil
}

// Get returns a single request, scoped by ownership: submitters see their
// own requests, recyclers see the approved pool and requests they accepted,
// the admin sees everything. Requests outside the caller's scope behave
// exactly like unknown ids.
func (s *RequestService) Get(ctx context.Context, ident domain.Identity, requestID string) (*domain.RecyclingRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !s.visibleTo(ident, request) {
		return nil, domain.ErrRequestNotFound
	}
	return request, nil
}

// List returns a page of requests in the caller's scope.
func (s *RequestService) List(ctx context.Context, ident domain.Identity, in ports.ListRequestsInput) (*ports.ListRequestsResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	filter := ports.ListRequestsFilter{
		Status:      in.Status,
		ProductType: in.ProductType,
		Page:        page,
		Limit:       limit,
	}
	switch {
	case ident.IsAdmin():
		// no scoping
	case ident.Role() == domain.RoleRecycler:
		filter.RecyclerView = ident.UserID()
	default:
		filter.UserID = ident.UserID()
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}
	return &ports.ListRequestsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *RequestService) visibleTo(ident domain.Identity, r *domain.RecyclingRequest) bool {
	switch {
	case ident.IsAdmin():
		return true
	case ident.Role() == domain.RoleRecycler:
		return r.Status == domain.RequestApproved || r.AcceptedBy == ident.UserID()
	default:
		return r.UserID == ident.UserID()
	}
}

func (s *RequestService) recordAudit(entity, id, from, to string, ident domain.Identity) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEntry{
		Entity:    entity,
		EntityID:  id,
		From:      from,
		To:        to,
		Actor:     domain.ActorLabel(ident),
		Timestamp: time.Now().UTC(),
	})
}

func validateSubmitInput(in ports.SubmitRequestInput) error {
	if strings.TrimSpace(in.ProductName) == "" {
		return fmt.Errorf("%w: product_name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.ProductType) == "" {
		return fmt.Errorf("%w: product_type is required", domain.ErrValidation)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", domain.ErrValidation)
	}
	if in.EstimatedPrice < 0 {
		return fmt.Errorf("%w: estimated_price must not be negative", domain.ErrValidation)
	}
	return nil
}

// generateUniqueCode returns a unique public code in the format E2R-XXXXXXXX.
func generateUniqueCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("E2R-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("E2R-%08X", b)
}

// generateSecretCode returns the recycler-only pickup secret.
func generateSecretCode() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("SC-%016X", time.Now().UnixNano())
	}
	return fmt.Sprintf("SC-%016X", b)
}
