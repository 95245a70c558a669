package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/e2recycle/platform/internal/core/domain"
	"github.com/e2recycle/platform/internal/core/ports"
)

type TransactionService struct {
	repo   ports.TransactionRepository
	audit  AuditRecorder
	logger zerolog.Logger
}

func NewTransactionService(repo ports.TransactionRepository, audit AuditRecorder, logger zerolog.Logger) *TransactionService {
	return &TransactionService{repo: repo, audit: audit, logger: logger}
}

// Pay transitions a commission transaction from pending to paid and stamps
// the payment details. A transaction not owned by the caller behaves like an
// unknown id; paying an already-paid transaction is an invalid transition,
// never a silent success.
func (s *TransactionService) Pay(ctx context.Context, ident domain.Identity, transactionID string, in ports.PayInput) (*domain.Transaction, error) {
	if ident.IsAdmin() || ident.Role() != domain.RoleRecycler {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(in.Method) == "" {
		return nil, fmt.Errorf("%w: payment method is required", domain.ErrValidation)
	}

	current, err := s.repo.FindByID(ctx, transactionID, ident.UserID())
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(domain.TransactionPaid) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, domain.TransactionPaid)
	}

	now := time.Now().UTC()
	updated, err := s.repo.UpdateIfStatus(ctx, transactionID, ident.UserID(), domain.TransactionPending, ports.TransactionPatch{
		Status:           domain.TransactionPaid,
		PaymentMethod:    in.Method,
		PaymentReference: in.Reference,
		PaidAt:           &now,
		UpdatedAt:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, domain.TransactionPaid)
	}

	s.recordAudit(transactionID, string(domain.TransactionPending), string(domain.TransactionPaid), ident)
	s.logger.Info().
		Str("transaction_id", transactionID).
		Str("recycler_id", ident.UserID()).
		Str("method", in.Method).
		Msg("commission paid")

	return updated, nil
}

// Confirm applies the admin's verdict to a paid transaction: confirmed=true
// moves paid→confirmed and stamps the confirmation metadata, confirmed=false
// moves paid→disputed. Both outcomes are terminal.
func (s *TransactionService) Confirm(ctx context.Context, ident domain.Identity, transactionID string, in ports.ConfirmInput) (*domain.Transaction, error) {
	if !ident.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	current, err := s.repo.FindByID(ctx, transactionID, "")
	if err != nil {
		return nil, err
	}
	if current.Status != domain.TransactionPaid {
		return nil, fmt.Errorf("%w: only paid transactions can be confirmed (current status %s)", domain.ErrInvalidTransition, current.Status)
	}

	target := domain.TransactionConfirmed
	if !in.Confirmed {
		target = domain.TransactionDisputed
	}

	now := time.Now().UTC()
	patch := ports.TransactionPatch{
		Status:     target,
		AdminNotes: in.Notes,
		UpdatedAt:  now,
	}
	if in.Confirmed {
		patch.ConfirmedBy = domain.RoleAdmin
		patch.ConfirmedAt = &now
	}

	updated, err := s.repo.UpdateIfStatus(ctx, transactionID, "", domain.TransactionPaid, patch)
	if err != nil {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, target)
	}

	s.recordAudit(transactionID, string(domain.TransactionPaid), string(target), ident)
	s.logger.Info().
		Str("transaction_id", transactionID).
		Bool("confirmed", in.Confirmed).
		Msg("commission reviewed")

	return updated, nil
}

// ListOutstanding returns the caller's view of open commission debt. For a
// recycler this is exactly the set the accept gating rule counts: own
// transactions in pending or paid, newest first. The admin sees every
// transaction.
func (s *TransactionService) ListOutstanding(ctx context.Context, ident domain.Identity) ([]*domain.Transaction, error) {
	if ident.IsAdmin() {
		return s.repo.List(ctx, ports.ListTransactionsFilter{})
	}
	if ident.Role() != domain.RoleRecycler {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx, ports.ListTransactionsFilter{
		RecyclerID: ident.UserID(),
		Statuses:   []domain.TransactionStatus{domain.TransactionPending, domain.TransactionPaid},
	})
}

func (s *TransactionService) recordAudit(id, from, to string, ident domain.Identity) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEntry{
		Entity:    "transaction",
		EntityID:  id,
		From:      from,
		To:        to,
		Actor:     domain.ActorLabel(ident),
		Timestamp: time.Now().UTC(),
	})
}
