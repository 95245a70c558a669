package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/e2recycle/platform/internal/core/domain"
	"github.com/e2recycle/platform/internal/core/ports"
)

func seedTransaction(txs *stubTransactionRepo, id, recyclerID string, status domain.TransactionStatus) *domain.Transaction {
	now := time.Now().UTC()
	tx := &domain.Transaction{
		ID:               id,
		RequestID:        "req-" + id,
		RecyclerID:       recyclerID,
		OrderAmount:      200,
		CommissionRate:   8,
		CommissionAmount: 16,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	txs.insert(tx)
	return tx
}

func newTxSvc(txs *stubTransactionRepo) *TransactionService {
	return NewTransactionService(txs, &stubAuditRecorder{}, discardLogger)
}

// ---------------------------------------------------------------------------
// Pay
// ---------------------------------------------------------------------------

func TestTransactionService_Pay_Success(t *testing.T) {
	txs := newStubTransactionRepo()
	seedTransaction(txs, "tx-1", "rec-a", domain.TransactionPending)
	svc := newTxSvc(txs)

	updated, err := svc.Pay(context.Background(), recyclerA, "tx-1", ports.PayInput{Method: "bank", Reference: "REF1"})
	if err != nil {
		t.Fatalf("Pay returned error: %v", err)
	}
	if updated.Status != domain.TransactionPaid {
		t.Errorf("expected paid, got %s", updated.Status)
	}
	if updated.PaymentMethod != "bank" || updated.PaymentReference != "REF1" {
		t.Errorf("payment details not stamped: %+v", updated)
	}
	if updated.PaidAt == nil {
		t.Errorf("paid_at not stamped")
	}
}

func TestTransactionService_Pay_TwiceFails(t *testing.T) {
	txs := newStubTransactionRepo()
	seedTransaction(txs, "tx-1", "rec-a", domain.TransactionPending)
	svc := newTxSvc(txs)

	if _, err := svc.Pay(context.Background(), recyclerA, "tx-1", ports.PayInput{Method: "bank"}); err != nil {
		t.Fatalf("first Pay returned error: %v", err)
	}
	_, err := svc.Pay(context.Background(), recyclerA, "tx-1", ports.PayInput{Method: "bank"})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on double pay, got: %v", err)
	}
}

func TestTransactionService_Pay_NotFound(t *testing.T) {
	txs := newStubTransactionRepo()
	seedTransaction(txs, "tx-1", "rec-b", domain.TransactionPending)
	svc := newTxSvc(txs)

	// Unknown id and an id owned by another recycler must be
	// indistinguishable.
	for _, id := range []string{"missing", "tx-1"} {
		if _, err := svc.Pay(context.Background(), recyclerA, id, ports.PayInput{Method: "bank"}); !errors.Is(err, domain.ErrTransactionNotFound) {
			t.Errorf("id %s: expected not found, got: %v", id, err)
		}
	}
}

func TestTransactionService_Pay_RequiresMethod(t *testing.T) {
	txs := newStubTransactionRepo()
	seedTransaction(txs, "tx-1", "rec-a", domain.TransactionPending)
	svc := newTxSvc(txs)

	if _, err := svc.Pay(context.Background(), recyclerA, "tx-1", ports.PayInput{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got: %v", err)
	}
}

func TestTransactionService_Pay_Forbidden(t *testing.T) {
	txs := newStubTransactionRepo()
	seedTransaction(txs, "tx-1", "rec-a", domain.TransactionPending)
	svc := newTxSvc(txs)

	for _, ident := range []domain.Identity{submitter, admin} {
		if _, err := svc.Pay(context.Background(), ident, "tx-1", ports.PayInput{Method: "bank"}); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("role %s: expected forbidden, got: %v", ident.Role(), err)
		}
	}
}

// ---------------------------------------------------------------------------
// Confirm
// ---------------------------------------------------------------------------

func TestTransactionService_Confirm_True(t *testing.T) {
	txs := newStubTransactionRepo()
	seedTransaction(txs, "tx-1", "rec-a", domain.TransactionPaid)
	svc := newTxSvc(txs)

	updated, err := svc.Confirm(context.Background(), admin, "tx-1", ports.ConfirmInput{Confirmed: true, Notes: "verified"})
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if updated.Status != domain.TransactionConfirmed {
		t.Errorf("expected confirmed, got %s", updated.Status)
	}
	if updated.ConfirmedBy != domain.RoleAdmin || updated.ConfirmedAt == nil {
		t.Errorf("confirmation metadata not stamped: %+v", updated)
	}
	if updated.AdminNotes != "verified" {
		t.Errorf("notes not stored: %q", updated.AdminNotes)
	}
}

func TestTransactionService_Confirm_False_Disputes(t *testing.T) {
	txs := newStubTransactionRepo()
	seedTransaction(txs, "tx-1", "rec-a", domain.TransactionPaid)
	svc := newTxSvc(txs)

	updated, err := svc.Confirm(context.Background(), admin, "tx-1", ports.ConfirmInput{Confirmed: false, Notes: "reference does not match"})
	if err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if updated.Status != domain.TransactionDisputed {
		t.Errorf("expected disputed, got %s", updated.Status)
	}
	if updated.ConfirmedBy != "" || updated.ConfirmedAt != nil {
		t.Errorf("disputed transaction must not carry confirmation metadata: %+v", updated)
	}
}

func TestTransactionService_Confirm_OnlyFromPaid(t *testing.T) {
	for _, from := range []domain.TransactionStatus{domain.TransactionPending, domain.TransactionConfirmed, domain.TransactionDisputed} {
		t.Run(string(from), func(t *testing.T) {
			txs := newStubTransactionRepo()
			seedTransaction(txs, "tx-1", "rec-a", from)
			svc := newTxSvc(txs)

			_, err := svc.Confirm(context.Background(), admin, "tx-1", ports.ConfirmInput{Confirmed: true})
			if !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("expected invalid transition, got: %v", err)
			}
		})
	}
}

func TestTransactionService_DisputedIsTerminal(t *testing.T) {
	txs := newStubTransactionRepo()
	seedTransaction(txs, "tx-1", "rec-a", domain.TransactionPaid)
	svc := newTxSvc(txs)

	if _, err := svc.Confirm(context.Background(), admin, "tx-1", ports.ConfirmInput{Confirmed: false}); err != nil {
		t.Fatalf("dispute: %v", err)
	}

	if _, err := svc.Pay(context.Background(), recyclerA, "tx-1", ports.PayInput{Method: "bank"}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("pay on disputed: expected invalid transition, got: %v", err)
	}
	if _, err := svc.Confirm(context.Background(), admin, "tx-1", ports.ConfirmInput{Confirmed: true}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("confirm on disputed: expected invalid transition, got: %v", err)
	}
}

func TestTransactionService_Confirm_Forbidden(t *testing.T) {
	txs := newStubTransactionRepo()
	seedTransaction(txs, "tx-1", "rec-a", domain.TransactionPaid)
	svc := newTxSvc(txs)

	for _, ident := range []domain.Identity{recyclerA, submitter} {
		if _, err := svc.Confirm(context.Background(), ident, "tx-1", ports.ConfirmInput{Confirmed: true}); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("role %s: expected forbidden, got: %v", ident.Role(), err)
		}
	}
}

// ---------------------------------------------------------------------------
// ListOutstanding
// ---------------------------------------------------------------------------

func TestTransactionService_ListOutstanding_NewestFirst(t *testing.T) {
	txs := newStubTransactionRepo()
	seedTransaction(txs, "tx-1", "rec-a", domain.TransactionPending)
	seedTransaction(txs, "tx-2", "rec-a", domain.TransactionConfirmed) // settled, excluded
	seedTransaction(txs, "tx-3", "rec-a", domain.TransactionPaid)
	seedTransaction(txs, "tx-4", "rec-b", domain.TransactionPending) // other recycler
	svc := newTxSvc(txs)

	list, err := svc.ListOutstanding(context.Background(), recyclerA)
	if err != nil {
		t.Fatalf("ListOutstanding returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 outstanding transactions, got %d", len(list))
	}
	if list[0].ID != "tx-3" || list[1].ID != "tx-1" {
		t.Errorf("expected newest-first ordering [tx-3 tx-1], got [%s %s]", list[0].ID, list[1].ID)
	}
}

func TestTransactionService_ListOutstanding_AdminSeesAll(t *testing.T) {
	txs := newStubTransactionRepo()
	seedTransaction(txs, "tx-1", "rec-a", domain.TransactionPending)
	seedTransaction(txs, "tx-2", "rec-b", domain.TransactionConfirmed)
	svc := newTxSvc(txs)

	list, err := svc.ListOutstanding(context.Background(), admin)
	if err != nil {
		t.Fatalf("ListOutstanding returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected all transactions for admin, got %d", len(list))
	}
}

func TestTransactionService_ListOutstanding_Forbidden(t *testing.T) {
	svc := newTxSvc(newStubTransactionRepo())
	if _, err := svc.ListOutstanding(context.Background(), submitter); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got: %v", err)
	}
}
