package handler

import (
	"github.com/e2recycle/platform/internal/core/domain"
)

// --- Domain → Response ---

func toRequestResponse(r *domain.RecyclingRequest) requestResponse {
	return requestResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		ProductName:    r.ProductName,
		ProductType:    r.ProductType,
		Description:    r.Description,
		Quantity:       r.Quantity,
		EstimatedPrice: r.EstimatedPrice,
		UniqueCode:     r.UniqueCode,
		Status:         string(r.Status),
		AcceptedBy:     r.AcceptedBy,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:               t.ID,
		RequestID:        t.RequestID,
		RecyclerID:       t.RecyclerID,
		OrderAmount:      t.OrderAmount,
		CommissionRate:   t.CommissionRate,
		CommissionAmount: t.CommissionAmount,
		Status:           string(t.Status),
		PaymentMethod:    t.PaymentMethod,
		PaymentReference: t.PaymentReference,
		PaidAt:           t.PaidAt,
		AdminNotes:       t.AdminNotes,
		ConfirmedBy:      t.ConfirmedBy,
		ConfirmedAt:      t.ConfirmedAt,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}
