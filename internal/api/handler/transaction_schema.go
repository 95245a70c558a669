package handler

import "time"

type payTransactionRequest struct {
	Method    string `json:"method"    validate:"required"`
	Reference string `json:"reference"`
}

type confirmTransactionRequest struct {
	Confirmed *bool  `json:"confirmed" validate:"required"`
	Notes     string `json:"notes"`
}

type transactionResponse struct {
	ID               string     `json:"id"`
	RequestID        string     `json:"request_id"`
	RecyclerID       string     `json:"recycler_id"`
	OrderAmount      float64    `json:"order_amount"`
	CommissionRate   int        `json:"commission_rate"`
	CommissionAmount float64    `json:"commission_amount"`
	Status           string     `json:"status"`
	PaymentMethod    string     `json:"payment_method,omitempty"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	AdminNotes       string     `json:"admin_notes,omitempty"`
	ConfirmedBy      string     `json:"confirmed_by,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type listTransactionsResponse struct {
	Data []transactionResponse `json:"data"`
}
