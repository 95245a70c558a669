package handler

import "time"

// submitRequestRequest is the payload for POST /v1/requests.
// estimated_price uses gte so zero-value donations are accepted.
type submitRequestRequest struct {
	ProductName    string  `json:"product_name"    validate:"required"`
	ProductType    string  `json:"product_type"    validate:"required"`
	Description    string  `json:"description"`
	Quantity       int     `json:"quantity"        validate:"required,gt=0"`
	EstimatedPrice float64 `json:"estimated_price" validate:"gte=0"`
}

type reviewRequestRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

// Response-only types owned by the transport layer, kept separate from the
// domain types. The secret code has no field here at all.

type requestResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ProductName    string    `json:"product_name"`
	ProductType    string    `json:"product_type"`
	Description    string    `json:"description,omitempty"`
	Quantity       int       `json:"quantity"`
	EstimatedPrice float64   `json:"estimated_price"`
	UniqueCode     string    `json:"unique_code"`
	Status         string    `json:"status"`
	AcceptedBy     string    `json:"accepted_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type acceptResponse struct {
	Request     requestResponse     `json:"request"`
	Transaction transactionResponse `json:"transaction"`
}

type secretCodeResponse struct {
	RequestID  string `json:"request_id"`
	SecretCode string `json:"secret_code"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listRequestsResponse struct {
	Data       []requestResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
