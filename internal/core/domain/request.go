package domain

import "time"

// RequestStatus represents the lifecycle state of a recycling request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestAccepted  RequestStatus = "accepted"
	RequestCompleted RequestStatus = "completed"
	RequestRejected  RequestStatus = "rejected"
)

// validRequestTransitions defines the allowed state machine transitions.
// Rejection is possible while the request is pending or approved; once a
// recycler has accepted, the only way forward is completion.
var validRequestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:  {RequestApproved, RequestRejected},
	RequestApproved: {RequestAccepted, RequestRejected},
	RequestAccepted: {RequestCompleted},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RecyclingRequest is one item submitted for recycling.
//
// AcceptedBy is non-empty iff Status is accepted or completed. SecretCode is
// never serialized to JSON; it is released only through the secret-code
// operation once the paired transaction is confirmed.
type RecyclingRequest struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	UserID         string        `json:"user_id" bson:"user_id"`
	ProductName    string        `json:"product_name" bson:"product_name"`
	ProductType    string        `json:"product_type" bson:"product_type"`
	Description    string        `json:"description,omitempty" bson:"description,omitempty"`
	Quantity       int           `json:"quantity" bson:"quantity"`
	EstimatedPrice float64       `json:"estimated_price" bson:"estimated_price"`
	UniqueCode     string        `json:"unique_code" bson:"unique_code"`
	SecretCode     string        `json:"-" bson:"secret_code"`
	Status         RequestStatus `json:"status" bson:"status"`
	AcceptedBy     string        `json:"accepted_by,omitempty" bson:"accepted_by,omitempty"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" bson:"updated_at"`
}
