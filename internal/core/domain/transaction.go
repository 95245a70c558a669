package domain

import "time"

// TransactionStatus represents the lifecycle state of a commission transaction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionPaid      TransactionStatus = "paid"
	TransactionConfirmed TransactionStatus = "confirmed"
	TransactionDisputed  TransactionStatus = "disputed"
)

// validTransactionTransitions defines the allowed state machine transitions.
// confirmed and disputed are terminal.
var validTransactionTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionPending: {TransactionPaid, TransactionDisputed},
	TransactionPaid:    {TransactionConfirmed, TransactionDisputed},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range validTransactionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DefaultCommissionRate is the commission percentage applied when no override
// is configured.
const DefaultCommissionRate = 8

// ComputeCommission returns the commission owed on orderAmount at an integer
// percent rate. The result is snapshotted onto the transaction at creation
// and never recomputed.
func ComputeCommission(orderAmount float64, rate int) float64 {
	return orderAmount * float64(rate) / 100
}

// Transaction is the commission owed by a recycler for one accepted request.
// Exactly one transaction exists per accepted request.
type Transaction struct {
	ID               string            `json:"id" bson:"_id,omitempty"`
	RequestID        string            `json:"request_id" bson:"request_id"`
	RecyclerID       string            `json:"recycler_id" bson:"recycler_id"`
	OrderAmount      float64           `json:"order_amount" bson:"order_amount"`
	CommissionRate   int               `json:"commission_rate" bson:"commission_rate"`
	CommissionAmount float64           `json:"commission_amount" bson:"commission_amount"`
	Status           TransactionStatus `json:"status" bson:"status"`
	PaymentMethod    string            `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	PaymentReference string            `json:"payment_reference,omitempty" bson:"payment_reference,omitempty"`
	PaidAt           *time.Time        `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	AdminNotes       string            `json:"admin_notes,omitempty" bson:"admin_notes,omitempty"`
	ConfirmedBy      string            `json:"confirmed_by,omitempty" bson:"confirmed_by,omitempty"`
	ConfirmedAt      *time.Time        `json:"confirmed_at,omitempty" bson:"confirmed_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at" bson:"updated_at"`
}
