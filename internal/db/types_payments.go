package db

import (
	"time"

	"github.com/google/uuid"
)

// Payment status values
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Payment is one payment request made on behalf of a user
type Payment struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	PaymentRequestID string     `json:"payment_request_id"`
	PaymentID        *string    `json:"payment_id,omitempty"`
	Status           string     `json:"status"`
	Amount           string     `json:"amount"`
	Purpose          string     `json:"purpose"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
}

// IsPaid reports whether the payment completed
func (p *Payment) IsPaid() bool {
	return p != nil && p.Status == PaymentPaid
}
