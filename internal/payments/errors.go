// Package payments implements the one-time payment that unlocks the resume builder.
package payments

import (
	"errors"
	"fmt"
)

var (
	// ErrPaymentRequired is returned when a user without a completed payment reaches a paid feature.
	ErrPaymentRequired = errors.New("payment required")
	// ErrRequestNotFound is returned when a payment request is unknown.
	ErrRequestNotFound = errors.New("payment request not found")
	// ErrForbidden is returned when a payment request belongs to another user.
	ErrForbidden = errors.New("payment request belongs to another user")
	// ErrNotConfigured is returned when the gateway credentials are missing.
	ErrNotConfigured = errors.New("payment gateway not configured")
)

// GatewayError represents a failed call to the payment gateway
type GatewayError struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *GatewayError) Error() string {
	msg := fmt.Sprintf("payment gateway %s failed", e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}
