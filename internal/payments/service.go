package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-chat/internal/db"
	"github.com/jonathan/resume-chat/internal/observability"
	"github.com/jonathan/resume-chat/internal/types"
)

// Verification messages shown to the user
const (
	MessagePaid        = "Payment confirmed! Redirecting you to your resume builder..."
	MessageNotSuccess  = "Payment was not successful. Please try again."
	MessageVerifyFails = "Payment verification failed. If money was deducted, contact support."
)

// Store persists payment records
type Store interface {
	SavePaymentRequest(ctx context.Context, userID uuid.UUID, requestID, amount, purpose string) (*db.Payment, error)
	GetPaymentByUser(ctx context.Context, userID uuid.UUID) (*db.Payment, error)
	GetPaymentByRequestID(ctx context.Context, requestID string) (*db.Payment, error)
	HasPaid(ctx context.Context, userID uuid.UUID) (bool, error)
	MarkPaymentPaid(ctx context.Context, requestID, paymentID string) error
	MarkPaymentFailed(ctx context.Context, requestID, paymentID string) error
}

// Config holds the fixed terms of the one-time payment
type Config struct {
	Amount      string
	Purpose     string
	RedirectURL string
}

// User identifies the payer
type User struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// CreateResult is the response to a payment initiation
type CreateResult struct {
	AlreadyPaid bool   `json:"already_paid"`
	PaymentURL  string `json:"payment_url,omitempty"`
}

// VerifyResult is the outcome of verifying a completed checkout
type VerifyResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Service runs the create/verify payment flow
type Service struct {
	gateway Gateway
	store   Store
	cfg     Config
	logger  *logrus.Entry
}

// NewService creates a payment service
func NewService(gateway Gateway, store Store, cfg Config, logger *logrus.Entry) *Service {
	if logger == nil {
		logger = observability.Component(nil, "payments")
	}
	return &Service{
		gateway: gateway,
		store:   store,
		cfg:     cfg,
		logger:  logger,
	}
}

// CreatePayment starts a checkout for user, or reports that the user already paid.
func (s *Service) CreatePayment(ctx context.Context, user User) (*CreateResult, error) {
	paid, err := s.store.HasPaid(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if paid {
		return &CreateResult{AlreadyPaid: true}, nil
	}

	req, err := s.gateway.CreatePaymentRequest(ctx, CreateParams{
		Amount:      s.cfg.Amount,
		Purpose:     s.cfg.Purpose,
		BuyerName:   user.Name,
		Email:       user.Email,
		RedirectURL: s.cfg.RedirectURL,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.store.SavePaymentRequest(ctx, user.ID, req.ID, s.cfg.Amount, s.cfg.Purpose); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":            user.ID.String(),
		"payment_request_id": req.ID,
	}).Info("payment request created")
	return &CreateResult{PaymentURL: req.URL}, nil
}

// VerifyPayment confirms a checkout the gateway redirected back from. A redirect status other
// than Credit fails without contacting the gateway.
func (s *Service) VerifyPayment(ctx context.Context, userID uuid.UUID, req types.VerifyPaymentRequest) (*VerifyResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.PaymentStatus != "" && req.PaymentStatus != StatusCredit {
		return &VerifyResult{Status: db.PaymentFailed, Message: MessageNotSuccess}, nil
	}

	record, err := s.store.GetPaymentByRequestID(ctx, req.PaymentRequestID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, req.PaymentRequestID)
	}
	if record.UserID != userID {
		return nil, ErrForbidden
	}
	if record.IsPaid() {
		return &VerifyResult{Success: true, Status: db.PaymentPaid, Message: MessagePaid}, nil
	}

	logger := s.logger.WithFields(logrus.Fields{
		"user_id":            userID.String(),
		"payment_request_id": req.PaymentRequestID,
		"payment_id":         req.PaymentID,
	})

	status, err := s.gateway.GetPayment(ctx, req.PaymentRequestID, req.PaymentID)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			logger.Warn("gateway does not know this payment")
			if err := s.store.MarkPaymentFailed(ctx, req.PaymentRequestID, req.PaymentID); err != nil {
				return nil, err
			}
			return &VerifyResult{Status: db.PaymentFailed, Message: MessageVerifyFails}, nil
		}
		return nil, err
	}

	if status.Status != StatusCredit {
		logger.WithField("gateway_status", status.Status).Warn("payment not credited")
		if err := s.store.MarkPaymentFailed(ctx, req.PaymentRequestID, req.PaymentID); err != nil {
			return nil, err
		}
		return &VerifyResult{Status: db.PaymentFailed, Message: MessageVerifyFails}, nil
	}

	if err := s.store.MarkPaymentPaid(ctx, req.PaymentRequestID, req.PaymentID); err != nil {
		return nil, err
	}
	logger.Info("payment verified")
	return &VerifyResult{Success: true, Status: db.PaymentPaid, Message: MessagePaid}, nil
}

// HasPaid reports whether the user completed the payment
func (s *Service) HasPaid(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.store.HasPaid(ctx, userID)
}

var (
	_ Store   = (*db.DB)(nil)
	_ Store   = (*MemoryStore)(nil)
	_ Gateway = (*InstamojoGateway)(nil)
)
