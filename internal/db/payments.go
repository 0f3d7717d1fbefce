package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, user_id, payment_request_id, payment_id, status, amount, purpose, created_at, updated_at, paid_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID, &p.UserID, &p.PaymentRequestID, &p.PaymentID, &p.Status,
		&p.Amount, &p.Purpose, &p.CreatedAt, &p.UpdatedAt, &p.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePaymentRequest records a new pending payment request for a user
func (db *DB) SavePaymentRequest(ctx context.Context, userID uuid.UUID, requestID, amount, purpose string) (*Payment, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO payments (user_id, payment_request_id, status, amount, purpose)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (payment_request_id) DO UPDATE SET updated_at = NOW()
		 RETURNING `+paymentColumns,
		userID, requestID, PaymentPending, amount, purpose,
	)
	p, err := scanPayment(row)
	if err != nil {
		return nil, fmt.Errorf("failed to save payment request: %w", err)
	}
	return p, nil
}

// GetPaymentByUser returns the user's most relevant payment: a paid one if any, otherwise
// the most recent. Returns nil, nil when the user has none.
func (db *DB) GetPaymentByUser(ctx context.Context, userID uuid.UUID) (*Payment, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE user_id = $1
		 ORDER BY (status = 'paid') DESC, created_at DESC
		 LIMIT 1`,
		userID,
	)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment for user: %w", err)
	}
	return p, nil
}

// GetPaymentByRequestID returns the payment for a gateway request ID, or nil, nil.
func (db *DB) GetPaymentByRequestID(ctx context.Context, requestID string) (*Payment, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE payment_request_id = $1`,
		requestID,
	)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment %s: %w", requestID, err)
	}
	return p, nil
}

// HasPaid reports whether the user has a completed payment
func (db *DB) HasPaid(ctx context.Context, userID uuid.UUID) (bool, error) {
	var paid bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE user_id = $1 AND status = $2)`,
		userID, PaymentPaid,
	).Scan(&paid)
	if err != nil {
		return false, fmt.Errorf("failed to check payment status: %w", err)
	}
	return paid, nil
}

// MarkPaymentPaid completes a payment request
func (db *DB) MarkPaymentPaid(ctx context.Context, requestID, paymentID string) error {
	return db.setPaymentStatus(ctx, requestID, paymentID, PaymentPaid)
}

// MarkPaymentFailed records a failed payment attempt. A paid record is never downgraded.
func (db *DB) MarkPaymentFailed(ctx context.Context, requestID, paymentID string) error {
	return db.setPaymentStatus(ctx, requestID, paymentID, PaymentFailed)
}

func (db *DB) setPaymentStatus(ctx context.Context, requestID, paymentID, status string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE payments
		 SET status = $2,
		     payment_id = NULLIF($3, ''),
		     updated_at = NOW(),
		     paid_at = CASE WHEN $2 = 'paid' THEN NOW() ELSE paid_at END
		 WHERE payment_request_id = $1 AND status <> 'paid'`,
		requestID, status, paymentID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment %s %s: %w", requestID, status, err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := db.GetPaymentByRequestID(ctx, requestID)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("payment %s: %w", requestID, ErrNotFound)
		}
	}
	return nil
}

// DeletePaymentsForUser removes every payment record of a user
func (db *DB) DeletePaymentsForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM payments WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete payments: %w", err)
	}
	return nil
}
