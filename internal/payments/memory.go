package payments

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-chat/internal/db"
)

// MemoryStore keeps payment records in process memory. It backs the server when no database
// is configured and is lost on restart.
type MemoryStore struct {
	mu        sync.Mutex
	byRequest map[string]*db.Payment
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byRequest: make(map[string]*db.Payment)}
}

// SavePaymentRequest records a pending payment request
func (m *MemoryStore) SavePaymentRequest(_ context.Context, userID uuid.UUID, requestID, amount, purpose string) (*db.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byRequest[requestID]; ok {
		p.UpdatedAt = time.Now()
		return copyPayment(p), nil
	}
	now := time.Now()
	p := &db.Payment{
		ID:               uuid.New(),
		UserID:           userID,
		PaymentRequestID: requestID,
		Status:           db.PaymentPending,
		Amount:           amount,
		Purpose:          purpose,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	m.byRequest[requestID] = p
	return copyPayment(p), nil
}

// GetPaymentByUser returns the user's paid record if any, otherwise the newest one
func (m *MemoryStore) GetPaymentByUser(_ context.Context, userID uuid.UUID) (*db.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *db.Payment
	for _, p := range m.byRequest {
		if p.UserID != userID {
			continue
		}
		switch {
		case best == nil,
			p.IsPaid() && !best.IsPaid(),
			p.IsPaid() == best.IsPaid() && p.CreatedAt.After(best.CreatedAt):
			best = p
		}
	}
	return copyPayment(best), nil
}

// GetPaymentByRequestID returns the record for a request, or nil
func (m *MemoryStore) GetPaymentByRequestID(_ context.Context, requestID string) (*db.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyPayment(m.byRequest[requestID]), nil
}

// HasPaid reports whether the user has a paid record
func (m *MemoryStore) HasPaid(_ context.Context, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byRequest {
		if p.UserID == userID && p.IsPaid() {
			return true, nil
		}
	}
	return false, nil
}

// MarkPaymentPaid completes a request
func (m *MemoryStore) MarkPaymentPaid(_ context.Context, requestID, paymentID string) error {
	return m.setStatus(requestID, paymentID, db.PaymentPaid)
}

// MarkPaymentFailed records a failed attempt; paid records are left alone
func (m *MemoryStore) MarkPaymentFailed(_ context.Context, requestID, paymentID string) error {
	return m.setStatus(requestID, paymentID, db.PaymentFailed)
}

func (m *MemoryStore) setStatus(requestID, paymentID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byRequest[requestID]
	if !ok {
		return db.ErrNotFound
	}
	if p.IsPaid() {
		return nil
	}
	now := time.Now()
	p.Status = status
	p.UpdatedAt = now
	if paymentID != "" {
		id := paymentID
		p.PaymentID = &id
	}
	if status == db.PaymentPaid {
		p.PaidAt = &now
	}
	return nil
}

func copyPayment(p *db.Payment) *db.Payment {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}
