package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-chat/internal/db"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	userID := uuid.New()

	p, err := store.GetPaymentByUser(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = store.SavePaymentRequest(ctx, userID, "req-1", "99.00", "Resume builder")
	require.NoError(t, err)
	_, err = store.SavePaymentRequest(ctx, userID, "req-2", "99.00", "Resume builder")
	require.NoError(t, err)

	require.NoError(t, store.MarkPaymentPaid(ctx, "req-1", "pay-1"))
	require.NoError(t, store.MarkPaymentFailed(ctx, "req-1", "pay-late"), "paid records are not downgraded")

	p, err = store.GetPaymentByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "req-1", p.PaymentRequestID)
	assert.Equal(t, db.PaymentPaid, p.Status)
	assert.Equal(t, "pay-1", *p.PaymentID)
	assert.NotNil(t, p.PaidAt)

	paid, err := store.HasPaid(ctx, userID)
	require.NoError(t, err)
	assert.True(t, paid)

	paid, err = store.HasPaid(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, paid)

	assert.ErrorIs(t, store.MarkPaymentPaid(ctx, "req-missing", "pay"), db.ErrNotFound)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p, err := store.SavePaymentRequest(ctx, uuid.New(), "req-1", "99.00", "Resume builder")
	require.NoError(t, err)

	p.Status = db.PaymentPaid
	again, err := store.GetPaymentByRequestID(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, db.PaymentPending, again.Status)
}
