package chat

import (
	"context"
	"testing"

	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-chat/internal/observability"
)

func TestStore_GetCreatesOncePerUser(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	store := NewStore(&fakeAssistant{}, observability.Component(logger, "test"))
	alice, bob := uuid.New(), uuid.New()

	first := store.Get(alice)
	assert.Same(t, first, store.Get(alice))
	assert.NotSame(t, first, store.Get(bob))
	assert.Equal(t, 2, store.Len())
}

func TestStore_DeleteResetsSession(t *testing.T) {
	store := NewStore(&fakeAssistant{reply: "ok", extracted: janeDoc()}, nil)
	user := uuid.New()

	sess := store.Get(user)
	_, err := sess.Send(context.Background(), "hi")
	require.NoError(t, err)
	require.Len(t, sess.Snapshot().Messages, 2)

	store.Delete(user)
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, sess.Snapshot().Messages, "stale handles see a reset session")

	fresh := store.Get(user)
	assert.NotSame(t, sess, fresh)
	assert.Empty(t, fresh.Snapshot().Messages)
}

func TestStore_DeleteUnknownUser(t *testing.T) {
	store := NewStore(&fakeAssistant{}, nil)
	assert.NotPanics(t, func() { store.Delete(uuid.New()) })
}
