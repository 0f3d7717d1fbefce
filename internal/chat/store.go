package chat

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-chat/internal/observability"
)

// Store holds one Session per signed-in user. Sessions live in memory only.
type Store struct {
	assistant Assistant
	logger    *logrus.Entry

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewStore creates an empty store whose sessions share assistant.
func NewStore(assistant Assistant, logger *logrus.Entry) *Store {
	if logger == nil {
		logger = observability.Component(nil, "chat")
	}
	return &Store{
		assistant: assistant,
		logger:    logger,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Get returns the user's session, creating a fresh one on first use.
func (s *Store) Get(userID uuid.UUID) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess
	}
	sess := NewSession(s.assistant, s.logger.WithField("user_id", userID.String()))
	s.sessions[userID] = sess
	return sess
}

// Delete resets and forgets the user's session (logout).
func (s *Store) Delete(userID uuid.UUID) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	delete(s.sessions, userID)
	s.mu.Unlock()

	if ok {
		sess.Reset()
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
