// Package session keeps per-session chat histories in memory.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/raqiba/Weather-ChatBot/internal/chat"
)

var (
	// ErrNotFound is returned for an unknown session ID.
	ErrNotFound = errors.New("session not found")
)

type session struct {
	// turn serializes conversation turns within one session.
	turn sync.Mutex

	messages []chat.Message
}

// MemoryStore is a concurrency-safe in-memory session store. Sessions are
// isolated from one another.
type MemoryStore struct {
	mu sync.RWMutex

	data map[uuid.UUID]*session

	// max number of messages kept per session; <= 0 is unlimited
	maxMessages int
}

// NewMemoryStore creates a store that keeps at most maxMessages per session.
func NewMemoryStore(maxMessages int) *MemoryStore {
	return &MemoryStore{
		data:        make(map[uuid.UUID]*session),
		maxMessages: maxMessages,
	}
}

// Create starts an empty session and returns its ID.
func (s *MemoryStore) Create() uuid.UUID {
	id := uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[id] = &session{}
	return id
}

// Append adds a message, dropping the oldest ones beyond the retention limit.
func (s *MemoryStore) Append(id uuid.UUID, msg chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		return ErrNotFound
	}

	sess.messages = append(sess.messages, msg)

	if s.maxMessages > 0 && len(sess.messages) > s.maxMessages {
		over := len(sess.messages) - s.maxMessages
		sess.messages = append([]chat.Message(nil), sess.messages[over:]...)
	}
	return nil
}

// History returns a copy of the session's messages, oldest first.
func (s *MemoryStore) History(id uuid.UUID) ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]chat.Message, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Acquire blocks until no other turn is running in the session and returns
// the function that releases it.
func (s *MemoryStore) Acquire(id uuid.UUID) (release func(), err error) {
	s.mu.RLock()
	sess, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	sess.turn.Lock()
	return sess.turn.Unlock, nil
}
