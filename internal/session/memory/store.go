package memory

import (
	"context"
	"sync"
	"time"

	"github.com/keremustuner/Case-Study/internal/domain"
	apperrors "github.com/keremustuner/Case-Study/pkg/errors"
)

type entry struct {
	session   *domain.Session
	expiresAt time.Time
}

// Store is an in-memory session store with sliding expiry.
// Sessions are copied on the way in and out so callers never share state.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

// New creates a new in-memory store whose sessions expire after ttl without
// access.
func New(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a copy of the session and pushes its expiry forward.
func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.sessions[id]
	if !ok || !now.Before(e.expiresAt) {
		delete(s.sessions, id)
		return nil, apperrors.NotFound("session", id)
	}

	e.expiresAt = now.Add(s.ttl)
	s.sessions[id] = e
	return e.session.Clone(), nil
}

// Save stores a copy of the session.
func (s *Store) Save(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = entry{session: sess.Clone(), expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Delete removes a session by ID.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Sweep evicts expired sessions and returns how many were removed.
func (s *Store) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}
