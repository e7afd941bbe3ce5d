// Package session holds SelectionSession stores.
package session

import (
	"context"
	"slices"
	"sync"

	"ArticleBot/internal/domain"
	"ArticleBot/internal/ports"
)

// MemoryStore keeps sessions in process memory; they do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]domain.SelectionSession
}

var _ ports.SessionStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]domain.SelectionSession{}}
}

func (s *MemoryStore) Create(_ context.Context, session domain.SelectionSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = clone(session)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (domain.SelectionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.SelectionSession{}, domain.ErrSessionNotFound
	}
	return clone(session), nil
}

func (s *MemoryStore) Mutate(_ context.Context, id string, fn func(*domain.SelectionSession) error) (domain.SelectionSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[id]
	if !ok {
		return domain.SelectionSession{}, domain.ErrSessionNotFound
	}
	next := clone(current)
	if err := fn(&next); err != nil {
		return clone(current), err
	}
	s.sessions[id] = clone(next)
	return next, nil
}

func (s *MemoryStore) Finish(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false, nil
	}
	delete(s.sessions, id)
	return true, nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func clone(session domain.SelectionSession) domain.SelectionSession {
	session.Selected = slices.Clone(session.Selected)
	return session
}
