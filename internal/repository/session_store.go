package repository

import (
	"context"
	"sync"

	"github.com/Sainava/Wiz-Scholar/internal/domain"
)

// SessionStore keeps per-player game state. Put silently overwrites an
// existing id. Update serializes mutation per session id: fn runs with the
// key locked, and an fn error leaves the stored session untouched.
// Concurrent updates on different ids must not block each other.
type SessionStore interface {
	Put(ctx context.Context, session *domain.SortingSession) error
	Get(ctx context.Context, id string) (*domain.SortingSession, error)
	Update(ctx context.Context, id string, fn func(*domain.SortingSession) error) (*domain.SortingSession, error)
	Delete(ctx context.Context, id string) error
}

type sessionEntry struct {
	mu      sync.Mutex
	session *domain.SortingSession
}

// memorySessionStore is the default in-process store: a map guarded by a
// read-write mutex, with a per-entry mutex serializing each session's
// mutations (keyed-lock pattern).
type memorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]*sessionEntry
}

// NewMemorySessionStore returns an empty in-memory store.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{entries: make(map[string]*sessionEntry)}
}

func (s *memorySessionStore) Put(_ context.Context, session *domain.SortingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[session.ID] = &sessionEntry{session: session.Clone()}
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, id string) (*domain.SortingSession, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session.Clone(), nil
}

func (s *memorySessionStore) Update(_ context.Context, id string, fn func(*domain.SortingSession) error) (*domain.SortingSession, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// fn runs on a copy; the stored session only advances on success.
	next := entry.session.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	entry.session = next
	return next.Clone(), nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.entries, id)
	return nil
}
