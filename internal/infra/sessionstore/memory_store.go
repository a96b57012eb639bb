package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/shopbot/internal/domain/dialog"
)

type sessionRecord struct {
	session   dialog.Session
	expiresAt time.Time
}

// MemoryStore is an in-memory dialog session store for tests/dev.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]sessionRecord
}

// NewMemoryStore constructs a store backed by process memory. A zero ttl
// keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]sessionRecord),
	}
}

// Load implements dialog.SessionStore.
func (s *MemoryStore) Load(_ context.Context, id string) (dialog.Session, error) {
	s.mu.RLock()
	record, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return idle(id), nil
	}
	if !hasExpired(record.expiresAt, s.now()) {
		return record.session, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[id]
	if !ok {
		return idle(id), nil
	}
	// a Save may have replaced the record since the read lock was released
	if !hasExpired(current.expiresAt, s.now()) {
		return current.session, nil
	}
	delete(s.sessions, id)
	return idle(id), nil
}

// Save implements dialog.SessionStore. Idle sessions are dropped.
func (s *MemoryStore) Save(_ context.Context, session dialog.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.State == dialog.StateIdle {
		delete(s.sessions, session.ID)
		return nil
	}
	exp := time.Time{}
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	s.sessions[session.ID] = sessionRecord{session: session, expiresAt: exp}
	return nil
}

func idle(id string) dialog.Session {
	return dialog.Session{ID: id, State: dialog.StateIdle}
}

func hasExpired(expiresAt, now time.Time) bool {
	return !expiresAt.IsZero() && now.After(expiresAt)
}

var _ dialog.SessionStore = (*MemoryStore)(nil)
