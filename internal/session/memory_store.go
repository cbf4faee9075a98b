package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-process Store and AuthorizationStore for tests and
// single-instance development.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	pending  map[string]Authorization
	now      func() time.Time
}

var (
	_ Store              = (*MemoryStore)(nil)
	_ AuthorizationStore = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		pending:  make(map[string]Authorization),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, s Session) error {
	if s.SessionID == "" || s.UserID == "" {
		return errMissingIDs
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !s.ExpiresAt.After(m.now()) {
		return errExpired
	}
	if _, ok := m.sessions[s.SessionID]; ok {
		return fmt.Errorf("session: id collision")
	}
	m.sessions[s.SessionID] = s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if !s.ExpiresAt.After(m.now()) {
		delete(m.sessions, sessionID)
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemoryStore) SaveAuthorization(_ context.Context, a Authorization) error {
	if a.State == "" {
		return fmt.Errorf("session: missing state")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !a.ExpiresAt.After(m.now()) {
		return errExpired
	}
	m.pending[a.State] = a
	return nil
}

func (m *MemoryStore) ConsumeAuthorization(_ context.Context, state string) (*Authorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.pending[state]
	if !ok {
		return nil, nil
	}
	delete(m.pending, state)
	if !a.ExpiresAt.After(m.now()) {
		return nil, nil
	}
	return &a, nil
}
