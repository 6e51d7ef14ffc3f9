// Package session keeps the server-side state behind the opaque cookie
// token. The token itself carries no information; everything lives in
// the injected Store.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Update when the token has no session,
// typically because it expired or the user logged out elsewhere.
var ErrNotFound = errors.New("session not found")

// Session is the state bound to one logged-in browser.
type Session struct {
	UserID int
	// Answer holds the expected result of the pending minigame
	// question, nil when no question is outstanding.
	Answer *int
}

// Store is the session backend. Get returns (nil, nil) for an unknown
// token so callers can treat "no session" as unauthenticated rather
// than an error.
type Store interface {
	Create(ctx context.Context, s Session) (string, error)
	Get(ctx context.Context, token string) (*Session, error)
	Update(ctx context.Context, token string, s Session) error
	Delete(ctx context.Context, token string) error
}

// MemoryStore holds sessions in process memory. Sessions last until
// logout or process exit.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (m *MemoryStore) Create(_ context.Context, s Session) (string, error) {
	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()
	return token, nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryStore) Update(_ context.Context, token string, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; !ok {
		return ErrNotFound
	}
	m.sessions[token] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}
