package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

var (
	ErrNoToken            = errors.New("NO_SESSION")
	ErrSessionExpired     = errors.New("SESSION_EXPIRED")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
)

// Session is the operator's authenticated state as issued by the backend.
type Session struct {
	Token     string            `json:"token" yaml:"token"`
	UserID    string            `json:"userId" yaml:"userId"`
	Name      string            `json:"name" yaml:"name"`
	Email     string            `json:"email" yaml:"email"`
	Role      vendoractivo.Role `json:"role" yaml:"role"`
	ExpiresAt time.Time         `json:"expiresAt" yaml:"expiresAt,omitempty"`
}

// Expired reports whether the session's token is past its expiry. Sessions
// without a known expiry never expire locally.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists the current session.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context) (*Session, error)
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	current *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	cp := *s
	m.mu.Lock()
	m.current = &cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, ErrNoToken
	}
	cp := *m.current
	return &cp, nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
	return nil
}
