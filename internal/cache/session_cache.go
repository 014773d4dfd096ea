package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GTDGit/vendor_console/internal/session"
)

// SessionCache keeps the operator's session in Redis so that every console
// process (server and CLI) shares one login.
type SessionCache struct {
	store    JSONStore
	operator string
	now      func() time.Time
}

// NewSessionCache creates a SessionCache for the given operator name.
func NewSessionCache(store JSONStore, operator string) *SessionCache {
	return &SessionCache{store: store, operator: operator, now: time.Now}
}

func (c *SessionCache) key() string {
	return "session:" + c.operator
}

// Save stores the session until its token expires. Sessions without a
// known expiry are kept until cleared.
func (c *SessionCache) Save(ctx context.Context, s *session.Session) error {
	var ttl time.Duration
	if !s.ExpiresAt.IsZero() {
		ttl = s.ExpiresAt.Sub(c.now())
		if ttl <= 0 {
			return session.ErrSessionExpired
		}
	}

	if err := c.store.SetJSON(ctx, c.key(), s, ttl); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Load returns the stored session or session.ErrNoToken.
func (c *SessionCache) Load(ctx context.Context) (*session.Session, error) {
	var s session.Session
	err := c.store.GetJSON(ctx, c.key(), &s)
	if errors.Is(err, ErrCacheMiss) {
		return nil, session.ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &s, nil
}

// Clear removes the stored session.
func (c *SessionCache) Clear(ctx context.Context) error {
	return c.store.Delete(ctx, c.key())
}
