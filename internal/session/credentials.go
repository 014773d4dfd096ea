package session

import (
	"context"
	"time"
)

// Credentials reads the bearer token from a Store. It implements
// vendoractivo.CredentialProvider.
type Credentials struct {
	store Store
	now   func() time.Time
}

func NewCredentials(store Store) *Credentials {
	return &Credentials{store: store, now: time.Now}
}

// Token returns the stored token, or ErrNoToken / ErrSessionExpired.
func (c *Credentials) Token(ctx context.Context) (string, error) {
	s, err := c.Current(ctx)
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

// Current returns the stored session if it has not expired.
func (c *Credentials) Current(ctx context.Context) (*Session, error) {
	s, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, ErrNoToken
	}
	if s.Expired(c.now()) {
		return nil, ErrSessionExpired
	}
	return s, nil
}
