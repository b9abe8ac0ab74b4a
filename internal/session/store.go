package session

import (
	"context"
	"fmt"
	"time"
)

const (
	// CookieName is the jar entry holding the bearer token.
	CookieName = "access"

	// TokenLifetime is how long a stored token survives in the jar.
	TokenLifetime = 7 * 24 * time.Hour
)

// Cookies is the persisted key/value jar the Store writes through.
type Cookies interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string, expiresAt time.Time) error
	Remove(ctx context.Context, name string) error
}

// Store reads and writes the bearer token cookie.
type Store struct {
	jar Cookies
	now func() time.Time
}

// NewStore wraps jar. A nil now uses time.Now.
func NewStore(jar Cookies, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{jar: jar, now: now}
}

// Get returns the stored token, if any.
func (s *Store) Get(ctx context.Context) (string, bool, error) {
	if s == nil || s.jar == nil {
		return "", false, fmt.Errorf("session store is nil")
	}
	token, ok, err := s.jar.Get(ctx, CookieName)
	if err != nil {
		return "", false, fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// Set persists token for TokenLifetime.
func (s *Store) Set(ctx context.Context, token string) error {
	if s == nil || s.jar == nil {
		return fmt.Errorf("session store is nil")
	}
	if token == "" {
		return fmt.Errorf("token is empty")
	}
	if err := s.jar.Set(ctx, CookieName, token, s.now().Add(TokenLifetime)); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Remove deletes the token immediately.
func (s *Store) Remove(ctx context.Context) error {
	if s == nil || s.jar == nil {
		return fmt.Errorf("session store is nil")
	}
	if err := s.jar.Remove(ctx, CookieName); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
