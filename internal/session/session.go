// Package session keeps the bearer token in the cookie jar and exposes the
// current authentication state to the rest of the program.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
)

// State is a point-in-time view of the session.
type State struct {
	Token         string
	UserID        api.UserID
	Authenticated bool
}

// HasIdentity reports whether a user id could be read from the token.
func (s State) HasIdentity() bool {
	return s.Authenticated && !s.UserID.IsZero()
}

// Session is the application-wide source of truth for authentication. It is
// loaded once from the Store and updated by Login and Logout; readers take
// snapshots.
type Session struct {
	mu    sync.RWMutex
	store *Store
	state State
}

// Load builds a Session from whatever token the store currently holds.
func Load(ctx context.Context, store *Store) (*Session, error) {
	s := &Session{store: store}
	token, ok, err := store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if ok {
		s.state = stateFor(token)
	}
	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	if s == nil {
		return State{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Login persists token and marks the session authenticated.
func (s *Session) Login(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	if err := s.store.Set(ctx, token); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = stateFor(token)
	s.mu.Unlock()
	return nil
}

// Logout removes the stored token. The in-memory state is cleared even when
// the jar write fails.
func (s *Session) Logout(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	s.mu.Lock()
	s.state = State{}
	s.mu.Unlock()
	return s.store.Remove(ctx)
}

// Reload re-reads the token from the store, picking up changes made outside
// this process.
func (s *Session) Reload(ctx context.Context) (State, error) {
	if s == nil {
		return State{}, fmt.Errorf("session is nil")
	}
	token, ok, err := s.store.Get(ctx)
	if err != nil {
		return State{}, fmt.Errorf("reload session: %w", err)
	}
	next := State{}
	if ok {
		next = stateFor(token)
	}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	return next, nil
}

// TokenPresent reports whether the jar currently holds a token. It reads the
// jar directly and does not touch the in-memory state.
func (s *Session) TokenPresent(ctx context.Context) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("session is nil")
	}
	_, ok, err := s.store.Get(ctx)
	return ok, err
}

func stateFor(token string) State {
	st := State{Token: token, Authenticated: token != ""}
	if id, err := DecodeIdentity(token); err == nil {
		st.UserID = id
	}
	return st
}
