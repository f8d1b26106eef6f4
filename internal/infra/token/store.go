// Package token persists the signed-in session (access/refresh tokens and
// the cached profile) in a small JSON file on the shopper's device, the
// durable key-value store of this client.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"example.com/dukatech/client/internal/domain/session"
	"example.com/dukatech/client/internal/event"
)

type Store struct {
	mu   sync.Mutex
	path string
	bus  *event.Bus
}

// fileState mirrors the three persisted keys. User stays raw so a corrupt
// cached profile can degrade to "absent" at read time instead of poisoning
// every load.
type fileState struct {
	Access  string          `json:"access,omitempty"`
	Refresh string          `json:"refresh,omitempty"`
	User    json.RawMessage `json:"user,omitempty"`
}

func NewStore(path string, bus *event.Bus) *Store {
	return &Store{path: path, bus: bus}
}

// SetSession writes the provided fields and leaves absent ones untouched,
// then publishes auth-changed. A write can never leave a cached user
// behind without an access token.
func (s *Store) SetSession(sess session.Session) error {
	s.mu.Lock()
	state := s.load()
	if sess.Access != "" {
		state.Access = sess.Access
	}
	if sess.Refresh != "" {
		state.Refresh = sess.Refresh
	}
	if sess.User != nil {
		raw, err := json.Marshal(sess.User)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("token: encode user: %w", err)
		}
		state.User = raw
	}
	if state.Access == "" {
		state.User = nil
	}
	err := s.save(state)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.bus.PublishAuthChanged()
	return nil
}

// Clear removes all three keys and publishes auth-changed.
func (s *Store) Clear() error {
	s.mu.Lock()
	err := os.Remove(s.path)
	s.mu.Unlock()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("token: clear session: %w", err)
	}
	s.bus.PublishAuthChanged()
	return nil
}

// AccessToken returns the stored access token, or "" when signed out.
// Satisfies rest.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Access
}

// RefreshToken returns the stored refresh token, or "".
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Refresh
}

// CachedUser returns the cached profile for instant paint before the
// server confirms it. A malformed cache reads as nil, not as an error.
func (s *Store) CachedUser() *session.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return session.DecodeUser(s.load().User)
}

// Expired reports whether the stored access token has an exp claim in the
// past. No token reads as expired; a token that does not parse as a JWT or
// carries no exp is left for the server to judge. The claims are read
// without signature verification, the client holds no signing secret.
func (s *Store) Expired() bool {
	raw := s.AccessToken()
	if raw == "" {
		return true
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// load reads the persisted state. An unreadable or malformed file is a
// signed-out state, never an error.
func (s *Store) load() fileState {
	var state fileState
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fileState{}
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return fileState{}
	}
	return state
}

func (s *Store) save(state fileState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("token: encode session: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("token: create state dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("token: write session: %w", err)
	}
	return nil
}
