// Package session holds the authenticated identity and bearer credential
// for the current user, persisted across process restarts in a local file.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Identity is the authenticated actor as reported by the tracker service.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	UserID   int    `json:"user_id"`
}

// persisted is the on-disk session payload.
type persisted struct {
	User  Identity `json:"user"`
	Token string   `json:"token"`
}

// Store owns the current identity and credential. It is constructed once and
// injected into every consumer; there is no package-level instance.
type Store struct {
	path string

	mu         sync.RWMutex
	identity   *Identity
	credential string
	ready      bool
}

// New creates a store backed by the given file path. Nothing is loaded until
// Restore is called.
func New(path string) *Store {
	return &Store{path: path}
}

// Restore attempts to load a persisted session. Restoration is best effort: a
// missing file or a payload that does not parse as the expected shape leaves
// the store logged out, never an error. After Restore returns, Ready reports
// true and access decisions may be made.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.credential = ""
	s.ready = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if p.User.Username == "" || p.User.Role == "" || p.Token == "" {
		return
	}

	id := p.User
	s.identity = &id
	s.credential = p.Token
}

// Ready reports whether Restore has completed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Set persists the identity and credential durably and updates in-memory
// state. Called after a successful login.
func (s *Store) Set(identity Identity, credential string) error {
	data, err := json.MarshalIndent(persisted{User: identity, Token: credential}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := identity
	s.identity = &id
	s.credential = credential
	s.ready = true
	return nil
}

// Clear removes the persisted session and resets in-memory state. Idempotent.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.identity = nil
	s.credential = ""
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// Current returns a copy of the in-memory identity, or nil when logged out.
func (s *Store) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// Credential returns the bearer token for the current session, or empty when
// logged out. The token is opaque to the client and only ever attached to
// outbound requests.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}
