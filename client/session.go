// Package client is a typed Go client for the IntelliBiz API with an
// explicit, file-backed session.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"intellibiz-backend/models"
	"intellibiz-backend/policy"
)

// LoginPath is where callers send the user after the session is cleared.
const LoginPath = "/login"

type sessionState struct {
	Token              string       `json:"token"`
	User               *models.User `json:"user"`
	RedirectAfterLogin string       `json:"redirectAfterLogin,omitempty"`
}

// Session holds the signed-in user. The state is persisted as JSON at path;
// an empty path keeps it in memory only.
type Session struct {
	mu    sync.RWMutex
	path  string
	state sessionState
}

func NewSession(path string) *Session {
	return &Session{path: path}
}

// Init loads the persisted state. A missing file starts an empty session; a
// corrupt one is discarded.
func (s *Session) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = sessionState{}
	if s.path == "" {
		return nil
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(raw, &s.state); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("discarding unreadable session file")
		s.state = sessionState{}
		return s.removeLocked()
	}
	return nil
}

// Set stores a fresh login.
func (s *Session) Set(token string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	s.state.User = user
	return s.persistLocked()
}

// Clear drops the credentials and the persisted file. The pending redirect
// survives so the user can be returned after signing in again.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	redirect := s.state.RedirectAfterLogin
	s.state = sessionState{RedirectAfterLogin: redirect}
	if redirect == "" {
		return s.removeLocked()
	}
	return s.persistLocked()
}

// Refresh reloads the current user from the server so role changes are
// picked up without signing in again.
func (s *Session) Refresh(ctx context.Context, c *Client) error {
	user, err := c.Me(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Token == "" {
		return nil
	}
	s.state.User = user
	return s.persistLocked()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Can consults the shared policy with the session user's role.
func (s *Session) Can(c policy.Capability) bool {
	u := s.User()
	return u != nil && policy.Allowed(u.Role, c)
}

// Capabilities lists the actions to offer the session user. Empty when
// signed out.
func (s *Session) Capabilities() []policy.Capability {
	u := s.User()
	if u == nil {
		return nil
	}
	return policy.Capabilities(u.Role)
}

func (s *Session) SetRedirectAfterLogin(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.RedirectAfterLogin = path
	return s.persistLocked()
}

// TakeRedirectAfterLogin returns and forgets the pending redirect.
func (s *Session) TakeRedirectAfterLogin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.state.RedirectAfterLogin
	s.state.RedirectAfterLogin = ""
	return path, s.persistLocked()
}

func (s *Session) persistLocked() error {
	if s.path == "" {
		return nil
	}
	if s.state == (sessionState{}) {
		return s.removeLocked()
	}
	raw, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *Session) removeLocked() error {
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
