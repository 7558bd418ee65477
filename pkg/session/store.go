// Package session holds the signed-in identity and keeps it in durable storage.
//
// A Session is the pair (token, user). The two are always set and cleared
// together, in memory and in storage. Storage is reached only through the
// Persister port so tests can substitute a MemoryStore.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/naveenspark/tally/pkg/domain"
)

var (
	// ErrNotLoggedIn is returned by mutations that need a signed-in user.
	ErrNotLoggedIn = errors.New("session: not logged in")
	// ErrInvalidSession is returned by Login when the user or token is missing.
	ErrInvalidSession = errors.New("session: user and token are both required")
	// ErrNoRecord is returned by Persister.Load when nothing is stored.
	ErrNoRecord = errors.New("session: no stored record")
)

// Record is the durable form of a session: the token string and the user as JSON.
type Record struct {
	Token string
	User  []byte
}

// Persister is durable client storage for a single session record.
type Persister interface {
	Load() (Record, error)
	Save(Record) error
	Clear() error
}

// Session is a snapshot of the current identity. The zero value is logged out.
type Session struct {
	Token string
	User  *domain.User
}

// Authenticated reports whether both token and user are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Store is the single source of truth for who is logged in.
type Store struct {
	mu        sync.RWMutex
	persister Persister
	log       *zap.Logger
	token     string
	user      *domain.User
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for degraded-storage warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a logged-out Store backed by p. Call Initialize to restore a saved session.
func New(p Persister, opts ...Option) *Store {
	s := &Store{persister: p, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// isSentinelToken reports tokens that stand for "no token" in stored data.
func isSentinelToken(tok string) bool {
	switch tok {
	case "", "null", "undefined":
		return true
	}
	return false
}

// Initialize restores the persisted session. Anything unreadable, missing or
// malformed yields the logged-out state; it never fails. The resolved state is
// written back so a half-written record does not survive.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.user = "", nil

	rec, err := s.persister.Load()
	switch {
	case errors.Is(err, ErrNoRecord):
		s.log.Debug("no stored session")
	case err != nil:
		s.log.Warn("load stored session", zap.Error(err))
	case isSentinelToken(rec.Token):
		s.log.Debug("stored token absent")
	case len(rec.User) == 0:
		s.log.Warn("stored token has no user record")
	default:
		var u *domain.User
		if err := json.Unmarshal(rec.User, &u); err != nil {
			s.log.Warn("stored user record is malformed", zap.Error(err))
			break
		}
		if u == nil {
			s.log.Warn("stored token has no user record")
			break
		}
		s.token, s.user = rec.Token, u
	}

	if err := s.persistLocked(); err != nil {
		s.log.Warn("repair stored session", zap.Error(err))
	}
}

// Login sets user and token together and persists them.
func (s *Store) Login(user *domain.User, token string) error {
	if user == nil || isSentinelToken(token) {
		return ErrInvalidSession
	}
	u := *user

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user = token, &u
	if err := s.persistLocked(); err != nil {
		return fmt.Errorf("session.Login: %w", err)
	}
	return nil
}

// Logout clears user and token together and removes the durable record.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user = "", nil
	if err := s.persistLocked(); err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}
	return nil
}

// UpdateProfile merges patch into the current user. The token is unchanged.
func (s *Store) UpdateProfile(patch domain.ProfileUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, ErrNotLoggedIn
	}
	u := patch.Apply(*s.user)
	s.user = &u
	if err := s.persistLocked(); err != nil {
		return nil, fmt.Errorf("session.UpdateProfile: %w", err)
	}
	out := u
	return &out, nil
}

// SetUser replaces the user record with a fresh server copy. The token is unchanged.
func (s *Store) SetUser(user *domain.User) error {
	if user == nil {
		return ErrInvalidSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrNotLoggedIn
	}
	u := *user
	s.user = &u
	if err := s.persistLocked(); err != nil {
		return fmt.Errorf("session.SetUser: %w", err)
	}
	return nil
}

// Current returns a copy of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Session{Token: s.token}
	if s.user != nil {
		u := *s.user
		out.User = &u
	}
	return out
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the signed-in user, or nil.
func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserID returns the signed-in user's ID, or "".
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// IsAuthenticated reports whether both token and user are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// persistLocked writes the whole session or clears it. Callers hold s.mu.
func (s *Store) persistLocked() error {
	if s.token == "" || s.user == nil {
		return s.persister.Clear()
	}
	data, err := json.Marshal(s.user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.persister.Save(Record{Token: s.token, User: data})
}
