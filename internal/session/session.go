// Package session holds the locally persisted user identity and cached profile.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/moneymap/moneytree/internal/model"
)

// Keys under which the session is persisted.
const (
	KeyUserID  = "moneymap_user_id"
	KeyProfile = "moneymap_user_profile"
)

// ErrEmptyUserID is returned by SetUserID for a blank id.
var ErrEmptyUserID = errors.New("session: user id must not be empty")

// Backend is durable key/value storage. *store.KV satisfies it.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// Store is the single source of truth for "is this client onboarded".
type Store struct {
	backend Backend
	log     *slog.Logger
}

// New returns a Store over backend.
func New(backend Backend, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{backend: backend, log: log}
}

// Session reads the persisted identity. It never fails: unreadable or
// corrupt entries are treated as absent.
func (s *Store) Session() model.UserSession {
	var sess model.UserSession

	id, ok, err := s.backend.Get(KeyUserID)
	if err != nil {
		s.log.Warn("reading session user id", "err", err)
	} else if ok {
		sess.UserID = strings.TrimSpace(id)
	}
	sess.IsOnboarded = sess.UserID != ""

	raw, ok, err := s.backend.Get(KeyProfile)
	switch {
	case err != nil:
		s.log.Warn("reading session profile", "err", err)
	case ok:
		var p model.UserProfile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			s.log.Warn("ignoring corrupt cached profile", "err", err)
		} else {
			sess.Profile = &p
		}
	}

	return sess
}

// UserID is shorthand for Session().UserID.
func (s *Store) UserID() string {
	return s.Session().UserID
}

// SetUserID persists id, which marks the client as onboarded.
func (s *Store) SetUserID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrEmptyUserID
	}
	if err := s.backend.Set(KeyUserID, id); err != nil {
		return fmt.Errorf("session: saving user id: %w", err)
	}
	return nil
}

// SetProfile caches the profile. It does not affect IsOnboarded.
func (s *Store) SetProfile(p model.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("session: encoding profile: %w", err)
	}
	if err := s.backend.Set(KeyProfile, string(data)); err != nil {
		return fmt.Errorf("session: saving profile: %w", err)
	}
	return nil
}

// Clear removes identity and profile, returning to the unauthenticated state.
func (s *Store) Clear() error {
	if err := s.backend.Delete(KeyUserID, KeyProfile); err != nil {
		return fmt.Errorf("session: clearing: %w", err)
	}
	return nil
}

// MemoryBackend is an in-process Backend for tests and ephemeral runs.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

// Get implements Backend.
func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Backend.
func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Delete implements Backend.
func (m *MemoryBackend) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
