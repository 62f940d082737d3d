// Package session owns the persisted login state: the bearer token and the
// cached user record. Both live in a ports.KVStore and are always written and
// cleared together; a store holding only one of them is logged out.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/volunteerhub/dashboard/internal/core/domain"
	"github.com/volunteerhub/dashboard/internal/core/ports"
)

// Storage keys shared with every other client of the same storage.
const (
	KeyToken    = "token"
	KeyUserInfo = "userInfo"
)

// Snapshot is the raw persisted state read in one pass.
type Snapshot struct {
	Token    string
	UserInfo string
}

// Authenticated reports whether both halves of the session are present.
func (s Snapshot) Authenticated() bool {
	return s.Token != "" && s.UserInfo != ""
}

// UserFetcher resolves a profile from a token, used when hydrating a store
// that has a token but no usable cached record.
type UserFetcher func(ctx context.Context, token string) (*domain.User, error)

// Store is the session context handed to every component that needs the
// login state. There is no locking across read-then-act sequences; the last
// writer wins.
type Store struct {
	kv  ports.KVStore
	log zerolog.Logger

	mu      sync.RWMutex
	current *domain.User
}

func NewStore(kv ports.KVStore, log zerolog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Snapshot reads token and user record.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	token, _, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		return Snapshot{}, fmt.Errorf("session: read token: %w", err)
	}
	info, _, err := s.kv.Get(ctx, KeyUserInfo)
	if err != nil {
		return Snapshot{}, fmt.Errorf("session: read user record: %w", err)
	}
	return Snapshot{Token: token, UserInfo: info}, nil
}

// Token returns the stored bearer token, or "" when there is none.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		return "", fmt.Errorf("session: read token: %w", err)
	}
	return token, nil
}

// Save persists token together with the JSON encoding of record and makes
// record the current user when it carries a profile.
func (s *Store) Save(ctx context.Context, token string, record any) error {
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("session: encode user record: %w", err)
	}
	return s.SaveRaw(ctx, token, string(b))
}

// SaveRaw persists token and an already-serialised user record.
func (s *Store) SaveRaw(ctx context.Context, token, userInfo string) error {
	if err := s.kv.SetMany(ctx, map[string]string{KeyToken: token, KeyUserInfo: userInfo}); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	var u domain.User
	if json.Unmarshal([]byte(userInfo), &u) == nil {
		s.SetCurrent(&u)
	}
	return nil
}

// UserInfo returns the serialised user record exactly as stored.
func (s *Store) UserInfo(ctx context.Context) (string, bool, error) {
	v, ok, err := s.kv.Get(ctx, KeyUserInfo)
	if err != nil {
		return "", false, fmt.Errorf("session: read user record: %w", err)
	}
	return v, ok && v != "", nil
}

// CachedUser decodes the stored user record. It returns (nil, nil) when no
// record is stored and domain.ErrInvalidUserRecord when it is not valid JSON.
func (s *Store) CachedUser(ctx context.Context) (*domain.User, error) {
	raw, ok, err := s.UserInfo(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return ParseUser(raw)
}

// ParseUser decodes a serialised user record.
func ParseUser(raw string) (*domain.User, error) {
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidUserRecord, err)
	}
	return &u, nil
}

// Clear removes both keys and forgets the current user. Clearing an already
// empty session is not an error.
func (s *Store) Clear(ctx context.Context) error {
	s.SetCurrent(nil)
	if err := s.kv.Delete(ctx, KeyToken, KeyUserInfo); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// Hydrate loads the current user from the cached record, falling back to
// fetch when only a token is stored. A failed fetch is tolerated: the store
// simply stays without a current user.
func (s *Store) Hydrate(ctx context.Context, fetch UserFetcher) (*domain.User, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if snap.UserInfo != "" {
		u, err := ParseUser(snap.UserInfo)
		if err == nil {
			s.SetCurrent(u)
			return u, nil
		}
		s.log.Debug().Err(err).Msg("ignoring unreadable cached user record")
	}

	if snap.Token == "" || fetch == nil {
		s.SetCurrent(nil)
		return nil, nil
	}

	u, err := fetch(ctx, snap.Token)
	if err != nil {
		s.log.Debug().Err(err).Msg("user info not available")
		s.SetCurrent(nil)
		return nil, nil
	}
	s.SetCurrent(u)
	return u, nil
}

func (s *Store) Current() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

func (s *Store) SetCurrent(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.current = nil
		return
	}
	c := *u
	s.current = &c
}

func (s *Store) IsLoggedIn() bool {
	return s.Current() != nil
}

func (s *Store) StudentNo() string {
	if u := s.Current(); u != nil {
		return NormalizeString(u.StudentNo)
	}
	return ""
}

func (s *Store) Username() string {
	if u := s.Current(); u != nil {
		return NormalizeString(u.Username)
	}
	return ""
}

// Role defaults to domain.RoleUser when unknown.
func (s *Store) Role() domain.Role {
	if u := s.Current(); u != nil {
		if r := NormalizeString(string(u.Role)); r != "" {
			return domain.Role(r)
		}
	}
	return domain.RoleUser
}
