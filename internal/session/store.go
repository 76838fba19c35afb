package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront-labs/storefront/internal/domain"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

// ErrInvalidSession rejects writes that would persist half a session.
var ErrInvalidSession = errors.New("invalid session")

// Signaler raises the same-context change signal.
type Signaler interface {
	Signal()
}

// MutationRecorder counts store mutations.
type MutationRecorder interface {
	RecordSessionMutation(op string)
}

// StoreOptions tunes a Store.
type StoreOptions struct {
	KeyPrefix string
	Logger    *zap.Logger
	Metrics   MutationRecorder
}

// Store reads and writes the persisted session. Write and Clear are the only
// mutators and both raise the change signal before returning.
type Store struct {
	area     Area
	signal   Signaler
	tokenKey string
	userKey  string
	logger   *zap.Logger
	metrics  MutationRecorder
}

// NewStore builds a store over area; signaler may be nil.
func NewStore(area Area, signaler Signaler, opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		area:     area,
		signal:   signaler,
		tokenKey: opts.KeyPrefix + tokenKey,
		userKey:  opts.KeyPrefix + userKey,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// Keys returns the persisted key names, token first.
func (s *Store) Keys() []string {
	return []string{s.tokenKey, s.userKey}
}

// KeysFor returns the key names a store with prefix persists.
func KeysFor(prefix string) []string {
	return []string{prefix + tokenKey, prefix + userKey}
}

// Read returns the combined session from one snapshot of both keys. Any
// failure, including a user record that does not decode, is reported as an
// absent session.
func (s *Store) Read(ctx context.Context) (domain.Session, bool) {
	vals, err := s.area.GetMany(ctx, s.tokenKey, s.userKey)
	if err != nil {
		s.logger.Warn("read session", zap.Error(err))
		return domain.Session{}, false
	}
	token, raw := vals[s.tokenKey], vals[s.userKey]
	if token == "" || raw == "" {
		return domain.Session{}, false
	}

	var user domain.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Debug("discarding undecodable session user", zap.Error(err))
		return domain.Session{}, false
	}
	if !user.Role.Valid() {
		s.logger.Debug("discarding session user with unknown role", zap.String("role", string(user.Role)))
		return domain.Session{}, false
	}

	return domain.Session{Token: token, User: user}, true
}

// Role projects the current role; RoleNone when there is no session.
func (s *Store) Role(ctx context.Context) domain.Role {
	sess, ok := s.Read(ctx)
	if !ok {
		return domain.RoleNone
	}
	return sess.Role()
}

// Token returns the credential, or "" when there is no session.
func (s *Store) Token(ctx context.Context) string {
	sess, ok := s.Read(ctx)
	if !ok {
		return ""
	}
	return sess.Token
}

// Write persists both halves of the session in one area update.
func (s *Store) Write(ctx context.Context, token string, user domain.SessionUser) error {
	if token == "" || user.ID == "" || !user.Role.Valid() {
		return fmt.Errorf("%w: token, user id and a known role are required", ErrInvalidSession)
	}
	blob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	if err := s.area.Put(ctx, map[string]string{
		s.tokenKey: token,
		s.userKey:  string(blob),
	}); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	s.logger.Debug("session written", zap.String("user_id", user.ID), zap.Stringer("role", user.Role))
	s.record("write")
	s.fire()
	return nil
}

// Clear removes both halves of the session. Clearing an empty store still
// raises the signal.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.area.Delete(ctx, s.tokenKey, s.userKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Debug("session cleared")
	s.record("clear")
	s.fire()
	return nil
}

func (s *Store) fire() {
	if s.signal != nil {
		s.signal.Signal()
	}
}

func (s *Store) record(op string) {
	if s.metrics != nil {
		s.metrics.RecordSessionMutation(op)
	}
}
