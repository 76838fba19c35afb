package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront-labs/storefront/internal/apiclient"
	"github.com/storefront-labs/storefront/internal/domain"
	"github.com/storefront-labs/storefront/internal/session"
)

// SessionService is the frontend's login and logout flow. Together with the
// API transport it is the only writer of the session store.
type SessionService struct {
	api    *apiclient.Client
	store  *session.Store
	logger *zap.Logger
}

// NewSessionService builds the service.
func NewSessionService(api *apiclient.Client, store *session.Store, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{api: api, store: store, logger: logger}
}

// Login exchanges credentials for a session and persists it.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.SessionUser, error) {
	res, err := s.api.Login(ctx, apiclient.Credentials{Email: email, Password: password})
	if err != nil {
		return domain.SessionUser{}, err
	}
	if err := s.store.Write(ctx, res.Token, res.User); err != nil {
		return domain.SessionUser{}, fmt.Errorf("persist session: %w", err)
	}
	s.logger.Info("signed in", zap.String("user_id", res.User.ID), zap.Stringer("role", res.User.Role))
	return res.User, nil
}

// Register creates an account and signs it in.
func (s *SessionService) Register(ctx context.Context, reg apiclient.Registration) (domain.SessionUser, error) {
	res, err := s.api.Register(ctx, reg)
	if err != nil {
		return domain.SessionUser{}, err
	}
	if err := s.store.Write(ctx, res.Token, res.User); err != nil {
		return domain.SessionUser{}, fmt.Errorf("persist session: %w", err)
	}
	s.logger.Info("registered", zap.String("user_id", res.User.ID), zap.Stringer("role", res.User.Role))
	return res.User, nil
}

// Logout destroys the session.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info("signed out")
	return nil
}

// Current returns the persisted session user without calling the API.
func (s *SessionService) Current(ctx context.Context) (domain.SessionUser, bool) {
	sess, ok := s.store.Read(ctx)
	if !ok {
		return domain.SessionUser{}, false
	}
	return sess.User, true
}

// Restore asks the API who the stored credential belongs to and refreshes the
// stored user record. A dead session is torn down by the transport, and the
// error is returned here.
func (s *SessionService) Restore(ctx context.Context) (domain.SessionUser, bool, error) {
	sess, ok := s.store.Read(ctx)
	if !ok {
		return domain.SessionUser{}, false, nil
	}
	user, err := s.api.Me(ctx)
	if err != nil {
		return domain.SessionUser{}, false, err
	}
	if *user != sess.User {
		if err := s.store.Write(ctx, sess.Token, *user); err != nil {
			return domain.SessionUser{}, false, fmt.Errorf("persist session: %w", err)
		}
	}
	return *user, true, nil
}
