// Package apiclient talks to the storefront REST API. Its Transport attaches
// the session credential to every request and tears the session down when a
// response shows it is no longer valid.
package apiclient

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/storefront-labs/storefront/internal/nav"
)

// Session is the slice of the session store the transport needs.
type Session interface {
	Token(ctx context.Context) string
	Clear(ctx context.Context) error
}

// Signaler raises the same-context change signal.
type Signaler interface {
	Signal()
}

// ClassificationRecorder counts classified failures.
type ClassificationRecorder interface {
	RecordAPIFailure(endpoint string, status int, class string)
}

// Transport is the request/response interceptor.
type Transport struct {
	Base      http.RoundTripper
	Session   Session
	Signals   Signaler
	Navigator nav.Navigator
	Policy    Policy
	LoginPath string
	Logger    *zap.Logger
	Metrics   ClassificationRecorder
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req
	if token := t.Session.Token(req.Context()); token != "" {
		out = req.Clone(req.Context())
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}

	class := t.Policy.Classify(resp.StatusCode, req.URL.Path)
	if t.Metrics != nil {
		t.Metrics.RecordAPIFailure(t.Policy.Endpoint(req.URL.Path), resp.StatusCode, class.String())
	}
	if class == FatalAuth {
		t.teardown(req.Context(), req.URL.Path, resp.StatusCode)
	}
	return resp, nil
}

// teardown clears the session, signals, then navigates to login. Concurrent
// failures each run the full sequence; the store ends up cleared either way.
func (t *Transport) teardown(ctx context.Context, path string, status int) {
	logger := t.logger()
	logger.Info("session rejected by api",
		zap.String("path", path),
		zap.Int("status", status))

	if err := t.Session.Clear(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("clear session after fatal auth", zap.Error(err))
	}
	if t.Signals != nil {
		t.Signals.Signal()
	}

	login := t.LoginPath
	if login == "" {
		login = "/login"
	}
	nav.FromContext(ctx, t.Navigator).Navigate(login)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) logger() *zap.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return zap.NewNop()
}
