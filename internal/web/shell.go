// Package web is the storefront shell: the pages a visitor navigates, each
// behind an access gate, rendered as JSON view models.
package web

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/storefront-labs/storefront/internal/apiclient"
	"github.com/storefront-labs/storefront/internal/domain"
	"github.com/storefront-labs/storefront/internal/gate"
	"github.com/storefront-labs/storefront/internal/nav"
	"github.com/storefront-labs/storefront/internal/observability"
	"github.com/storefront-labs/storefront/internal/role"
	"github.com/storefront-labs/storefront/internal/service"
	apperrors "github.com/storefront-labs/storefront/pkg/util/errorutil"
)

// Dependencies bundles what the shell needs.
type Dependencies struct {
	Observer *role.Observer
	Sessions *service.SessionService
	API      *apiclient.Client
	Paths    gate.Paths
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// Shell serves the storefront pages for one context. It tracks the page the
// context is on and follows role changes made elsewhere: when the session
// ends in another context, the tracked location moves to the gate's redirect.
type Shell struct {
	observer *role.Observer
	sessions *service.SessionService
	api      *apiclient.Client
	paths    gate.Paths
	metrics  *observability.Metrics
	logger   *zap.Logger

	location *nav.Location
	guard    *gate.Guard
}

// NewShell builds the shell and starts following role changes.
func NewShell(deps Dependencies) *Shell {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	paths := deps.Paths
	if paths == (gate.Paths{}) {
		paths = gate.DefaultPaths
	}
	location := nav.NewLocation(paths.Home)
	s := &Shell{
		observer: deps.Observer,
		sessions: deps.Sessions,
		api:      deps.API,
		paths:    paths,
		metrics:  deps.Metrics,
		logger:   logger,
		location: location,
	}
	s.guard = gate.NewGuard(deps.Observer, location, gate.Options{
		Allowed: publicPage,
		Paths:   paths,
		Metrics: deps.Metrics,
		Logger:  logger,
	})
	return s
}

// Location returns the page this context is on.
func (s *Shell) Location() string {
	return s.location.Current()
}

// Navigate moves this context to path outside of a page request, such as
// when a background API call ends the session.
func (s *Shell) Navigate(path string) {
	s.location.Navigate(path)
}

// Close stops following role changes.
func (s *Shell) Close() {
	s.guard.Close()
}

var (
	publicPage = gate.Allow(domain.RoleNone, domain.RoleBuyer, domain.RoleSeller, domain.RoleAdmin)
	guestPage  = gate.Allow(domain.RoleNone)
	buyerPage  = gate.Allow(domain.RoleBuyer)
	staffPage  = gate.Allow(domain.RoleSeller, domain.RoleAdmin)
	adminPage  = gate.Allow(domain.RoleAdmin)
)

// navigation installs a request-scoped navigator and turns whatever it
// recorded into a redirect. A recorded navigation wins over the handler's
// own response or error.
func (s *Shell) navigation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		pending := &nav.Pending{}
		c.SetUserContext(nav.WithNavigator(c.UserContext(), pending))

		err := c.Next()
		if target, ok := pending.Target(); ok {
			s.location.Navigate(target)
			return c.Redirect(target, fiber.StatusSeeOther)
		}
		return err
	}
}

// guarded returns the gate for allowed followed by the location tracker.
func (s *Shell) guarded(allowed gate.AllowSet, override string, h fiber.Handler) []fiber.Handler {
	require := gate.Require(s.observer, allowed, gate.MiddlewareOptions{
		Override: override,
		Paths:    s.paths,
		Metrics:  s.metrics,
	})
	track := func(c *fiber.Ctx) error {
		s.location.Navigate(c.Path())
		s.guard.SetAllowed(allowed, override)
		s.guard.Sync(c.Path())
		return c.Next()
	}
	return []fiber.Handler{require, track, h}
}

// view wraps page data with the session summary every page shows.
func (s *Shell) view(page string, data any) fiber.Map {
	r := s.observer.Role()
	return fiber.Map{
		"page": page,
		"session": fiber.Map{
			"role":          r,
			"authenticated": r != domain.RoleNone,
		},
		"data": data,
	}
}

// apiError converts an API failure into the page error. Session teardown has
// already queued a redirect, so fatal failures render nothing.
func (s *Shell) apiError(err error) error {
	if errors.Is(err, apiclient.ErrSessionExpired) {
		return nil
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		code := apiErr.Code
		if code == "" {
			code = "UPSTREAM_REJECTED"
		}
		return apperrors.NewDomainError(code, apiErr.Message, apiErr.Status, nil)
	}
	s.logger.Warn("storefront api call failed", zap.Error(err))
	return apperrors.NewBadGateway(err)
}

// landing is where a fresh session goes after login.
func (s *Shell) landing(r domain.Role) string {
	if r == domain.RoleSeller || r == domain.RoleAdmin {
		return s.paths.Admin
	}
	return s.paths.Home
}
