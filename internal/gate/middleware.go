package gate

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storefront-labs/storefront/internal/domain"
	"github.com/storefront-labs/storefront/internal/nav"
)

// RoleReader is the synchronous role accessor used per request.
type RoleReader interface {
	Role() domain.Role
}

// MiddlewareOptions configure Require.
type MiddlewareOptions struct {
	Override string
	Paths    Paths
	Metrics  DecisionRecorder
}

// Require guards a route group. Redirects go through the request-scoped
// navigator when one is installed, otherwise straight to a 303.
func Require(roles RoleReader, allowed AllowSet, opts MiddlewareOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := Evaluate(roles.Role(), allowed, opts.Override, opts.Paths)
		if opts.Metrics != nil {
			opts.Metrics.RecordGateDecision(d.State.String())
		}
		if d.Render {
			return c.Next()
		}

		var direct string
		fallback := nav.Func(func(path string) { direct = path })
		nav.FromContext(c.UserContext(), fallback).Navigate(d.Redirect)
		if direct != "" {
			return c.Redirect(direct, fiber.StatusSeeOther)
		}
		return nil
	}
}

// RequireAny permits any signed-in role.
func RequireAny(roles RoleReader, opts MiddlewareOptions) fiber.Handler {
	return Require(roles, Allow(domain.RoleBuyer, domain.RoleSeller, domain.RoleAdmin), opts)
}
