package auth

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront-labs/storefront/internal/domain"
	apperrors "github.com/storefront-labs/storefront/pkg/util/errorutil"
)

// RequireRole admits principals loaded by Handle whose role is listed. With no
// roles listed any signed-in principal passes.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("sign in required")
		}
		if len(roles) > 0 && !slices.Contains(roles, principal.Role) {
			return apperrors.NewForbidden("role " + string(principal.Role) + " may not use this endpoint")
		}
		return c.Next()
	}
}
