package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront-labs/storefront/internal/domain"
	"github.com/storefront-labs/storefront/internal/repository"
	apperrors "github.com/storefront-labs/storefront/pkg/util/errorutil"
)

func newAuthApp(t *testing.T) (*fiber.App, *TokenManager, repository.UserRepository) {
	t.Helper()
	tm := NewTokenManager("secret", 5)
	users := repository.NewMemoryUserRepository()
	m := NewAuthMiddleware(tm, users)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/me", m.Handle, func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.User.ID)
	})
	app.Get("/sellers", m.Handle, RequireRole(domain.RoleSeller), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/token", m.HandleToken, func(c *fiber.Ctx) error {
		claims, _ := ClaimsFromContext(c)
		return c.SendString(claims.Subject)
	})
	return app, tm, users
}

func get(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp.StatusCode
}

func TestHandleLoadsPrincipal(t *testing.T) {
	app, tm, users := newAuthApp(t)
	ctx := context.Background()

	user := &domain.User{Name: "Bea", Email: "bea@example.com", Role: domain.RoleBuyer, Status: domain.UserStatusActive}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	token, _, _ := tm.GenerateToken(user.ID, user.Role)

	if got := get(t, app, "/me", token); got != fiber.StatusOK {
		t.Fatalf("status = %d", got)
	}
	if got := get(t, app, "/me", ""); got != fiber.StatusUnauthorized {
		t.Fatalf("missing token status = %d", got)
	}
	if got := get(t, app, "/sellers", token); got != fiber.StatusForbidden {
		t.Fatalf("buyer on seller route = %d", got)
	}

	user.Status = domain.UserStatusSuspended
	_ = users.Update(ctx, user)
	if got := get(t, app, "/me", token); got != fiber.StatusUnauthorized {
		t.Fatalf("suspended status = %d", got)
	}

	_ = users.Delete(ctx, user.ID)
	if got := get(t, app, "/me", token); got != fiber.StatusUnauthorized {
		t.Fatalf("deleted account status = %d", got)
	}
	if got := get(t, app, "/token", token); got != fiber.StatusOK {
		t.Fatalf("token-only check should pass for a deleted account, got %d", got)
	}
}
