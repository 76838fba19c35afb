package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"domain error", NewConflict("taken", nil), http.StatusConflict, "CONFLICT"},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewForbidden("no")), http.StatusForbidden, "FORBIDDEN"},
		{"fiber error", fiber.NewError(http.StatusBadRequest, "bad"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"fiber teapot", fiber.NewError(http.StatusTeapot, "tea"), http.StatusTeapot, "I'M_A_TEAPOT"},
		{"no rows", pgx.ErrNoRows, http.StatusNotFound, "NOT_FOUND"},
		{"bad gateway", NewBadGateway(errors.New("down")), http.StatusBadGateway, "UPSTREAM_FAILED"},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDomainError(tc.err)
			if got.HTTPStatus != tc.status || got.Code != tc.code {
				t.Fatalf("got %d %s, want %d %s", got.HTTPStatus, got.Code, tc.status, tc.code)
			}
		})
	}
	if ToDomainError(nil) != nil {
		t.Fatal("nil error should map to nil")
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewBadGateway(cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if err.Error() != "storefront api request failed: socket closed" {
		t.Fatalf("message = %q", err.Error())
	}
}
