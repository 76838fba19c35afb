package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/storefront-labs/storefront/internal/observability"
	apperrors "github.com/storefront-labs/storefront/pkg/util/errorutil"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code next to the message.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// RegisterMiddlewares installs the chain shared by the development API and
// the storefront shell. Outermost first: request log, error rendering, panic
// recovery, deadline.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(renderErrors(logger, metrics))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			logger.Error("panic recovered", zap.String("path", c.Path()), zap.Any("panic", e), zap.Stack("stack"))
		},
	}))
	if timeout > 0 {
		app.Use(withDeadline(timeout))
	}
}

func withDeadline(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// renderErrors turns handler errors into ErrorBody responses. Panics reach it
// as plain errors from the recover middleware and render as 500.
func renderErrors(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}
		de := apperrors.ToDomainError(err)
		metrics.RecordError(c.Path(), c.Method(), de.Code)
		if de.HTTPStatus >= fiber.StatusInternalServerError {
			logger.Error("request failed", zap.String("code", de.Code), zap.Error(de))
		}
		return c.Status(de.HTTPStatus).JSON(ErrorBody{Error: ErrorDetail{
			Code:    de.Code,
			Message: de.Message,
			Details: de.Details,
		}})
	}
}
