package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// recoveryActions are offered to clients when a request fails unexpectedly.
var recoveryActions = []string{"reload", "retry"}

// ErrorHandler renders every error as JSON. Errors raised with
// fiber.NewError keep their status and message; anything else is logged and
// reported as an internal error with recovery hints.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID := RequestIDFrom(c)

		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error":      fe.Message,
				"request_id": requestID,
			})
		}

		code := fiber.StatusInternalServerError
		if fe != nil {
			code = fe.Code
		}
		logger.Error("unhandled request error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return c.Status(code).JSON(fiber.Map{
			"error":      "something went wrong",
			"request_id": requestID,
			"recovery":   recoveryActions,
		})
	}
}
