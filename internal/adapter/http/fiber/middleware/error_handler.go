package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/dreamweaver/internal/domain"
)

// ErrorHandler renders errors that escape a handler (unknown routes, body
// limit, panics turned into errors by recover) as a failure envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("Internal Server Error",
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("request_id", RequestID(c)),
			)
		}

		return c.Status(code).JSON(domain.Failed(err.Error()))
	}
}
