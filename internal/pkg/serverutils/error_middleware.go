package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/YasasBanuka/document-insight-backend/internal/service"
)

// ErrorHandlerMiddleware converts errors returned by controllers into
// the shared response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, service.ErrNotFound):
			code = fiber.StatusNotFound
			message = err.Error()
		case errors.Is(err, service.ErrUnsupportedFormat):
			code = fiber.StatusUnsupportedMediaType
			message = err.Error()
		case errors.Is(err, service.ErrInvalidArgument):
			code = fiber.StatusBadRequest
			message = err.Error()
		case errors.Is(err, service.ErrStorageFailure), errors.Is(err, service.ErrIngestionFailure):
			code = fiber.StatusInternalServerError
			message = err.Error()
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
