package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var notFoundSentinels []error

// RegisterNotFound makes ErrorHandlerMiddleware map err (via errors.Is) to 404.
func RegisterNotFound(errs ...error) {
	notFoundSentinels = append(notFoundSentinels, errs...)
}

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// envelope instead of Fiber's plain text default.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, msg := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, msg))
	}
}

func StatusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest, ve.Error()
	}
	for _, s := range notFoundSentinels {
		if errors.Is(err, s) {
			return fiber.StatusNotFound, err.Error()
		}
	}
	return fiber.StatusInternalServerError, err.Error()
}
