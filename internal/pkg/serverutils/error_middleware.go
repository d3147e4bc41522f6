package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"voice-todoist-be/pkg/conversation"
	"voice-todoist-be/pkg/dates"
	"voice-todoist-be/pkg/todoist"
)

// ErrorHandlerMiddleware maps domain errors onto HTTP statuses. Controllers
// and services return plain errors; only this layer knows status codes.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, conversation.ErrUnknownConversation):
			status = fiber.StatusNotFound
		case errors.Is(err, conversation.ErrConversationExists):
			status = fiber.StatusConflict
		case errors.Is(err, conversation.ErrEmptyInput):
			status = fiber.StatusBadRequest
		case errors.Is(err, dates.ErrInvalidDate):
			status = fiber.StatusUnprocessableEntity
		case errors.Is(err, conversation.ErrUpstream), errors.Is(err, todoist.ErrUpstream):
			status = fiber.StatusBadGateway
		case errors.Is(err, todoist.ErrUnauthorized):
			status = fiber.StatusBadGateway
		}

		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}
