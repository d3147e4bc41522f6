package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// BearerAuthMiddleware guards routes with a single static API token. An
// empty configured token disables the check (local development).
func BearerAuthMiddleware(token string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if token == "" {
			return ctx.Next()
		}

		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Missing token"))
		}
		provided := authHeader[7:]

		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("Invalid token"))
		}

		return ctx.Next()
	}
}
