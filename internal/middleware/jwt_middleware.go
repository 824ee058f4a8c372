package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/services"
)

// AuthRequired rejects requests without a valid "Bearer <token>" header and
// stores the token's user in Locals.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "authorization header is required")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized(c, "authorization header format must be 'Bearer <token>'")
		}

		user, err := authService.Authenticate(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals("user_id", user.ID)
		c.Locals("username", user.Username)
		return c.Next()
	}
}

// Passthrough is the guard used when authentication is disabled.
func Passthrough(c *fiber.Ctx) error {
	return c.Next()
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"msg":    msg,
	})
}
