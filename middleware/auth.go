package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the locals key the user's id is stored under.
const UserIDKey = "user_id"

// UserContextMiddleware extracts the caller's identity set by the
// Gateway. The core services never reach into ambient session state:
// identity enters here, once, and handlers pass it down explicitly.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID, request must come through the gateway with auth context",
			})
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the identity attached by UserContextMiddleware.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(UserIDKey).(string); ok {
		return id
	}
	return ""
}
