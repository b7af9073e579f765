package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/kiri/internal/config"
	"github.com/example/kiri/internal/session"
)

const sessionContextKey = "currentSessionID"

// SessionMiddleware validates session tokens and loads the session ID into
// context.
func SessionMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		sessionID, err := session.ParseToken(cfg.SessionSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid session token")
		}

		c.Locals(sessionContextKey, sessionID)
		return c.Next()
	}
}

// GetSessionID extracts the session ID from context.
func GetSessionID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(sessionContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
