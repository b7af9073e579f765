package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/kiri/internal/config"
	"github.com/example/kiri/internal/session"
)

// SessionHandler issues anonymous storefront sessions.
type SessionHandler struct {
	cfg *config.Config
}

// NewSessionHandler constructs SessionHandler.
func NewSessionHandler(cfg *config.Config) *SessionHandler {
	return &SessionHandler{cfg: cfg}
}

// Create mints a new session and returns its signed token.
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	sessionID := uuid.New()

	token, err := session.GenerateToken(h.cfg.SessionSecret, sessionID, h.cfg.SessionTTL)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"session_id": sessionID,
			"token":      token,
			"expires_in": int(h.cfg.SessionTTL.Seconds()),
		},
	})
}
