package middleware

import (
	"crypto/hmac"

	"github.com/gofiber/fiber/v2"

	"github.com/example/kiri/internal/services"
)

// PayWayAuthMiddleware verifies the merchant hash on inbound PayWay
// server-to-server callbacks. The hash covers merchant ID plus the raw
// request body, keyed by the API key.
func PayWayAuthMiddleware(merchantID, apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get("X-Merchant-Hash")
		if got == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing merchant hash")
		}

		want := services.MerchantHash(apiKey, merchantID+string(c.Body()))
		if !hmac.Equal([]byte(got), []byte(want)) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid merchant hash")
		}

		return c.Next()
	}
}
