package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/kiri/internal/delivery"
)

// DeliveryHandler quotes delivery fees.
type DeliveryHandler struct {
	quoter *delivery.Quoter
}

// NewDeliveryHandler constructs DeliveryHandler.
func NewDeliveryHandler(quoter *delivery.Quoter) *DeliveryHandler {
	return &DeliveryHandler{quoter: quoter}
}

// Quote returns the fee in riel for a destination. Accepts province_code
// (distance strategy), province (zone strategy) and method.
func (h *DeliveryHandler) Quote(c *fiber.Ctx) error {
	fee := h.quoter.Quote(c.Query("province_code"), c.Query("province"), c.Query("method"))

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"fee": fee, "currency": "KHR"},
	})
}
