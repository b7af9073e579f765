package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/kiri/internal/cart"
	"github.com/example/kiri/internal/middleware"
	"github.com/example/kiri/internal/session"
)

// CartHandler manages the session cart endpoints.
type CartHandler struct {
	sess *session.Store
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(sess *session.Store) *CartHandler {
	return &CartHandler{sess: sess}
}

type cartKeyRequest struct {
	ProductID string `json:"id"`
	VariantID string `json:"variantId"`
	Qty       int    `json:"qty"`
}

// Get returns the current cart lines and subtotal.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	store := cart.Load(c.Context(), h.sess, sid.String())
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"items":    store.Items(),
			"subtotal": store.Subtotal(),
		},
	})
}

// AddItem adds a line to the cart, merging quantity on an existing
// (product, variant) key.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var item cart.Item
	if err := c.BodyParser(&item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if item.ProductID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "id is required")
	}

	store := cart.Load(c.Context(), h.sess, sid.String())
	store.Add(c.Context(), item)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"items":    store.Items(),
			"subtotal": store.Subtotal(),
		},
	})
}

// UpdateQty replaces the quantity of a cart line.
func (h *CartHandler) UpdateQty(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req cartKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	store := cart.Load(c.Context(), h.sess, sid.String())
	store.SetQty(c.Context(), cart.Key{ProductID: req.ProductID, VariantID: req.VariantID}, req.Qty)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"items":    store.Items(),
			"subtotal": store.Subtotal(),
		},
	})
}

// RemoveItem deletes a cart line. Removing an absent line succeeds.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	key := cart.Key{
		ProductID: c.Query("id"),
		VariantID: c.Query("variantId"),
	}

	store := cart.Load(c.Context(), h.sess, sid.String())
	store.Remove(c.Context(), key)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"items":    store.Items(),
			"subtotal": store.Subtotal(),
		},
	})
}

// Clear empties the cart.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	store := cart.Load(c.Context(), h.sess, sid.String())
	store.Clear(c.Context())

	return c.JSON(fiber.Map{"success": true})
}
