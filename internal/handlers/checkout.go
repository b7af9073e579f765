package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/example/kiri/internal/cart"
	"github.com/example/kiri/internal/checkout"
	"github.com/example/kiri/internal/delivery"
	"github.com/example/kiri/internal/middleware"
	"github.com/example/kiri/internal/session"
)

// CheckoutHandler drives the checkout wizard endpoints.
type CheckoutHandler struct {
	sess   *session.Store
	quoter *delivery.Quoter
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(sess *session.Store, quoter *delivery.Quoter) *CheckoutHandler {
	return &CheckoutHandler{sess: sess, quoter: quoter}
}

// State returns the current wizard step and captured state.
func (h *CheckoutHandler) State(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	w := checkout.Load(c.Context(), h.sess, h.quoter, sid.String())
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"step":        w.Step,
			"info":        w.Info,
			"summary":     w.Summary,
			"deliveryFee": w.DeliveryFee(),
		},
	})
}

// SubmitInfo completes the customer-info step.
func (h *CheckoutHandler) SubmitInfo(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var info checkout.CustomerInfo
	if err := c.BodyParser(&info); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	w := checkout.Load(c.Context(), h.sess, h.quoter, sid.String())
	if err := w.SubmitInfo(c.Context(), info); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return fiber.NewError(fiber.StatusBadRequest, fieldErrs.Error())
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"step":        w.Step,
			"info":        w.Info,
			"deliveryFee": w.DeliveryFee(),
		},
	})
}

// SubmitItems completes the item-review step. Missing items, currency or
// subtotal are filled from the live cart.
func (h *CheckoutHandler) SubmitItems(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var patch checkout.ItemsPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	store := cart.Load(c.Context(), h.sess, sid.String())
	if len(patch.Items) == 0 {
		patch.Items = store.Items()
	}
	if patch.Subtotal == 0 {
		patch.Subtotal = store.Subtotal()
	}
	if patch.Currency == "" && len(patch.Items) > 0 {
		patch.Currency = patch.Items[0].Currency
	}

	w := checkout.Load(c.Context(), h.sess, h.quoter, sid.String())
	summary := w.SubmitItems(c.Context(), patch)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"step":    w.Step,
			"summary": summary,
		},
	})
}

// Back moves the wizard one step back.
func (h *CheckoutHandler) Back(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	w := checkout.Load(c.Context(), h.sess, h.quoter, sid.String())
	w.Back()

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"step": w.Step},
	})
}
