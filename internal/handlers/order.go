package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/kiri/internal/middleware"
	"github.com/example/kiri/internal/models"
	"github.com/example/kiri/internal/receipt"
	"github.com/example/kiri/internal/session"
	"github.com/example/kiri/internal/utils"
)

// OrderHandler serves the order-history surfaces: mirrored orders from the
// database and normalized receipts from the session store.
type OrderHandler struct {
	db   *gorm.DB
	sess *session.Store
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, sess *session.Store) *OrderHandler {
	return &OrderHandler{db: db, sess: sess}
}

// ListOrders returns mirrored orders for the session.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Where("session_id = ?", sid.String()).Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// LatestReceipt returns the most recent receipt, normalized.
func (h *OrderHandler) LatestReceipt(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var raw json.RawMessage
	found, err := h.sess.Read(c.Context(), sid.String(), session.KeyReceipt, &raw)
	if err != nil {
		return err
	}
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "no receipt")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    receipt.Normalize(raw),
	})
}

// ListReceipts returns the receipts history, normalized, newest first.
func (h *OrderHandler) ListReceipts(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var history []json.RawMessage
	if _, err := h.sess.Read(c.Context(), sid.String(), session.KeyReceipts, &history); err != nil {
		return err
	}

	receipts := make([]receipt.Receipt, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		receipts = append(receipts, receipt.Normalize(history[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    receipts,
	})
}
