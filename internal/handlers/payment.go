package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/kiri/internal/cart"
	"github.com/example/kiri/internal/checkout"
	"github.com/example/kiri/internal/delivery"
	"github.com/example/kiri/internal/middleware"
	"github.com/example/kiri/internal/models"
	"github.com/example/kiri/internal/receipt"
	"github.com/example/kiri/internal/services"
	"github.com/example/kiri/internal/session"
)

// PaymentHandler manages the ABA PayWay payment flow.
type PaymentHandler struct {
	db       *gorm.DB
	sess     *session.Store
	quoter   *delivery.Quoter
	aba      *services.ABAClient
	poller   *services.StatusPoller
	telegram *services.TelegramService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(db *gorm.DB, sess *session.Store, quoter *delivery.Quoter, aba *services.ABAClient, poller *services.StatusPoller, telegram *services.TelegramService) *PaymentHandler {
	return &PaymentHandler{db: db, sess: sess, quoter: quoter, aba: aba, poller: poller, telegram: telegram}
}

// RequestPayment initiates an ABA QR payment for the captured checkout and
// starts a bounded status watch.
func (h *PaymentHandler) RequestPayment(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	w := checkout.Load(c.Context(), h.sess, h.quoter, sid.String())
	if w.Info == nil || w.Summary == nil {
		return fiber.NewError(fiber.StatusBadRequest, "checkout is incomplete")
	}

	resp, err := h.aba.RequestPayment(c.Context(), buildOrderRequest(w, "aba"))
	if err != nil {
		return err
	}

	intent := models.PaymentIntent{
		PaymentID: resp.PaymentID,
		SessionID: sid.String(),
		Status:    models.PaymentStatusPending,
		Amount:    w.Summary.Total,
		Currency:  w.Summary.Currency,
		QRString:  resp.QRString,
	}
	if err := h.db.Create(&intent).Error; err != nil {
		return err
	}

	// The watch outlives the request; it stops on a terminal status or
	// when the attempt budget runs out.
	h.poller.Watch(context.Background(), resp.PaymentID, func(status string) {
		h.completePayment(resp.PaymentID, status)
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"paymentId": resp.PaymentID,
			"qrString":  resp.QRString,
		},
	})
}

// Status reports the state of a payment. A still-pending intent is checked
// live against PayWay.
func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	if _, ok := middleware.GetSessionID(c); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	paymentID := c.Params("id")

	var intent models.PaymentIntent
	if err := h.db.First(&intent, "payment_id = ?", paymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "payment not found")
		}
		return err
	}

	if intent.Status == models.PaymentStatusPending {
		if status, err := h.aba.PaymentStatus(c.Context(), paymentID); err != nil {
			log.Printf("[Payment] live status check failed for %s: %v", paymentID, err)
		} else if status != intent.Status {
			h.completePayment(paymentID, status)
			intent.Status = status
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"paymentId": paymentID, "status": intent.Status},
	})
}

// Confirm records a confirmed payment: the backend's order/receipt payload
// becomes the latest receipt, is appended to the receipts history, the cart
// is cleared and the order is mirrored into the retailer's own records.
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	sid, ok := middleware.GetSessionID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	payload := json.RawMessage(append([]byte(nil), c.Body()...))

	w := checkout.Load(c.Context(), h.sess, h.quoter, sid.String())
	store := cart.Load(c.Context(), h.sess, sid.String())

	// Without a payload the order is created through the backend and its
	// record becomes the receipt.
	if len(payload) == 0 {
		if w.Info == nil || w.Summary == nil {
			return fiber.NewError(fiber.StatusBadRequest, "checkout is incomplete")
		}
		created, err := h.aba.CreateOrder(c.Context(), buildOrderRequest(w, c.Query("method", "aba")))
		if err != nil {
			return err
		}
		payload = created
	}

	// Snapshot before ConfirmPayment resets the wizard.
	info := w.Info
	summary := w.Summary

	rec := w.ConfirmPayment(c.Context(), payload, store)

	if err := h.sess.Append(c.Context(), sid.String(), session.KeyReceipts, payload); err != nil {
		log.Printf("[Payment] append receipt history failed for session %s: %v", sid, err)
	}

	order := h.mirrorOrder(sid.String(), rec, info, summary)

	if h.telegram != nil && order != nil {
		go h.notifyOrder(*order)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    rec,
	})
}

// Callback handles PayWay server-to-server status notifications.
func (h *PaymentHandler) Callback(c *fiber.Ctx) error {
	var req struct {
		PaymentID string `json:"paymentId"`
		Status    string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.PaymentID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "paymentId is required")
	}

	h.completePayment(req.PaymentID, req.Status)
	return c.JSON(fiber.Map{"success": true})
}

func (h *PaymentHandler) completePayment(paymentID, status string) {
	updates := map[string]any{"status": status}
	if status == models.PaymentStatusPaid {
		now := time.Now()
		updates["paid_at"] = &now
	}

	if err := h.db.Model(&models.PaymentIntent{}).
		Where("payment_id = ?", paymentID).
		Updates(updates).Error; err != nil {
		log.Printf("[Payment] failed to update intent %s: %v", paymentID, err)
		return
	}

	log.Printf("[Payment] intent %s -> %s", paymentID, status)
}

// mirrorOrder copies the confirmed receipt into the orders table. The
// normalized record keeps the session-captured totals when the payload
// carried none.
func (h *PaymentHandler) mirrorOrder(sid string, rec receipt.Receipt, info *checkout.CustomerInfo, summary *checkout.Summary) *models.Order {
	order := models.Order{
		SessionID:   sid,
		OrderNumber: rec.OrderNo,
		Status:      models.PaymentStatusPaid,
		PlacedAt:    time.Now(),
	}
	if order.OrderNumber == receipt.Sentinel || order.OrderNumber == "" {
		order.OrderNumber = generateOrderNumber()
	}

	if summary != nil {
		order.Subtotal = summary.Subtotal
		order.DeliveryFee = summary.DeliveryFee
		order.TotalAmount = summary.Total
		order.Currency = summary.Currency

		for _, item := range summary.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductCode:  item.Code,
				ProductName:  item.Title,
				VariantLabel: item.VariantLabel,
				Quantity:     item.Qty,
				UnitPrice:    item.Price,
				LineTotal:    item.Price * float64(item.Qty),
			})
		}
	}

	if info != nil {
		order.DeliveryMethod = info.DeliveryMethod
		order.PaymentMethod = "aba"
		order.CustomerName = info.Name
		order.CustomerPhone = info.Phone
		order.CustomerEmail = info.Email
		order.Province = info.Address.ProvinceName
		order.District = info.Address.DistrictName
		order.Commune = info.Address.CommuneName
		order.Village = info.Address.VillageName
		order.Street = info.Address.Street
		order.Gmaps = info.Address.Gmaps
		order.Notes = info.Note
	}

	if err := h.db.Create(&order).Error; err != nil {
		log.Printf("[Payment] failed to mirror order for session %s: %v", sid, err)
		return nil
	}
	return &order
}

func (h *PaymentHandler) notifyOrder(order models.Order) {
	items := make([]services.OrderItemNotification, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, services.OrderItemNotification{
			Name:     item.ProductName,
			Quantity: item.Quantity,
			Price:    item.UnitPrice,
			Currency: order.Currency,
		})
	}

	if err := h.telegram.NotifyPaidOrder(services.OrderNotification{
		OrderNumber:   order.OrderNumber,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Currency:      order.Currency,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Province:      order.Province,
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status,
	}); err != nil {
		log.Printf("[Payment] telegram notification failed for order %s: %v", order.OrderNumber, err)
	}
}

func generateOrderNumber() string {
	return fmt.Sprintf("#%d", time.Now().UnixNano()%1000000000)
}

func buildOrderRequest(w *checkout.Wizard, method string) services.OrderRequest {
	req := services.OrderRequest{
		Currency: w.Summary.Currency,
		Amount:   w.Summary.Total,
		Email:    w.Info.Email,
		Name:     w.Info.Name,
		Phone:    w.Info.Phone,
		Method:   method,
		Note:     w.Info.Note,
		Address: services.OrderAddress{
			Street:   w.Info.Address.Street,
			Village:  w.Info.Address.VillageName,
			Commune:  w.Info.Address.CommuneName,
			District: w.Info.Address.DistrictName,
			Province: w.Info.Address.ProvinceName,
			Gmaps:    w.Info.Address.Gmaps,
		},
	}

	for _, item := range w.Summary.Items {
		req.Items = append(req.Items, services.OrderItem{
			Name:      item.Title,
			Qty:       item.Qty,
			UnitPrice: item.Price,
			LineTotal: item.Price * float64(item.Qty),
		})
	}

	return req
}
