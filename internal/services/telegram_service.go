package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/example/kiri/internal/money"
)

// TelegramService handles sending notifications to Telegram.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		log.Println("[Telegram] Bot token not configured")
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.adminChatID == "" {
		log.Println("[Telegram] Admin chat ID not configured")
		return nil
	}
	return s.SendMessage(s.adminChatID, text)
}

// OrderNotification contains order data for a Telegram notification.
type OrderNotification struct {
	OrderNumber   string
	Items         []OrderItemNotification
	TotalAmount   float64
	Currency      string
	CustomerName  string
	CustomerPhone string
	Province      string
	PaymentMethod string
	Status        string
}

// OrderItemNotification contains order item data.
type OrderItemNotification struct {
	Name     string
	Quantity int
	Price    float64
	Currency string
}

// NotifyPaidOrder sends a notification about a paid order to the admin chat.
func (s *TelegramService) NotifyPaidOrder(order OrderNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i, item := range order.Items {
		itemTotal := item.Price * float64(item.Quantity)
		currency := item.Currency
		if currency == "" {
			currency = order.Currency
		}
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			item.Name,
			item.Quantity,
			money.Format(item.Price, currency),
			money.Format(itemTotal, currency),
		))
	}

	paymentMethodText := "Cash on delivery"
	if order.PaymentMethod == "aba" {
		paymentMethodText = "ABA PayWay"
	}

	statusText := "⏳ Pending"
	if order.Status == "paid" {
		statusText = "✅ Paid"
	}

	message := fmt.Sprintf(`<b>☕ NEW ORDER</b>
<b>📋 Order:</b> %s
<b>👤 Customer:</b> %s
<b>📞 Phone:</b> %s
<b>📍 Province:</b> %s
<b>📦 Items:</b>
%s
<b>💰 Total:</b> %s
<b>💳 Payment:</b> %s
<b>📌 Status:</b> %s
━━━━━━━━━━━━━━━━━━`,
		order.OrderNumber,
		order.CustomerName,
		order.CustomerPhone,
		order.Province,
		itemsList.String(),
		money.Format(order.TotalAmount, order.Currency),
		paymentMethodText,
		statusText,
	)

	return s.SendToAdmin(strings.TrimSpace(message))
}
