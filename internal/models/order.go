package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	BaseModel
	SessionID      string      `gorm:"index" json:"session_id"`
	OrderNumber    string      `gorm:"uniqueIndex" json:"order_number"`
	Status         string      `json:"status"`
	PlacedAt       time.Time   `json:"placed_at"`
	Subtotal       float64     `json:"subtotal"`
	DeliveryFee    float64     `json:"delivery_fee"`
	TotalAmount    float64     `json:"total_amount"`
	Currency       string      `json:"currency"`
	DeliveryMethod string      `json:"delivery_method"`
	PaymentMethod  string      `json:"payment_method"`
	CustomerName   string      `json:"customer_name"`
	CustomerPhone  string      `json:"customer_phone"`
	CustomerEmail  string      `json:"customer_email"`
	Province       string      `json:"province"`
	District       string      `json:"district"`
	Commune        string      `json:"commune"`
	Village        string      `json:"village"`
	Street         string      `json:"street"`
	Gmaps          string      `json:"gmaps"`
	Notes          string      `json:"notes"`
	Items          []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID      uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductCode  string    `json:"product_code"`
	ProductName  string    `json:"product_name"`
	VariantLabel string    `json:"variant_label"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	LineTotal    float64   `json:"line_total"`
}
