package models

import "time"

// Payment intent lifecycle statuses as reported by PayWay.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
	PaymentStatusExpired = "expired"
)

// PaymentIntent stores the state of an ABA PayWay QR payment request.
type PaymentIntent struct {
	BaseModel
	PaymentID   string     `gorm:"column:payment_id;uniqueIndex" json:"payment_id"`
	SessionID   string     `gorm:"index" json:"session_id"`
	OrderNumber string     `json:"order_number"`
	Status      string     `gorm:"index" json:"status"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	QRString    string     `gorm:"column:qr_string" json:"qr_string"`
	RawResponse []byte     `gorm:"type:jsonb" json:"raw_response"`
	PaidAt      *time.Time `json:"paid_at"`
	LastError   string     `json:"last_error"`
}
