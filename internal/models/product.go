package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a catalog entry. Title/tag/label are stored per language
// (en, kh, cn) in flat columns; handlers pick the requested language.
type Product struct {
	BaseModel
	Code      string           `gorm:"uniqueIndex" json:"code"`
	TitleEN   string           `json:"title_en"`
	TitleKH   string           `json:"title_kh"`
	TitleCN   string           `json:"title_cn"`
	TagEN     string           `json:"tag_en"`
	TagKH     string           `json:"tag_kh"`
	TagCN     string           `json:"tag_cn"`
	LabelEN   string           `json:"label_en"`
	LabelKH   string           `json:"label_kh"`
	LabelCN   string           `json:"label_cn"`
	Category  string           `gorm:"index" json:"category"`
	BasePrice float64          `json:"base_price"`
	Currency  string           `json:"currency"`
	Images    pq.StringArray   `gorm:"type:text[]" json:"images"`
	IsActive  bool             `json:"is_active"`
	Variants  []ProductVariant `json:"variants,omitempty"`
}

// ProductVariant is a purchasable option of a product. PriceDelta is added
// to the product base price.
type ProductVariant struct {
	BaseModel
	ProductID  uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	VariantKey string    `gorm:"index" json:"variant_key"`
	Label      string    `json:"label"`
	PriceDelta float64   `json:"price_delta"`
	Stock      int       `json:"stock"`
	InStock    bool      `json:"in_stock"`
}
