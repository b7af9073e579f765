// Package catalog seeds the product tables from the embedded catalog
// dataset on first boot.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/example/kiri/internal/models"
)

//go:embed products.json
var seedFS embed.FS

type seedVariant struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Delta float64 `json:"delta"`
	Stock int     `json:"stock"`
}

type seedProduct struct {
	Code      string            `json:"code"`
	Title     map[string]string `json:"title"`
	Tag       map[string]string `json:"tag"`
	Label     map[string]string `json:"label"`
	Category  string            `json:"category"`
	BasePrice float64           `json:"base_price"`
	Currency  string            `json:"currency"`
	Images    []string          `json:"images"`
	Variants  []seedVariant     `json:"variants"`
}

// Seed inserts the embedded catalog when the products table is empty.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	raw, err := seedFS.ReadFile("products.json")
	if err != nil {
		return fmt.Errorf("read product seed: %w", err)
	}

	var seeds []seedProduct
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("decode product seed: %w", err)
	}

	for _, s := range seeds {
		product := models.Product{
			Code:      s.Code,
			TitleEN:   s.Title["en"],
			TitleKH:   s.Title["kh"],
			TitleCN:   s.Title["cn"],
			TagEN:     s.Tag["en"],
			TagKH:     s.Tag["kh"],
			TagCN:     s.Tag["cn"],
			LabelEN:   s.Label["en"],
			LabelKH:   s.Label["kh"],
			LabelCN:   s.Label["cn"],
			Category:  s.Category,
			BasePrice: s.BasePrice,
			Currency:  s.Currency,
			Images:    s.Images,
			IsActive:  true,
		}

		for _, v := range s.Variants {
			product.Variants = append(product.Variants, models.ProductVariant{
				VariantKey: v.Key,
				Label:      v.Label,
				PriceDelta: v.Delta,
				Stock:      v.Stock,
				InStock:    v.Stock > 0,
			})
		}

		if err := db.Create(&product).Error; err != nil {
			return fmt.Errorf("seed product %s: %w", s.Code, err)
		}
	}

	log.Printf("[Catalog] seeded %d products", len(seeds))
	return nil
}
