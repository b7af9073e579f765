package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/kiri/internal/models"
	"github.com/example/kiri/internal/utils"
)

// ProductHandler serves the product catalog.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

type productVariantView struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Delta   float64 `json:"delta"`
	Stock   int     `json:"stock"`
	InStock bool    `json:"in_stock"`
}

type productView struct {
	ID        string               `json:"id"`
	Code      string               `json:"code"`
	Title     string               `json:"title"`
	Tag       string               `json:"tag"`
	Label     string               `json:"label,omitempty"`
	Category  string               `json:"category"`
	BasePrice float64              `json:"base_price"`
	Currency  string               `json:"currency"`
	Images    []string             `json:"images"`
	Variants  []productVariantView `json:"variants"`
}

// List returns active products, localized to the requested language
// (en, kh or cn; defaults to en).
func (h *ProductHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	lang := c.Query("lang", "en")

	query := h.db.Model(&models.Product{}).Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Variants").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, localizeProduct(p, lang))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    views,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Get returns a single product by code.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	lang := c.Query("lang", "en")

	var product models.Product
	if err := h.db.Preload("Variants").
		First(&product, "code = ?", c.Params("code")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": localizeProduct(product, lang)})
}

func localizeProduct(p models.Product, lang string) productView {
	view := productView{
		ID:        p.ID.String(),
		Code:      p.Code,
		Title:     pickLang(lang, p.TitleEN, p.TitleKH, p.TitleCN),
		Tag:       pickLang(lang, p.TagEN, p.TagKH, p.TagCN),
		Label:     pickLang(lang, p.LabelEN, p.LabelKH, p.LabelCN),
		Category:  p.Category,
		BasePrice: p.BasePrice,
		Currency:  p.Currency,
		Images:    p.Images,
	}

	for _, v := range p.Variants {
		view.Variants = append(view.Variants, productVariantView{
			ID:      v.VariantKey,
			Label:   v.Label,
			Delta:   v.PriceDelta,
			Stock:   v.Stock,
			InStock: v.InStock,
		})
	}

	return view
}

// pickLang falls back to English when the requested language has no value.
func pickLang(lang, en, kh, cn string) string {
	switch lang {
	case "kh":
		if kh != "" {
			return kh
		}
	case "cn":
		if cn != "" {
			return cn
		}
	}
	return en
}
