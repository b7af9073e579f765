package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/kiri/internal/geo"
)

// GeoHandler serves the static administrative-area reference data.
type GeoHandler struct{}

// NewGeoHandler builds a GeoHandler instance.
func NewGeoHandler() *GeoHandler {
	return &GeoHandler{}
}

// Provinces returns all provinces with centroids.
func (h *GeoHandler) Provinces(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": geo.Provinces()})
}

// Districts returns the districts of a province.
func (h *GeoHandler) Districts(c *fiber.Ctx) error {
	code := c.Query("province_code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "province_code is required")
	}
	return c.JSON(fiber.Map{"success": true, "data": geo.Districts(code)})
}

// Communes returns the communes of a district.
func (h *GeoHandler) Communes(c *fiber.Ctx) error {
	code := c.Query("district_code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "district_code is required")
	}
	return c.JSON(fiber.Map{"success": true, "data": geo.Communes(code)})
}

// Villages returns the villages of a commune.
func (h *GeoHandler) Villages(c *fiber.Ctx) error {
	code := c.Query("commune_code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "commune_code is required")
	}
	return c.JSON(fiber.Map{"success": true, "data": geo.Villages(code)})
}
