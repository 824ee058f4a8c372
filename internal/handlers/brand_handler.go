package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/models"
	"catalog/internal/services"
)

// BrandHandler handles HTTP requests for brands.
type BrandHandler struct {
	service *services.BrandService
}

func NewBrandHandler(service *services.BrandService) *BrandHandler {
	return &BrandHandler{service: service}
}

func (h *BrandHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	router.Get("/brands", h.HandleGetBrands)
	router.Post("/create_brand", guard, h.HandleCreateBrand)
}

func (h *BrandHandler) HandleGetBrands(c *fiber.Ctx) error {
	brands, err := h.service.GetAllBrands(c.UserContext())
	if err != nil {
		return fmt.Errorf("could not retrieve brands: %w", err)
	}
	results := make([]models.BrandResponse, 0, len(brands))
	for _, b := range brands {
		results = append(results, b.Serialized())
	}
	return respondResults(c, results)
}

func (h *BrandHandler) HandleCreateBrand(c *fiber.Ctx) error {
	in, err := parseBrandInput(c.Body())
	if err != nil {
		return respondError(c, err)
	}
	brand, err := h.service.CreateBrand(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": StatusOK,
		"msg":    "brand created",
		"id":     brand.ID,
	})
}
