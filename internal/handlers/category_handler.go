package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/models"
	"catalog/internal/services"
)

// CategoryHandler serves the category listing.
type CategoryHandler struct {
	service *services.CategoryService
}

func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/categories", h.HandleGetCategories)
}

// HandleGetCategories lists categories with the ids of their linked products.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories(c.UserContext())
	if err != nil {
		return fmt.Errorf("could not retrieve categories: %w", err)
	}
	results := make([]models.CategoryWithProducts, 0, len(categories))
	for _, cat := range categories {
		results = append(results, cat.SerializedWithProducts())
	}
	return respondResults(c, results)
}
