package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/models"
	"catalog/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes. guard runs before every write.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	router.Get("/products", h.HandleGetProducts)
	router.Post("/create_product", guard, h.HandleCreateProduct)
	router.Put("/update_product", guard, h.HandleUpdateProduct)
	router.Delete("/delete_product", guard, h.HandleDeleteProduct)
}

// HandleGetProducts lists every product with nested brand and categories.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return fmt.Errorf("could not retrieve products: %w", err)
	}
	results := make([]models.ProductResponse, 0, len(products))
	for _, p := range products {
		results = append(results, p.Serialized())
	}
	return respondResults(c, results)
}

// HandleCreateProduct creates a product and links its categories.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	in, err := parseProductInput(c.Body())
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.service.CreateProduct(c.UserContext(), in); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "product received")
}

// HandleUpdateProduct applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	patch, err := parseProductPatch(c.Body())
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.service.UpdateProduct(c.UserContext(), patch); err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "product updated")
}

// HandleDeleteProduct deletes a product and its category links. Any outcome
// other than exactly one deleted product is reported as a warning.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c.Body())
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if res.Products == 1 {
		return respondOK(c, fmt.Sprintf("product deleted, also %d product_categories relations deleted", res.Relations))
	}
	return respond(c, fiber.StatusOK, StatusWarning,
		fmt.Sprintf("%d products deleted, also %d relations deleted", res.Products, res.Relations))
}
