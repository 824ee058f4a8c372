package repositories

import (
	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(id uint) (int64, error)
	AttachCategories(productID uint, categoryIDs []uint) error
	DetachCategories(productID uint) (int64, error)
}
