package repositories

import "catalog/internal/models"

// BrandRepository defines the interface for brand data access.
type BrandRepository interface {
	GetAll() ([]models.Brand, error)
	GetByID(id uint) (*models.Brand, error)
	Create(brand *models.Brand) error
}
