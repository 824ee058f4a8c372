package repositories

import "catalog/internal/models"

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetByName(name string) (*models.Category, error)
	Create(category *models.Category) error
}
