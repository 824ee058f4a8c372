package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"catalog/internal/models"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// GetAll retrieves every category with its linked products.
func (r *GORMCategoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("products.id") }).
		Order("categories.id").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// GetByName finds a category by exact name.
func (r *GORMCategoryRepository) GetByName(name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %q: %w", name, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get category %q: %w", name, err)
	}
	return &category, nil
}

func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category %q: %w", category.Name, err)
	}
	return nil
}
