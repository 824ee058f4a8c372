package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"catalog/internal/models"
)

// GORMBrandRepository is a GORM implementation of BrandRepository.
type GORMBrandRepository struct {
	db *gorm.DB
}

func NewGORMBrandRepository(db *gorm.DB) *GORMBrandRepository {
	return &GORMBrandRepository{db: db}
}

func (r *GORMBrandRepository) GetAll() ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.Order("id").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to get all brands: %w", err)
	}
	return brands, nil
}

func (r *GORMBrandRepository) GetByID(id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.First(&brand, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("brand with ID %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get brand by ID %d: %w", id, err)
	}
	return &brand, nil
}

func (r *GORMBrandRepository) Create(brand *models.Brand) error {
	if err := r.db.Create(brand).Error; err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}
