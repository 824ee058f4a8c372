package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"catalog/internal/models"
)

// Migrate registers the product/category join model and creates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Product{}, "Categories", &models.ProductCategory{}); err != nil {
		return fmt.Errorf("failed to set up products_categories for products: %w", err)
	}
	if err := db.SetupJoinTable(&models.Category{}, "Products", &models.ProductCategory{}); err != nil {
		return fmt.Errorf("failed to set up products_categories for categories: %w", err)
	}
	if err := db.AutoMigrate(&models.Brand{}, &models.Category{}, &models.Product{}, &models.ProductCategory{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

