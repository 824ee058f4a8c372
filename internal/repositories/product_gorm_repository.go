package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"catalog/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products with their brand and categories, ordered by id.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Preload("Brand").
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id") }).
		Order("products.id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product with its brand and categories.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.
		Preload("Brand").
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id") }).
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts the product row only. Categories are linked separately.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Omit(clause.Associations).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateFields writes the given columns of one product. Zero values are written too.
func (r *GORMProductRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", id, res.Error)
	}
	return nil
}

// Delete removes the product row and reports how many rows were affected.
func (r *GORMProductRepository) Delete(id uint) (int64, error) {
	res := r.db.Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

// AttachCategories links a product to each category. Existing links are kept.
func (r *GORMProductRepository) AttachCategories(productID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]models.ProductCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		links = append(links, models.ProductCategory{ProductID: productID, CategoryID: id})
	}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	if err != nil {
		return fmt.Errorf("failed to link product %d to categories: %w", productID, err)
	}
	return nil
}

// DetachCategories removes every association row of a product.
func (r *GORMProductRepository) DetachCategories(productID uint) (int64, error) {
	res := r.db.Where("product_id = ?", productID).Delete(&models.ProductCategory{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to unlink categories of product %d: %w", productID, res.Error)
	}
	return res.RowsAffected, nil
}
