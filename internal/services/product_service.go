package services

import (
	"context"
	"errors"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/pkg/clock"
	"catalog/pkg/validator"
)

// Bounds on the number of categories a product is submitted with.
const (
	MinCategories = 1
	MaxCategories = 5
)

// ProductInput holds the coerced fields of a create request.
type ProductInput struct {
	Name           string     `json:"name" validate:"min=1,max=50"`
	Rating         float64    `json:"rating"`
	Featured       bool       `json:"featured"`
	BrandID        uint       `json:"brand_id" validate:"required"`
	ItemsInStock   int        `json:"items_in_stock" validate:"gte=0"`
	Categories     []string   `json:"categories" validate:"min=1,max=5,dive,min=1,max=50"`
	ExpirationDate *time.Time `json:"expiration_date" validate:"omitnil,days_ahead=30"`
	ReceiptDate    *time.Time `json:"receipt_date"`
}

// ProductPatch holds an update request. Nil fields are left unchanged.
type ProductPatch struct {
	ID             uint       `json:"id"`
	Name           *string    `json:"name" validate:"omitnil,min=1,max=50"`
	Featured       *bool      `json:"featured"`
	Rating         *float64   `json:"rating"`
	ItemsInStock   *int       `json:"items_in_stock" validate:"omitnil,gte=0"`
	ReceiptDate    *time.Time `json:"receipt_date"`
	BrandID        *uint      `json:"brand" validate:"omitnil,gt=0"`
	Categories     []string   `json:"categories" validate:"omitnil,min=1,max=5,dive,min=1,max=50"`
	ExpirationDate *time.Time `json:"expiration_date" validate:"omitnil,days_ahead=30"`
}

// DeleteResult reports the rows removed by a product deletion.
type DeleteResult struct {
	Products  int64
	Relations int64
}

// ProductService handles business logic related to products.
type ProductService struct {
	tx        repositories.TransactionManager
	validator *validator.Validator
	events    EventPublisher
	clock     clock.Clock
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(tx repositories.TransactionManager, v *validator.Validator, events EventPublisher, c clock.Clock) *ProductService {
	return &ProductService{
		tx:        tx,
		validator: v,
		events:    events,
		clock:     c,
	}
}

// GetAllProducts retrieves all products with brand and categories.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.tx.WithinTx(ctx, func(r repositories.TxRepos) error {
		var err error
		products, err = r.Products().GetAll()
		return err
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct validates in, stores the product with its categories and
// returns it fully loaded.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if !validCategoryCount(len(in.Categories)) {
		return nil, ErrCategoryCount
	}
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:           in.Name,
		Rating:         in.Rating,
		Featured:       in.Featured,
		CreatedAt:      s.clock.Now().UTC(),
		ExpirationDate: in.ExpirationDate,
		BrandID:        in.BrandID,
		ItemsInStock:   in.ItemsInStock,
		ReceiptDate:    in.ReceiptDate,
	}
	product.ApplyFeaturedRule()

	var created *models.Product
	err := s.tx.WithinTx(ctx, func(r repositories.TxRepos) error {
		if err := ensureBrand(r, in.BrandID); err != nil {
			return err
		}
		if err := r.Products().Create(product); err != nil {
			return err
		}
		if err := linkCategories(r, product.ID, in.Categories); err != nil {
			return err
		}
		var err error
		created, err = r.Products().GetByID(product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	publishEvent(s.events, newProductEvent(s.clock, EventProductCreated, created.ID, created))
	return created, nil
}

// UpdateProduct applies every non-nil field of patch in one transaction.
// A rating change re-applies the featured rule; other changes do not.
func (s *ProductService) UpdateProduct(ctx context.Context, patch ProductPatch) (*models.Product, error) {
	if patch.Categories != nil && !validCategoryCount(len(patch.Categories)) {
		return nil, ErrCategoryCount
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}

	var updated *models.Product
	err := s.tx.WithinTx(ctx, func(r repositories.TxRepos) error {
		product, err := r.Products().GetByID(patch.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		fields := make(map[string]interface{})
		if patch.Name != nil {
			fields["name"] = *patch.Name
		}
		if patch.Featured != nil {
			product.Featured = *patch.Featured
			fields["featured"] = product.Featured
		}
		if patch.Rating != nil {
			product.Rating = *patch.Rating
			fields["rating"] = product.Rating
			product.ApplyFeaturedRule()
			if product.Featured {
				fields["featured"] = true
			}
		}
		if patch.ItemsInStock != nil {
			fields["items_in_stock"] = *patch.ItemsInStock
		}
		if patch.ReceiptDate != nil {
			fields["receipt_date"] = *patch.ReceiptDate
		}
		if patch.BrandID != nil {
			if err := ensureBrand(r, *patch.BrandID); err != nil {
				return err
			}
			fields["brand_id"] = *patch.BrandID
		}
		if patch.ExpirationDate != nil {
			fields["expiration_date"] = *patch.ExpirationDate
		}
		if err := r.Products().UpdateFields(product.ID, fields); err != nil {
			return err
		}

		if patch.Categories != nil {
			if _, err := r.Products().DetachCategories(product.ID); err != nil {
				return err
			}
			if err := linkCategories(r, product.ID, patch.Categories); err != nil {
				return err
			}
		}

		updated, err = r.Products().GetByID(product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	publishEvent(s.events, newProductEvent(s.clock, EventProductUpdated, updated.ID, updated))
	return updated, nil
}

// DeleteProduct removes the product and all its category links. It does not
// fail when nothing matched; the counts tell the caller what happened.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) (DeleteResult, error) {
	var res DeleteResult
	err := s.tx.WithinTx(ctx, func(r repositories.TxRepos) error {
		// Links go first so the join table's foreign key is never violated.
		relations, err := r.Products().DetachCategories(id)
		if err != nil {
			return err
		}
		products, err := r.Products().Delete(id)
		if err != nil {
			return err
		}
		res = DeleteResult{Products: products, Relations: relations}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}

	if res.Products > 0 {
		publishEvent(s.events, newProductEvent(s.clock, EventProductDeleted, id, nil))
	}
	return res, nil
}

func validCategoryCount(n int) bool {
	return n >= MinCategories && n <= MaxCategories
}

func ensureBrand(r repositories.TxRepos, id uint) error {
	if _, err := r.Brands().GetByID(id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return ErrBrandNotFound
		}
		return err
	}
	return nil
}
