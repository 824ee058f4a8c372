package services

import (
	"context"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/pkg/validator"
)

// BrandInput holds the fields of a brand creation request.
type BrandInput struct {
	Name        string `json:"name" validate:"min=1,max=50"`
	CountryCode string `json:"country_code" validate:"min=1,max=2"`
}

// BrandService handles brand reads and creation. Brands are never updated or deleted.
type BrandService struct {
	tx        repositories.TransactionManager
	validator *validator.Validator
}

func NewBrandService(tx repositories.TransactionManager, v *validator.Validator) *BrandService {
	return &BrandService{tx: tx, validator: v}
}

func (s *BrandService) GetAllBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := s.tx.WithinTx(ctx, func(r repositories.TxRepos) error {
		var err error
		brands, err = r.Brands().GetAll()
		return err
	})
	if err != nil {
		return nil, err
	}
	return brands, nil
}

func (s *BrandService) CreateBrand(ctx context.Context, in BrandInput) (*models.Brand, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	brand := &models.Brand{Name: in.Name, CountryCode: in.CountryCode}
	err := s.tx.WithinTx(ctx, func(r repositories.TxRepos) error {
		return r.Brands().Create(brand)
	})
	if err != nil {
		return nil, err
	}
	return brand, nil
}
