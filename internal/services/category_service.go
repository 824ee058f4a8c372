package services

import (
	"context"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// CategoryService exposes categories together with their linked products.
type CategoryService struct {
	tx repositories.TransactionManager
}

func NewCategoryService(tx repositories.TransactionManager) *CategoryService {
	return &CategoryService{tx: tx}
}

func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.tx.WithinTx(ctx, func(r repositories.TxRepos) error {
		var err error
		categories, err = r.Categories().GetAll()
		return err
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}
