package services

import (
	"errors"
	"fmt"

	"catalog/internal/models"
	"catalog/internal/repositories"
)

// ResolveCategories maps names to stored categories, building unsaved ones
// (ID 0) for names not found. Repeated names are kept once, at their first
// position.
func ResolveCategories(repo repositories.CategoryRepository, names []string) ([]models.Category, error) {
	seen := make(map[string]bool, len(names))
	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		existing, err := repo.GetByName(name)
		switch {
		case err == nil:
			categories = append(categories, *existing)
		case errors.Is(err, repositories.ErrRecordNotFound):
			categories = append(categories, models.Category{Name: name})
		default:
			return nil, fmt.Errorf("failed to resolve category %q: %w", name, err)
		}
	}
	return categories, nil
}

// linkCategories resolves names, saves the new categories and links them to the product.
func linkCategories(r repositories.TxRepos, productID uint, names []string) error {
	categories, err := ResolveCategories(r.Categories(), names)
	if err != nil {
		return err
	}
	ids := make([]uint, 0, len(categories))
	for i := range categories {
		if categories[i].ID == 0 {
			if err := r.Categories().Create(&categories[i]); err != nil {
				return err
			}
		}
		ids = append(ids, categories[i].ID)
	}
	return r.Products().AttachCategories(productID, ids)
}
