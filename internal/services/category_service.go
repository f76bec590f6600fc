// internal/services/category_service.go
package services

import (
	"context"
	"fmt"

	"github.com/javajoker/furniture-backend/internal/catalog"
	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/repository"
)

type CategoryService struct {
	*EntityService[*models.Category]
}

func NewCategoryService(repos *repository.Set) *CategoryService {
	return &CategoryService{
		EntityService: newEntityService(repos.Categories, func(ctx context.Context, c *models.Category) error {
			if c.ParentID == "" {
				return nil
			}
			if c.ParentID == c.ID {
				return catalog.ErrCategoryCycle
			}
			if err := requireCategory(ctx, repos.Categories, c.ParentID); err != nil {
				return err
			}
			return checkCategoryTree(ctx, repos.Categories, c)
		}),
	}
}

// checkCategoryTree rejects a write that would close a parent cycle.
func checkCategoryTree(ctx context.Context, repo repository.CategoryRepository, updated *models.Category) error {
	categories, err := repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	replaced := false
	for i, c := range categories {
		if c.ID == updated.ID {
			categories[i] = updated
			replaced = true
		}
	}
	if !replaced {
		categories = append(categories, updated)
	}

	_, err = catalog.BuildCategoryTree(categories)
	return err
}
