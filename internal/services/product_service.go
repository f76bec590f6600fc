// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/repository"
)

var ErrUnknownCategory = errors.New("category does not exist")

type ProductService struct {
	*EntityService[*models.Product]
}

func NewProductService(repos *repository.Set) *ProductService {
	return &ProductService{
		EntityService: newEntityService(repos.Products, func(ctx context.Context, p *models.Product) error {
			if err := requireCategory(ctx, repos.Categories, p.CategoryID); err != nil {
				return err
			}
			p.RelatedProducts = withoutID(p.RelatedProducts, p.ID)
			return nil
		}),
	}
}

// requireCategory fails with ErrUnknownCategory when id does not resolve.
func requireCategory(ctx context.Context, categories repository.CategoryRepository, id string) error {
	if _, err := categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownCategory, id)
		}
		return err
	}
	return nil
}

// withoutID drops id and duplicates from ids, keeping order.
func withoutID(ids []string, id string) []string {
	if len(ids) == 0 {
		return ids
	}
	seen := map[string]bool{id: true}
	out := make([]string, 0, len(ids))
	for _, other := range ids {
		if other == "" || seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}
