// internal/services/set_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/pricing"
	"github.com/javajoker/furniture-backend/internal/repository"
)

const maxCopySlugAttempts = 100

var ErrInvalidSetItems = errors.New("invalid set items")

type SetService struct {
	*EntityService[*models.ProductSet]
	repo repository.ProductSetRepository
}

func NewSetService(repos *repository.Set) *SetService {
	return &SetService{
		EntityService: newEntityService(repos.Sets, func(ctx context.Context, set *models.ProductSet) error {
			if err := pricing.ValidateSet(set); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidSetItems, err)
			}
			for _, id := range set.CategoryIDs() {
				if err := requireCategory(ctx, repos.Categories, id); err != nil {
					return err
				}
			}
			return nil
		}),
		repo: repos.Sets,
	}
}

// Duplicate stores a copy of the set under a new id with " (copy)" appended
// to the name and a free "-copy" slug.
func (s *SetService) Duplicate(ctx context.Context, id string) (*models.ProductSet, error) {
	original, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slug, err := s.copySlug(ctx, original.Slug)
	if err != nil {
		return nil, err
	}

	duplicate := *original
	duplicate.ID = uuid.New().String()
	duplicate.Name = original.Name + " (copy)"
	duplicate.Slug = slug
	duplicate.Items = append([]models.SetItem(nil), original.Items...)
	duplicate.Images = append([]models.Image(nil), original.Images...)
	duplicate.ExtraCategoryIDs = append([]string(nil), original.ExtraCategoryIDs...)
	if original.Specifications != nil {
		specs := *original.Specifications
		duplicate.Specifications = &specs
	}
	duplicate.Timestamps = models.Timestamps{}

	return s.repo.Save(ctx, &duplicate)
}

func (s *SetService) copySlug(ctx context.Context, base string) (string, error) {
	candidate := base + "-copy"
	for n := 2; n <= maxCopySlugAttempts; n++ {
		_, err := s.repo.GetBySlug(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-copy-%d", base, n)
	}
	return "", fmt.Errorf("%w: %s", repository.ErrDuplicateSlug, base)
}
