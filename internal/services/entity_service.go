// internal/services/entity_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/javajoker/furniture-backend/internal/repository"
	"github.com/javajoker/furniture-backend/internal/utils"
)

var (
	ErrIDMismatch    = errors.New("path id does not match body id")
	ErrAlreadyExists = errors.New("entity already exists")
	// ErrValidation wraps validator.ValidationErrors; handlers unwrap them with
	// utils.GetValidationErrors.
	ErrValidation = errors.New("validation failed")
)

// EntityService is the CRUD flow shared by products, categories and sets:
// generate ids and slugs, validate, then hand over to the repository.
type EntityService[T repository.Entity] struct {
	repo repository.Repository[T]
	// check runs after struct validation on every create and update.
	check func(ctx context.Context, entity T) error
}

func newEntityService[T repository.Entity](repo repository.Repository[T], check func(context.Context, T) error) *EntityService[T] {
	if check == nil {
		check = func(context.Context, T) error { return nil }
	}
	return &EntityService[T]{repo: repo, check: check}
}

func (s *EntityService[T]) List(ctx context.Context) ([]T, error) {
	return s.repo.GetAll(ctx)
}

func (s *EntityService[T]) Get(ctx context.Context, id string) (T, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EntityService[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Create assigns a uuid when the entity has no id and derives the slug from
// the name when none was given.
func (s *EntityService[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	if entity.GetID() == "" {
		entity.SetID(uuid.New().String())
	}
	if entity.GetSlug() == "" {
		entity.SetSlug(utils.Slugify(entity.GetName()))
	}

	if err := s.validate(ctx, entity); err != nil {
		return zero, err
	}

	// An explicit id must not silently overwrite an existing entity.
	if _, err := s.repo.GetByID(ctx, entity.GetID()); err == nil {
		return zero, fmt.Errorf("%w: id %s", ErrAlreadyExists, entity.GetID())
	} else if !errors.Is(err, repository.ErrNotFound) {
		return zero, err
	}

	return s.repo.Save(ctx, entity)
}

// Update replaces the entity stored under id. A body id that disagrees with
// id fails with ErrIDMismatch before anything is read or written; an empty
// body id is taken from the path.
func (s *EntityService[T]) Update(ctx context.Context, id string, entity T) (T, error) {
	var zero T
	if entity.GetID() == "" {
		entity.SetID(id)
	}
	if entity.GetID() != id {
		return zero, ErrIDMismatch
	}
	if entity.GetSlug() == "" {
		entity.SetSlug(utils.Slugify(entity.GetName()))
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return zero, err
	}
	if err := s.validate(ctx, entity); err != nil {
		return zero, err
	}
	return s.repo.Save(ctx, entity)
}

func (s *EntityService[T]) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *EntityService[T]) validate(ctx context.Context, entity T) error {
	if err := utils.ValidateStruct(entity); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return s.check(ctx, entity)
}
