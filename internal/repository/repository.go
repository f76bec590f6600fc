// Package repository provides the catalog persistence contract and its
// interchangeable backends: flat JSON files, MongoDB and PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/javajoker/furniture-backend/internal/models"
)

var (
	ErrNotFound      = errors.New("entity not found")
	ErrDuplicateSlug = errors.New("slug already in use")
	ErrMissingFile   = errors.New("data file is missing")
	ErrInvalidEntity = errors.New("entity has no id")
)

// Entity is implemented by *models.Product, *models.Category and *models.ProductSet.
type Entity interface {
	GetID() string
	SetID(id string)
	GetSlug() string
	SetSlug(slug string)
	GetName() string
	CategoryIDs() []string
	Times() *models.Timestamps
}

// Repository is the contract shared by every backend and entity kind.
// Save is an upsert keyed by id.
type Repository[T Entity] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	GetBySlug(ctx context.Context, slug string) (T, error)
	Save(ctx context.Context, entity T) (T, error)
	Delete(ctx context.Context, id string) error
}

type (
	ProductRepository    = Repository[*models.Product]
	CategoryRepository   = Repository[*models.Category]
	ProductSetRepository = Repository[*models.ProductSet]
)

// Set groups the three repositories of one backend.
type Set struct {
	Backend    string
	Products   ProductRepository
	Categories CategoryRepository
	Sets       ProductSetRepository
}

// Verify reads every collection once, so a missing data file or an
// unreachable database fails at startup instead of on the first request.
func (s *Set) Verify(ctx context.Context) error {
	if _, err := s.Products.GetAll(ctx); err != nil {
		return fmt.Errorf("%s products: %w", s.Backend, err)
	}
	if _, err := s.Categories.GetAll(ctx); err != nil {
		return fmt.Errorf("%s categories: %w", s.Backend, err)
	}
	if _, err := s.Sets.GetAll(ctx); err != nil {
		return fmt.Errorf("%s product sets: %w", s.Backend, err)
	}
	return nil
}

// stamp keeps the original creation time of an updated entity and bumps UpdatedAt.
// A zero createdAt means the entity is new.
func stamp(entity Entity, createdAt time.Time) {
	times := entity.Times()
	if !createdAt.IsZero() {
		times.CreatedAt = createdAt
	}
	times.Touch(now())
}

var now = func() time.Time {
	return time.Now().UTC()
}
