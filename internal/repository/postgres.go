package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/furniture-backend/internal/models"
)

// Document is the row layout shared by every entity kind in PostgreSQL.
// The entity itself lives in Body; Slug and CategoryIDs are copied out so
// they can be indexed.
type Document struct {
	Kind        string         `gorm:"primaryKey;size:32;uniqueIndex:idx_catalog_documents_kind_slug,priority:1"`
	ID          string         `gorm:"primaryKey;size:64"`
	Slug        string         `gorm:"size:255;not null;uniqueIndex:idx_catalog_documents_kind_slug,priority:2"`
	CategoryIDs pq.StringArray `gorm:"type:text[]"`
	Body        datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

func (Document) TableName() string {
	return "catalog_documents"
}

type PostgresRepository[T Entity] struct {
	db   *gorm.DB
	kind string
}

func NewPostgresRepository[T Entity](db *gorm.DB, kind models.EntityKind) *PostgresRepository[T] {
	return &PostgresRepository[T]{db: db, kind: string(kind)}
}

// NewPostgresSet expects the catalog_documents table to be migrated already.
func NewPostgresSet(db *gorm.DB) *Set {
	return &Set{
		Backend:    "postgres",
		Products:   NewPostgresRepository[*models.Product](db, models.KindProduct),
		Categories: NewPostgresRepository[*models.Category](db, models.KindCategory),
		Sets:       NewPostgresRepository[*models.ProductSet](db, models.KindProductSet),
	}
}

func (r *PostgresRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	var docs []Document
	err := r.db.WithContext(ctx).
		Where("kind = ?", r.kind).
		Order("created_at ASC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.kind, err)
	}

	items := make([]T, 0, len(docs))
	for i := range docs {
		item, err := r.decode(&docs[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *PostgresRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	return r.first(ctx, "kind = ? AND id = ?", r.kind, id)
}

func (r *PostgresRepository[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	return r.first(ctx, "kind = ? AND slug = ?", r.kind, slug)
}

func (r *PostgresRepository[T]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if entity.GetID() == "" {
		return zero, ErrInvalidEntity
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Document
		err := tx.Select("created_at").
			Where("kind = ? AND id = ?", r.kind, entity.GetID()).
			Take(&existing).Error
		switch {
		case err == nil:
			stamp(entity, existing.CreatedAt)
		case errors.Is(err, gorm.ErrRecordNotFound):
			stamp(entity, time.Time{})
		default:
			return err
		}

		body, err := json.Marshal(entity)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", r.kind, err)
		}

		times := entity.Times()
		doc := Document{
			Kind:        r.kind,
			ID:          entity.GetID(),
			Slug:        entity.GetSlug(),
			CategoryIDs: pq.StringArray(entity.CategoryIDs()),
			Body:        datatypes.JSON(body),
			CreatedAt:   times.CreatedAt,
			UpdatedAt:   times.UpdatedAt,
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kind"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"slug", "category_ids", "body", "updated_at"}),
		}).Create(&doc).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return zero, fmt.Errorf("%w: %s", ErrDuplicateSlug, entity.GetSlug())
		}
		return zero, fmt.Errorf("failed to save %s: %w", r.kind, err)
	}
	return entity, nil
}

func (r *PostgresRepository[T]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("kind = ? AND id = ?", r.kind, id).
		Delete(&Document{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", r.kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository[T]) first(ctx context.Context, query string, args ...interface{}) (T, error) {
	var zero T
	var doc Document
	if err := r.db.WithContext(ctx).Where(query, args...).Take(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("failed to query %s: %w", r.kind, err)
	}
	return r.decode(&doc)
}

func (r *PostgresRepository[T]) decode(doc *Document) (T, error) {
	var item T
	if err := json.Unmarshal(doc.Body, &item); err != nil {
		return item, fmt.Errorf("failed to decode %s %s: %w", r.kind, doc.ID, err)
	}
	return item, nil
}
