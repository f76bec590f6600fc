package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/javajoker/furniture-backend/internal/models"
)

// MongoRepository stores one entity kind per collection, keyed by the entity id.
type MongoRepository[T Entity] struct {
	coll *mongo.Collection
}

func NewMongoRepository[T Entity](db *mongo.Database, kind models.EntityKind) *MongoRepository[T] {
	return &MongoRepository[T]{coll: db.Collection(string(kind))}
}

// NewMongoSet opens the three collections and makes sure their slug indexes exist.
func NewMongoSet(ctx context.Context, db *mongo.Database) (*Set, error) {
	products := NewMongoRepository[*models.Product](db, models.KindProduct)
	categories := NewMongoRepository[*models.Category](db, models.KindCategory)
	sets := NewMongoRepository[*models.ProductSet](db, models.KindProductSet)

	for _, ensure := range []func(context.Context) error{
		products.EnsureIndexes,
		categories.EnsureIndexes,
		sets.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return nil, err
		}
	}

	return &Set{
		Backend:    "mongo",
		Products:   products,
		Categories: categories,
		Sets:       sets,
	}, nil
}

func (r *MongoRepository[T]) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_slug"),
	})
	if err != nil {
		return fmt.Errorf("failed to create slug index on %s: %w", r.coll.Name(), err)
	}
	return nil
}

func (r *MongoRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.coll.Name(), err)
	}
	return items, nil
}

func (r *MongoRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoRepository[T]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if entity.GetID() == "" {
		return zero, ErrInvalidEntity
	}

	// Not atomic with the replace below; the worst case is a lost createdAt.
	existing, err := r.findOne(ctx, bson.M{"_id": entity.GetID()})
	switch {
	case err == nil:
		stamp(entity, existing.Times().CreatedAt)
	case errors.Is(err, ErrNotFound):
		stamp(entity, time.Time{})
	default:
		return zero, err
	}

	_, err = r.coll.ReplaceOne(ctx, bson.M{"_id": entity.GetID()}, entity, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return zero, fmt.Errorf("%w: %s", ErrDuplicateSlug, entity.GetSlug())
		}
		return zero, fmt.Errorf("failed to save to %s: %w", r.coll.Name(), err)
	}
	return entity, nil
}

func (r *MongoRepository[T]) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", r.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T]) findOne(ctx context.Context, filter bson.M) (T, error) {
	var item T
	if err := r.coll.FindOne(ctx, filter).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return item, ErrNotFound
		}
		return item, fmt.Errorf("failed to query %s: %w", r.coll.Name(), err)
	}
	return item, nil
}
