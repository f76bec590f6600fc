package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/javajoker/furniture-backend/internal/models"
)

// fileLocks serializes read-modify-write cycles per data file, so repositories
// for the public and admin routes that share a file also share its lock.
var fileLocks sync.Map

func lockFor(path string) *sync.Mutex {
	mu, _ := fileLocks.LoadOrStore(path, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// FileRepository keeps one entity kind as a JSON array in a single file.
// A missing file is a configuration error, not an empty collection.
type FileRepository[T Entity] struct {
	path string
	mu   *sync.Mutex
}

func NewFileRepository[T Entity](dir string, kind models.EntityKind) *FileRepository[T] {
	path := filepath.Join(dir, string(kind)+".json")
	return &FileRepository[T]{
		path: path,
		mu:   lockFor(path),
	}
}

// NewFileSet opens the three JSON-file repositories under dir.
func NewFileSet(dir string) *Set {
	return &Set{
		Backend:    "file",
		Products:   NewFileRepository[*models.Product](dir, models.KindProduct),
		Categories: NewFileRepository[*models.Category](dir, models.KindCategory),
		Sets:       NewFileRepository[*models.ProductSet](dir, models.KindProductSet),
	}
}

// EnsureFiles creates empty array files for any missing entity kind.
// It is used by seeding and tests. The server never creates data files and
// refuses to start when one is missing.
func EnsureFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	for _, kind := range []models.EntityKind{models.KindProduct, models.KindCategory, models.KindProductSet} {
		path := filepath.Join(dir, string(kind)+".json")
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
		}
	}
	return nil
}

func (r *FileRepository[T]) Path() string {
	return r.path
}

func (r *FileRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *FileRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	return r.find(func(e T) bool { return e.GetID() == id })
}

func (r *FileRepository[T]) GetBySlug(ctx context.Context, slug string) (T, error) {
	return r.find(func(e T) bool { return e.GetSlug() == slug })
}

func (r *FileRepository[T]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if entity.GetID() == "" {
		return zero, ErrInvalidEntity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.read()
	if err != nil {
		return zero, err
	}

	index := -1
	var createdAt time.Time
	for i, item := range items {
		if item.GetID() == entity.GetID() {
			index = i
			createdAt = item.Times().CreatedAt
			continue
		}
		if entity.GetSlug() != "" && item.GetSlug() == entity.GetSlug() {
			return zero, fmt.Errorf("%w: %s", ErrDuplicateSlug, entity.GetSlug())
		}
	}

	stamp(entity, createdAt)
	if index >= 0 {
		items[index] = entity
	} else {
		items = append(items, entity)
	}

	if err := r.write(items); err != nil {
		return zero, err
	}
	return entity, nil
}

func (r *FileRepository[T]) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.read()
	if err != nil {
		return err
	}

	kept := items[:0]
	found := false
	for _, item := range items {
		if item.GetID() == id {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return ErrNotFound
	}
	return r.write(kept)
}

func (r *FileRepository[T]) find(match func(T) bool) (T, error) {
	var zero T

	r.mu.Lock()
	items, err := r.read()
	r.mu.Unlock()
	if err != nil {
		return zero, err
	}

	for _, item := range items {
		if match(item) {
			return item, nil
		}
	}
	return zero, ErrNotFound
}

// read must be called with r.mu held.
func (r *FileRepository[T]) read() ([]T, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, r.path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}

	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.path, err)
	}
	return items, nil
}

// write replaces the file atomically through a temp file in the same directory.
// It must be called with r.mu held.
func (r *FileRepository[T]) write(items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}
