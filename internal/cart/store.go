// Package cart holds the shopping cart state: a list of product and set
// lines that is reloaded from a Storage, mutated, and written back in full
// after every change.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/furniture-backend/internal/models"
)

var (
	ErrInvalidKey     = errors.New("invalid cart id")
	ErrInvalidProduct = errors.New("product id is required")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidKey reports whether key may be used as a cart id. Keys end up in file
// names and redis keys, so only a safe alphabet is accepted.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// Store is one cart. Its methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	key     string
	storage Storage
	items   []models.CartItem
	total   int
}

// Open restores the cart stored under key. Data that cannot be parsed is
// logged and the cart starts empty; storage failures are returned.
func Open(ctx context.Context, storage Storage, key string) (*Store, error) {
	if !ValidKey(key) {
		return nil, ErrInvalidKey
	}

	s := &Store{key: key, storage: storage}

	data, err := storage.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		var items []models.CartItem
		if err := json.Unmarshal(data, &items); err != nil {
			logrus.WithFields(logrus.Fields{
				"cart":  key,
				"error": err,
			}).Warn("Discarding unreadable stored cart")
		} else {
			s.items = sanitize(items)
		}
	}
	s.total = countItems(s.items)
	return s, nil
}

func (s *Store) Key() string {
	return s.key
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// TotalItems is the sum of quantities across all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// AddToCart adds quantity units of a product, merging into an existing
// product line. A quantity below one adds a single unit.
func (s *Store) AddToCart(ctx context.Context, productID string, quantity int) error {
	if productID == "" {
		return ErrInvalidProduct
	}
	if quantity < 1 {
		quantity = 1
	}
	return s.mutate(ctx, func(items []models.CartItem) []models.CartItem {
		return mergeProduct(items, productID, quantity, "")
	})
}

// AddProductsFromSet adds each configured product of a set as its own
// product line tagged with setID. Entries with a non-positive quantity are skipped.
func (s *Store) AddProductsFromSet(ctx context.Context, setID string, entries []models.BundleEntry) error {
	return s.mutate(ctx, func(items []models.CartItem) []models.CartItem {
		for _, e := range entries {
			if e.ProductID == "" || e.Quantity <= 0 {
				continue
			}
			items = mergeProduct(items, e.ProductID, e.Quantity, setID)
		}
		return items
	})
}

// AddSetBundle adds a whole set as a single line carrying its configuration.
// A set keeps one bundle line: adding it again bumps the quantity and
// replaces the configuration with the latest one.
func (s *Store) AddSetBundle(ctx context.Context, setID string, configuration []models.BundleEntry) error {
	if setID == "" {
		return ErrInvalidProduct
	}
	// Zero quantities are kept: they deselect optional items.
	config := make([]models.BundleEntry, 0, len(configuration))
	for _, e := range configuration {
		if e.ProductID != "" && e.Quantity >= 0 {
			config = append(config, e)
		}
	}

	return s.mutate(ctx, func(items []models.CartItem) []models.CartItem {
		for i := range items {
			if items[i].IsBundle() && items[i].ProductID == setID {
				items[i].Quantity++
				items[i].Configuration = config
				return items
			}
		}
		return append(items, models.CartItem{
			ProductID:     setID,
			Quantity:      1,
			Type:          models.ItemTypeSet,
			SetID:         setID,
			Configuration: config,
		})
	})
}

// RemoveFromCart drops the line for id. Unknown ids are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, id string) error {
	return s.mutate(ctx, func(items []models.CartItem) []models.CartItem {
		return removeLine(items, id)
	})
}

// UpdateQuantity sets the quantity of the line for id, removing it when
// quantity is zero or less. Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	return s.mutate(ctx, func(items []models.CartItem) []models.CartItem {
		if quantity <= 0 {
			return removeLine(items, id)
		}
		for i := range items {
			if items[i].ProductID == id {
				items[i].Quantity = quantity
			}
		}
		return items
	})
}

// ClearCart empties the cart and deletes it from storage.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.key); err != nil {
		return err
	}
	s.items = nil
	s.total = 0
	return nil
}

// mutate applies fn to a copy of the lines, persists the result and only
// then makes it the current state.
func (s *Store) mutate(ctx context.Context, fn func([]models.CartItem) []models.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(cloneItems(s.items))

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		return err
	}

	s.items = next
	s.total = countItems(next)
	return nil
}

func mergeProduct(items []models.CartItem, productID string, quantity int, setID string) []models.CartItem {
	for i := range items {
		if !items[i].IsBundle() && items[i].ProductID == productID {
			items[i].Quantity += quantity
			if items[i].SetID == "" {
				items[i].SetID = setID
			}
			return items
		}
	}
	return append(items, models.CartItem{
		ProductID: productID,
		Quantity:  quantity,
		Type:      models.ItemTypeProduct,
		SetID:     setID,
	})
}

func removeLine(items []models.CartItem, id string) []models.CartItem {
	kept := items[:0]
	for _, item := range items {
		if item.ProductID != id {
			kept = append(kept, item)
		}
	}
	return kept
}

func countItems(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func cloneItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.Configuration != nil {
			out[i].Configuration = append([]models.BundleEntry(nil), item.Configuration...)
		}
	}
	return out
}

// sanitize drops stored lines that could not have been produced by a Store.
func sanitize(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		if item.Type == "" {
			item.Type = models.ItemTypeProduct
		}
		out = append(out, item)
	}
	return out
}
