package cart

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/pricing"
)

func openStore(t *testing.T, storage Storage) *Store {
	t.Helper()
	s, err := Open(context.Background(), storage, "cart-1")
	require.NoError(t, err)
	return s
}

func TestAddToCartMerges(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, NewMemoryStorage())

	require.NoError(t, s.AddToCart(ctx, "P1", 2))
	require.NoError(t, s.AddToCart(ctx, "P1", 3))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "P1", items[0].ProductID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, models.ItemTypeProduct, items[0].Type)
	assert.Equal(t, 5, s.TotalItems())
}

func TestAddToCartDefaultsToOne(t *testing.T) {
	s := openStore(t, NewMemoryStorage())

	require.NoError(t, s.AddToCart(context.Background(), "P1", 0))
	assert.Equal(t, 1, s.TotalItems())

	assert.True(t, errors.Is(s.AddToCart(context.Background(), "", 1), ErrInvalidProduct))
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, NewMemoryStorage())
	require.NoError(t, s.AddToCart(ctx, "P1", 2))
	require.NoError(t, s.AddToCart(ctx, "P2", 1))

	require.NoError(t, s.UpdateQuantity(ctx, "P1", 7))
	assert.Equal(t, 8, s.TotalItems())

	require.NoError(t, s.UpdateQuantity(ctx, "P1", 0))
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "P2", items[0].ProductID)
	assert.Equal(t, 1, s.TotalItems())

	require.NoError(t, s.UpdateQuantity(ctx, "ghost", 3))
	assert.Len(t, s.Items(), 1)
}

func TestRemoveUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, NewMemoryStorage())
	require.NoError(t, s.AddToCart(ctx, "P1", 2))

	require.NoError(t, s.RemoveFromCart(ctx, "nope"))
	assert.Len(t, s.Items(), 1)

	require.NoError(t, s.RemoveFromCart(ctx, "P1"))
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItems())
}

func TestAddProductsFromSet(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, NewMemoryStorage())
	require.NoError(t, s.AddToCart(ctx, "bed", 1))

	err := s.AddProductsFromSet(ctx, "set-bedroom", []models.BundleEntry{
		{ProductID: "bed", Quantity: 1},
		{ProductID: "nightstand", Quantity: 2},
		{ProductID: "wardrobe", Quantity: 0},
	})
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "set-bedroom", items[0].SetID)
	assert.Equal(t, "nightstand", items[1].ProductID)
	assert.Equal(t, "set-bedroom", items[1].SetID)
	assert.Equal(t, 4, s.TotalItems())
}

func TestAddSetBundle(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, NewMemoryStorage())
	require.NoError(t, s.AddToCart(ctx, "bed", 1))

	config := []models.BundleEntry{{ProductID: "bed", Quantity: 1}, {ProductID: "nightstand", Quantity: 0}}
	require.NoError(t, s.AddSetBundle(ctx, "set-bedroom", config))
	require.NoError(t, s.AddSetBundle(ctx, "set-bedroom", config[:1]))

	items := s.Items()
	require.Len(t, items, 2, "bundle line does not merge with product lines")
	bundle := items[1]
	assert.True(t, bundle.IsBundle())
	assert.Equal(t, 2, bundle.Quantity)
	assert.Equal(t, config[:1], bundle.Configuration)
	assert.Equal(t, 3, s.TotalItems())

	require.NoError(t, s.RemoveFromCart(ctx, "set-bedroom"))
	assert.Len(t, s.Items(), 1)
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s := openStore(t, storage)
	require.NoError(t, s.AddToCart(ctx, "P1", 2))

	require.NoError(t, s.ClearCart(ctx))
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItems())

	data, err := storage.Load(ctx, "cart-1")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCartSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	s := openStore(t, storage)
	require.NoError(t, s.AddToCart(ctx, "P1", 2))
	require.NoError(t, s.AddSetBundle(ctx, "S1", []models.BundleEntry{{ProductID: "P1", Quantity: 1}}))

	again := openStore(t, storage)
	assert.Equal(t, s.Items(), again.Items())
	assert.Equal(t, 3, again.TotalItems())
}

func TestCorruptStorageStartsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(ctx, "cart-1", []byte("{broken")))

	s := openStore(t, storage)
	assert.Empty(t, s.Items())

	require.NoError(t, s.AddToCart(ctx, "P1", 1))
	assert.Equal(t, 1, openStore(t, storage).TotalItems())
}

func TestStoredLinesAreSanitized(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	raw := `[{"productId":"P1","quantity":2},{"productId":"","quantity":1},{"productId":"P2","quantity":0}]`
	require.NoError(t, storage.Save(ctx, "cart-1", []byte(raw)))

	items := openStore(t, storage).Items()
	require.Len(t, items, 1)
	assert.Equal(t, models.ItemTypeProduct, items[0].Type)
}

type failingStorage struct {
	*MemoryStorage
}

func (failingStorage) Save(ctx context.Context, key string, data []byte) error {
	return errors.New("disk full")
}

func TestFailedSaveKeepsState(t *testing.T) {
	s := openStore(t, failingStorage{NewMemoryStorage()})

	assert.Error(t, s.AddToCart(context.Background(), "P1", 1))
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItems())
}

func TestInvalidKey(t *testing.T) {
	for _, key := range []string{"", "../etc/passwd", "a b", string(make([]byte, 65))} {
		_, err := Open(context.Background(), NewMemoryStorage(), key)
		assert.True(t, errors.Is(err, ErrInvalidKey), key)
	}
}

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "carts")
	storage, err := NewFileStorage(dir)
	require.NoError(t, err)

	s := openStore(t, storage)
	require.NoError(t, s.AddToCart(ctx, "P1", 4))

	_, err = os.Stat(filepath.Join(dir, "cart-1.json"))
	require.NoError(t, err)
	assert.Equal(t, 4, openStore(t, storage).TotalItems())

	require.NoError(t, s.ClearCart(ctx))
	_, err = os.Stat(filepath.Join(dir, "cart-1.json"))
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	require.NoError(t, s.ClearCart(ctx))
}

func TestRedisStorage(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	storage := NewRedisStorage(client, time.Hour)
	s := openStore(t, storage)
	require.NoError(t, s.AddToCart(ctx, "P1", 2))

	assert.True(t, mr.Exists("cart:cart-1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:cart-1"))
	assert.Equal(t, 2, openStore(t, storage).TotalItems())

	mr.FastForward(2 * time.Hour)
	assert.Empty(t, openStore(t, storage).Items())

	require.NoError(t, s.AddToCart(ctx, "P1", 1))
	require.NoError(t, s.ClearCart(ctx))
	assert.False(t, mr.Exists("cart:cart-1"))
}

func TestManagerSerializesSameKey(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	m := NewManager(storage)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.With(ctx, "shared", func(s *Store) error {
				return s.AddToCart(ctx, "P1", 1)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	err := m.With(ctx, "shared", func(s *Store) error {
		assert.Equal(t, 25, s.TotalItems())
		return nil
	})
	require.NoError(t, err)

	assert.True(t, errors.Is(m.With(ctx, "bad key", func(*Store) error { return nil }), ErrInvalidKey))
}

func TestManagerDropsIdleLocks(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage())

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "cart-a"
			if i%2 == 1 {
				key = "cart-b"
			}
			err := m.With(ctx, key, func(s *Store) error {
				return s.AddToCart(ctx, "P1", 1)
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// A failing callback releases its lock too.
	err := m.With(ctx, "cart-c", func(*Store) error { return errors.New("boom") })
	require.Error(t, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.locks)
}

func TestTotals(t *testing.T) {
	discount := 20.0
	products := pricing.Index([]*models.Product{
		{ID: "bed", Name: "Bed", Price: 500},
		{ID: "nightstand", Name: "Nightstand", Price: 120, Discount: &discount},
	})
	sets := IndexSets([]*models.ProductSet{{
		ID:   "set-bedroom",
		Name: "Bedroom",
		Items: []models.SetItem{
			{ProductID: "bed", DefaultQuantity: 1, MinQuantity: 1, MaxQuantity: 1, Required: true},
			{ProductID: "nightstand", DefaultQuantity: 2, MaxQuantity: 4},
		},
	}})

	items := []models.CartItem{
		{ProductID: "nightstand", Quantity: 3, Type: models.ItemTypeProduct},
		{ProductID: "set-bedroom", Quantity: 2, Type: models.ItemTypeSet, SetID: "set-bedroom",
			Configuration: []models.BundleEntry{{ProductID: "bed", Quantity: 1}, {ProductID: "nightstand", Quantity: 0}}},
		{ProductID: "gone", Quantity: 1, Type: models.ItemTypeProduct},
	}

	summary := Totals(items, products, sets)
	require.Len(t, summary.Lines, 3)

	assert.Equal(t, 100.0, summary.Lines[0].UnitPrice)
	assert.Equal(t, 300.0, summary.Lines[0].Total)

	assert.Equal(t, "Bedroom", summary.Lines[1].Name)
	assert.Equal(t, 500.0, summary.Lines[1].UnitPrice)
	assert.Equal(t, 1000.0, summary.Lines[1].Total)

	assert.True(t, summary.Lines[2].Missing)
	assert.Equal(t, 0.0, summary.Lines[2].Total)

	assert.Equal(t, 1300.0, summary.Subtotal)
	assert.Equal(t, 6, summary.TotalItems)
}
