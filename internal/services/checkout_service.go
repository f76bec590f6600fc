// internal/services/checkout_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/furniture-backend/internal/cart"
	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/pricing"
	"github.com/javajoker/furniture-backend/internal/utils"
)

const orderNumberAttempts = 5

var (
	ErrEmptyOrder        = errors.New("order has no items")
	ErrMissingCustomer   = errors.New("order has no customer")
	ErrUnavailableItems  = errors.New("cart contains unavailable items")
	ErrOrderNumberExists = errors.New("could not allocate a free order number")
)

type CheckoutService struct {
	ordersDir string
	notifier  OrderNotifier
	now       func() time.Time
}

type CheckoutRequest struct {
	Customer  *models.Customer   `json:"customer" validate:"required"`
	Items     []models.OrderItem `json:"items" validate:"required,min=1,dive"`
	Subtotal  float64            `json:"subtotal" validate:"gte=0"`
	Notes     string             `json:"notes,omitempty" validate:"max=2000"`
	CreatedAt *time.Time         `json:"createdAt,omitempty"`
}

type CartCheckoutRequest struct {
	Customer *models.Customer `json:"customer" validate:"required"`
	Notes    string           `json:"notes,omitempty" validate:"max=2000"`
}

func NewCheckoutService(ordersDir string, notifier OrderNotifier) *CheckoutService {
	return &CheckoutService{
		ordersDir: ordersDir,
		notifier:  notifier,
		now:       time.Now,
	}
}

// PlaceOrder writes the order to its own file in the orders directory.
// A failing notification is logged and does not fail the order.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req *CheckoutRequest) (*models.Order, error) {
	if req.Customer == nil {
		return nil, ErrMissingCustomer
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	now := s.now().UTC()
	order := &models.Order{
		Customer:  req.Customer,
		Items:     req.Items,
		Subtotal:  req.Subtotal,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
	}
	if req.CreatedAt != nil && !req.CreatedAt.IsZero() {
		order.CreatedAt = req.CreatedAt.UTC()
	}
	for i := range order.Items {
		if order.Items[i].Type == "" {
			order.Items[i].Type = models.ItemTypeProduct
		}
	}
	if order.Subtotal == 0 {
		order.Subtotal = subtotal(order.Items)
	}

	if err := s.writeOrder(order, now); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order":    order.ID,
		"items":    order.TotalQuantity(),
		"subtotal": order.Subtotal,
	}).Info("Order placed")

	if s.notifier != nil {
		if err := s.notifier.NotifyOrderPlaced(order); err != nil {
			logrus.WithFields(logrus.Fields{
				"order": order.ID,
				"error": err,
			}).Error("Failed to send order notification")
		}
	}

	return order, nil
}

// CheckoutCart prices the cart server-side, places the order and clears the cart.
func (s *CheckoutService) CheckoutCart(ctx context.Context, store *cart.Store, req *CartCheckoutRequest, products pricing.ProductIndex, sets cart.SetIndex) (*models.Order, error) {
	items := store.Items()
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	lines, total, err := OrderLines(items, products, sets)
	if err != nil {
		return nil, err
	}

	order, err := s.PlaceOrder(ctx, &CheckoutRequest{
		Customer: req.Customer,
		Items:    lines,
		Subtotal: total,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := store.ClearCart(ctx); err != nil {
		logrus.WithFields(logrus.Fields{
			"order": order.ID,
			"cart":  store.Key(),
			"error": err,
		}).Warn("Failed to clear cart after checkout")
	}
	return order, nil
}

// OrderLines turns cart lines into order lines. A bundle becomes a set line
// without a price followed by its priced products tagged with the set id.
// Lines whose product or set no longer exists fail with ErrUnavailableItems.
func OrderLines(items []models.CartItem, products pricing.ProductIndex, sets cart.SetIndex) ([]models.OrderItem, float64, error) {
	var (
		lines   []models.OrderItem
		missing []string
		total   = decimal.Zero
	)

	addProduct := func(p *models.Product, quantity int, setID string) {
		unit := pricing.ProductPrice(p)
		price := pricing.Float(unit)
		lines = append(lines, models.OrderItem{
			ID:       p.ID,
			Name:     p.Name,
			Type:     models.ItemTypeProduct,
			Quantity: quantity,
			Price:    &price,
			SetID:    setID,
		})
		total = total.Add(pricing.LineTotal(unit, quantity))
	}

	for _, item := range items {
		if !item.IsBundle() {
			p, ok := products[item.ProductID]
			if !ok {
				missing = append(missing, item.ProductID)
				continue
			}
			addProduct(p, item.Quantity, item.SetID)
			continue
		}

		set, ok := sets[item.ProductID]
		if !ok {
			missing = append(missing, item.ProductID)
			continue
		}
		lines = append(lines, models.OrderItem{
			ID:       set.ID,
			Name:     set.Name,
			Type:     models.ItemTypeSet,
			Quantity: item.Quantity,
		})
		selection := cart.BundleSelection(item.Configuration)
		for _, setItem := range set.Items {
			p, ok := products[setItem.ProductID]
			if !ok {
				continue
			}
			if qty := pricing.SelectedQuantity(setItem, selection); qty > 0 {
				addProduct(p, qty*item.Quantity, set.ID)
			}
		}
	}

	if len(missing) > 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnavailableItems, strings.Join(missing, ", "))
	}
	return lines, pricing.Float(total), nil
}

func subtotal(items []models.OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		if item.Price == nil {
			continue
		}
		total = total.Add(pricing.LineTotal(decimal.NewFromFloat(*item.Price), item.Quantity))
	}
	return pricing.Float(total)
}

// writeOrder allocates an order number and creates its file exclusively, so
// two orders never share a file.
func (s *CheckoutService) writeOrder(order *models.Order, now time.Time) error {
	if err := os.MkdirAll(s.ordersDir, 0o755); err != nil {
		return fmt.Errorf("failed to create orders dir: %w", err)
	}

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number, err := utils.GenerateOrderNumber(now)
		if err != nil {
			return fmt.Errorf("failed to generate order number: %w", err)
		}
		order.ID = number

		data, err := json.MarshalIndent(order, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode order: %w", err)
		}

		path := filepath.Join(s.ordersDir, number+".json")
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create order file: %w", err)
		}

		_, werr := f.Write(append(data, '\n'))
		cerr := f.Close()
		if werr != nil || cerr != nil {
			os.Remove(path)
			return fmt.Errorf("failed to write order file: %w", errors.Join(werr, cerr))
		}
		return nil
	}
	return ErrOrderNumberExists
}
