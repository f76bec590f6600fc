// internal/services/catalog_service.go
package services

import (
	"context"
	"fmt"

	"github.com/javajoker/furniture-backend/internal/cart"
	"github.com/javajoker/furniture-backend/internal/catalog"
	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/pricing"
	"github.com/javajoker/furniture-backend/internal/repository"
)

// CatalogService answers the read-side storefront questions over one
// repository set.
type CatalogService struct {
	repos   *repository.Set
	catalog *catalog.Catalog
}

// SetPrice is the price of a set for one selection of item quantities.
type SetPrice struct {
	SetID     string            `json:"setId"`
	Selection pricing.Selection `json:"selection"`
	Total     float64           `json:"total"`
	ListTotal float64           `json:"listTotal"`
	Savings   float64           `json:"savings"`
	CardPrice float64           `json:"cardPrice"`
}

func NewCatalogService(repos *repository.Set, catalog *catalog.Catalog) *CatalogService {
	return &CatalogService{repos: repos, catalog: catalog}
}

func (s *CatalogService) Data(ctx context.Context) (catalog.Data, error) {
	products, err := s.repos.Products.GetAll(ctx)
	if err != nil {
		return catalog.Data{}, fmt.Errorf("failed to load products: %w", err)
	}
	sets, err := s.repos.Sets.GetAll(ctx)
	if err != nil {
		return catalog.Data{}, fmt.Errorf("failed to load sets: %w", err)
	}
	categories, err := s.repos.Categories.GetAll(ctx)
	if err != nil {
		return catalog.Data{}, fmt.Errorf("failed to load categories: %w", err)
	}
	return catalog.Data{Products: products, Sets: sets, Categories: categories}, nil
}

func (s *CatalogService) Browse(ctx context.Context, q catalog.Query) (catalog.Result, error) {
	data, err := s.Data(ctx)
	if err != nil {
		return catalog.Result{}, err
	}
	return s.catalog.Apply(q, data), nil
}

// Indexes resolves products and sets by id for pricing.
func (s *CatalogService) Indexes(ctx context.Context) (pricing.ProductIndex, cart.SetIndex, error) {
	products, err := s.repos.Products.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load products: %w", err)
	}
	sets, err := s.repos.Sets.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sets: %w", err)
	}
	return pricing.Index(products), cart.IndexSets(sets), nil
}

// PriceSet prices set id for sel. Quantities outside an item's bounds are
// clamped and the normalized selection is returned with the totals.
func (s *CatalogService) PriceSet(ctx context.Context, id string, sel pricing.Selection) (*SetPrice, error) {
	set, err := s.repos.Sets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.repos.Products.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	index := pricing.Index(products)
	total := pricing.SetTotal(set, index, sel)
	list := pricing.SetListTotal(set, index, sel)

	return &SetPrice{
		SetID:     set.ID,
		Selection: pricing.Normalize(set, sel),
		Total:     pricing.Float(total),
		ListTotal: pricing.Float(list),
		Savings:   pricing.Float(list.Sub(total)),
		CardPrice: pricing.Float(pricing.SetCardPrice(set, index)),
	}, nil
}

func (s *CatalogService) Related(ctx context.Context, productID string, limit int) ([]*models.Product, error) {
	product, err := s.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	products, err := s.repos.Products.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return catalog.Related(product, products, limit), nil
}

func (s *CatalogService) CategoryTree(ctx context.Context) ([]*catalog.CategoryNode, error) {
	categories, err := s.repos.Categories.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return catalog.BuildCategoryTree(categories)
}

// CartSummary prices cart lines against the current catalog.
func (s *CatalogService) CartSummary(ctx context.Context, items []models.CartItem) (cart.Summary, error) {
	products, sets, err := s.Indexes(ctx)
	if err != nil {
		return cart.Summary{}, err
	}
	return cart.Totals(items, products, sets), nil
}

func (s *CatalogService) Product(ctx context.Context, id string) (*models.Product, error) {
	return s.repos.Products.GetByID(ctx, id)
}

func (s *CatalogService) Set(ctx context.Context, id string) (*models.ProductSet, error) {
	return s.repos.Sets.GetByID(ctx, id)
}
