// Package catalog filters and sorts the storefront listing and derives the
// category tree and related-product suggestions.
package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/pricing"
)

type Sort string

const (
	SortNameAsc   Sort = "name-asc"
	SortNameDesc  Sort = "name-desc"
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"
)

func (s Sort) Valid() bool {
	switch s {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

type ContentType string

const (
	ContentAll      ContentType = "all"
	ContentProducts ContentType = "products"
	ContentSets     ContentType = "sets"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentAll, ContentProducts, ContentSets:
		return true
	}
	return false
}

// Query is a catalog request. Zero values mean no filtering and name-asc order.
type Query struct {
	CategorySlug string
	Sort         Sort
	ContentType  ContentType
	Collection   models.Collection
	Search       string
}

// Data is the unfiltered catalog.
type Data struct {
	Products   []*models.Product
	Sets       []*models.ProductSet
	Categories []*models.Category
}

type Result struct {
	// Category is nil when no slug was given or it did not resolve.
	Category            *models.Category
	Products            []*models.Product
	Sets                []*models.ProductSet
	ShowProductsHeading bool
}

// Catalog applies queries using the collation rules of one locale.
type Catalog struct {
	lang language.Tag
}

func New(locale string) *Catalog {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Catalog{lang: tag}
}

func normalize(q Query) Query {
	if !q.Sort.Valid() {
		q.Sort = SortNameAsc
	}
	if !q.ContentType.Valid() {
		q.ContentType = ContentAll
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// Apply filters and sorts data for q.
//
// An unknown category slug falls back to the whole catalog. A category that
// holds sets but no standalone products is shown as sets only, unless the
// caller asked for products, in which case the result is empty.
func (c *Catalog) Apply(q Query, data Data) Result {
	q = normalize(q)
	res := Result{}

	// Copies, so sorting never reorders the caller's slices.
	products := append([]*models.Product(nil), data.Products...)
	sets := append([]*models.ProductSet(nil), data.Sets...)

	if q.CategorySlug != "" {
		if cat, ok := CategoryBySlug(data.Categories, q.CategorySlug); ok {
			res.Category = cat
			products = filter(products, func(p *models.Product) bool { return p.CategoryID == cat.ID })
			sets = filter(sets, func(s *models.ProductSet) bool { return s.HasCategory(cat.ID) })
		}
	}

	setsOnly := res.Category != nil && len(products) == 0 && len(sets) > 0
	switch {
	case setsOnly && q.ContentType == ContentProducts:
		products, sets = nil, nil
	case setsOnly:
		products = nil
	case q.ContentType == ContentProducts:
		sets = nil
	case q.ContentType == ContentSets:
		products = nil
	}

	if q.Collection != "" {
		products = filter(products, func(p *models.Product) bool { return p.Collection == q.Collection })
		sets = filter(sets, func(s *models.ProductSet) bool { return s.Collection == q.Collection })
	}

	if q.Search != "" {
		fold := cases.Fold()
		needle := fold.String(q.Search)
		match := func(fields ...string) bool {
			for _, f := range fields {
				if strings.Contains(fold.String(f), needle) {
					return true
				}
			}
			return false
		}
		products = filter(products, func(p *models.Product) bool { return match(p.Name, p.Slug, p.Description) })
		sets = filter(sets, func(s *models.ProductSet) bool { return match(s.Name, s.Slug, s.Description) })
	}

	index := pricing.Index(data.Products)
	c.sortProducts(products, q.Sort)
	c.sortSets(sets, index, q.Sort)

	res.Products = nonNil(products)
	res.Sets = nonNil(sets)
	res.ShowProductsHeading = len(res.Products) > 0 && len(res.Sets) > 0
	return res
}

func (c *Catalog) less(sortBy Sort) func(aName, bName string, aPrice, bPrice decimal.Decimal) bool {
	// collate.Collator is not safe for concurrent use; one per call.
	col := collate.New(c.lang, collate.IgnoreCase)
	return func(aName, bName string, aPrice, bPrice decimal.Decimal) bool {
		byName := col.CompareString(aName, bName)
		switch sortBy {
		case SortNameDesc:
			return byName > 0
		case SortPriceAsc:
			if cmp := aPrice.Cmp(bPrice); cmp != 0 {
				return cmp < 0
			}
		case SortPriceDesc:
			if cmp := aPrice.Cmp(bPrice); cmp != 0 {
				return cmp > 0
			}
		}
		return byName < 0
	}
}

// Prices are compared unrounded.
func (c *Catalog) sortProducts(products []*models.Product, sortBy Sort) {
	less := c.less(sortBy)
	prices := make(map[string]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = pricing.ProductPrice(p)
	}
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		return less(a.Name, b.Name, prices[a.ID], prices[b.ID])
	})
}

func (c *Catalog) sortSets(sets []*models.ProductSet, index pricing.ProductIndex, sortBy Sort) {
	less := c.less(sortBy)
	prices := make(map[string]decimal.Decimal, len(sets))
	for _, s := range sets {
		prices[s.ID] = pricing.SetCardPrice(s, index)
	}
	sort.SliceStable(sets, func(i, j int) bool {
		a, b := sets[i], sets[j]
		return less(a.Name, b.Name, prices[a.ID], prices[b.ID])
	})
}

// CategoryBySlug finds a category by its slug.
func CategoryBySlug(categories []*models.Category, slug string) (*models.Category, bool) {
	for _, c := range categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return nil, false
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
