// Package pricing holds the price and set-composition rules shared by the
// catalog, the cart, checkout and the admin set endpoints.
//
// All arithmetic is done on decimal.Decimal; Float rounds a result to cents for
// JSON payloads.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/javajoker/furniture-backend/internal/models"
)

// Selection maps a set item's product id to the quantity chosen by the user.
type Selection map[string]int

// ProductIndex resolves products by id.
type ProductIndex map[string]*models.Product

// Index builds a ProductIndex over products. Later duplicates win.
func Index(products []*models.Product) ProductIndex {
	index := make(ProductIndex, len(products))
	for _, p := range products {
		if p != nil {
			index[p.ID] = p
		}
	}
	return index
}

// EffectivePrice is price minus a positive flat discount, never below zero.
func EffectivePrice(price, discount float64) decimal.Decimal {
	p := decimal.NewFromFloat(price)
	if discount > 0 {
		p = p.Sub(decimal.NewFromFloat(discount))
	}
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// ProductPrice is the effective price of p.
func ProductPrice(p *models.Product) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return EffectivePrice(p.Price, p.DiscountAmount())
}

// LineTotal multiplies a unit price by a quantity. Non-positive quantities yield zero.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// DefaultSelection returns every item at its default quantity.
func DefaultSelection(set *models.ProductSet) Selection {
	sel := make(Selection, len(set.Items))
	for _, item := range set.Items {
		sel[item.ProductID] = SelectedQuantity(item, nil)
	}
	return sel
}

// Bounds returns the quantity range a user may choose for item.
// A required item never goes below one.
func Bounds(item models.SetItem) (lo, hi int) {
	lo = item.MinQuantity
	if lo < 0 {
		lo = 0
	}
	if item.Required && lo < 1 {
		lo = 1
	}
	hi = item.MaxQuantity
	if hi < item.DefaultQuantity {
		hi = item.DefaultQuantity
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// SelectedQuantity is the override from sel, or the default quantity when
// there is none, clamped into Bounds either way.
func SelectedQuantity(item models.SetItem, sel Selection) int {
	q, ok := sel[item.ProductID]
	if !ok {
		q = item.DefaultQuantity
	}
	lo, hi := Bounds(item)
	if q < lo {
		return lo
	}
	if q > hi {
		return hi
	}
	return q
}

// SetTotal sums effective price times selected quantity over the set items.
// Items whose product cannot be resolved contribute nothing.
func SetTotal(set *models.ProductSet, products ProductIndex, sel Selection) decimal.Decimal {
	total := decimal.Zero
	for _, item := range set.Items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		total = total.Add(LineTotal(ProductPrice(p), SelectedQuantity(item, sel)))
	}
	return total
}

// SetCardPrice is the set total with every item at its default quantity.
func SetCardPrice(set *models.ProductSet, products ProductIndex) decimal.Decimal {
	return SetTotal(set, products, nil)
}

// SetListTotal is SetTotal at list prices, used to show the saving on a set.
func SetListTotal(set *models.ProductSet, products ProductIndex, sel Selection) decimal.Decimal {
	total := decimal.Zero
	for _, item := range set.Items {
		p, ok := products[item.ProductID]
		if !ok {
			continue
		}
		total = total.Add(LineTotal(decimal.NewFromFloat(p.Price), SelectedQuantity(item, sel)))
	}
	return total
}

// Normalize clamps every entry of sel into its item's bounds and fills missing
// items with their defaults. Entries for products outside the set are dropped.
func Normalize(set *models.ProductSet, sel Selection) Selection {
	out := make(Selection, len(set.Items))
	for _, item := range set.Items {
		out[item.ProductID] = SelectedQuantity(item, sel)
	}
	return out
}

// Float rounds d to cents and converts it for JSON payloads.
func Float(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
