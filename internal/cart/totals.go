package cart

import (
	"github.com/shopspring/decimal"

	"github.com/javajoker/furniture-backend/internal/models"
	"github.com/javajoker/furniture-backend/internal/pricing"
)

// Line is a cart line resolved against the catalog.
type Line struct {
	models.CartItem
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Total     float64 `json:"total"`
	// Missing is set when the product or set no longer exists; such lines
	// are priced at zero.
	Missing bool `json:"missing,omitempty"`
}

type Summary struct {
	Lines      []Line  `json:"items"`
	TotalItems int     `json:"totalItems"`
	Subtotal   float64 `json:"subtotal"`
}

// SetIndex resolves sets by id.
type SetIndex map[string]*models.ProductSet

func IndexSets(sets []*models.ProductSet) SetIndex {
	index := make(SetIndex, len(sets))
	for _, s := range sets {
		if s != nil {
			index[s.ID] = s
		}
	}
	return index
}

// BundleSelection turns a bundle configuration into a pricing selection.
func BundleSelection(configuration []models.BundleEntry) pricing.Selection {
	sel := make(pricing.Selection, len(configuration))
	for _, e := range configuration {
		sel[e.ProductID] += e.Quantity
	}
	return sel
}

// Totals prices every line. Product lines use the effective product price;
// bundle lines use the set total for their configuration.
func Totals(items []models.CartItem, products pricing.ProductIndex, sets SetIndex) Summary {
	summary := Summary{Lines: make([]Line, 0, len(items))}
	subtotal := decimal.Zero

	for _, item := range items {
		line := Line{CartItem: item}
		unit := decimal.Zero

		if item.IsBundle() {
			if set, ok := sets[item.ProductID]; ok {
				line.Name = set.Name
				unit = pricing.SetTotal(set, products, BundleSelection(item.Configuration))
			} else {
				line.Missing = true
			}
		} else {
			if p, ok := products[item.ProductID]; ok {
				line.Name = p.Name
				unit = pricing.ProductPrice(p)
			} else {
				line.Missing = true
			}
		}

		total := pricing.LineTotal(unit, item.Quantity)
		line.UnitPrice = pricing.Float(unit)
		line.Total = pricing.Float(total)
		subtotal = subtotal.Add(total)
		summary.TotalItems += item.Quantity
		summary.Lines = append(summary.Lines, line)
	}

	summary.Subtotal = pricing.Float(subtotal)
	return summary
}
