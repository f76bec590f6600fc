// internal/models/cart.go
package models

// BundleEntry is one configured product of a set added to the cart as a bundle.
type BundleEntry struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type CartItem struct {
	ProductID     string        `json:"productId"`
	Quantity      int           `json:"quantity"`
	Type          ItemType      `json:"type"`
	SetID         string        `json:"setId,omitempty"`
	Configuration []BundleEntry `json:"configuration,omitempty"`
}

// IsBundle reports whether the line represents a whole configured set.
func (c CartItem) IsBundle() bool {
	return c.Type == ItemTypeSet
}
