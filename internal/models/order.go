// internal/models/order.go
package models

import (
	"time"
)

type Customer struct {
	Name    string `json:"name" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"required,max=50"`
	Address string `json:"address" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

// OrderItem is one line of a placed order. Price is nil for set-derived lines,
// whose amount is already carried by the constituent product lines.
type OrderItem struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name"`
	Type     ItemType `json:"type" validate:"omitempty,oneof=product set"`
	Quantity int      `json:"quantity" validate:"min=1"`
	Price    *float64 `json:"price"`
	SetID    string   `json:"setId,omitempty"`
}

// Order is written once at checkout and never read back by the service.
type Order struct {
	ID        string      `json:"id"`
	Customer  *Customer   `json:"customer"`
	Items     []OrderItem `json:"items"`
	Subtotal  float64     `json:"subtotal"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TotalQuantity sums quantities across all order lines.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}
