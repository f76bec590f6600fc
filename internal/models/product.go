// internal/models/product.go
package models

type Product struct {
	ID              string          `json:"id" bson:"_id" validate:"required"`
	Name            string          `json:"name" bson:"name" validate:"required,max=255"`
	Slug            string          `json:"slug" bson:"slug" validate:"required,slug"`
	CategoryID      string          `json:"categoryId" bson:"categoryId" validate:"required"`
	Description     string          `json:"description,omitempty" bson:"description,omitempty"`
	Price           float64         `json:"price" bson:"price" validate:"gte=0"`
	Discount        *float64        `json:"discount,omitempty" bson:"discount,omitempty" validate:"omitempty,gte=0,ltefield=Price"`
	InStock         bool            `json:"inStock" bson:"inStock"`
	Images          []Image         `json:"images" bson:"images" validate:"dive"`
	Specifications  *Specifications `json:"specifications,omitempty" bson:"specifications,omitempty"`
	Collection      Collection      `json:"collection,omitempty" bson:"collection,omitempty" validate:"collection"`
	RelatedProducts []string        `json:"relatedProducts,omitempty" bson:"relatedProducts,omitempty"`
	Timestamps      `bson:",inline"`
}

func (p *Product) GetID() string {
	return p.ID
}

func (p *Product) SetID(id string) {
	p.ID = id
}

func (p *Product) GetSlug() string {
	return p.Slug
}

func (p *Product) SetSlug(slug string) {
	p.Slug = slug
}

func (p *Product) GetName() string {
	return p.Name
}

func (p *Product) CategoryIDs() []string {
	return []string{p.CategoryID}
}

// DiscountAmount returns the flat discount, zero when unset.
func (p *Product) DiscountAmount() float64 {
	if p.Discount == nil {
		return 0
	}
	return *p.Discount
}
