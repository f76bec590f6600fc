// internal/models/product_set.go
package models

// SetItem is one product inside a ProductSet together with its quantity bounds.
type SetItem struct {
	ProductID       string `json:"productId" bson:"productId" validate:"required"`
	DefaultQuantity int    `json:"defaultQuantity" bson:"defaultQuantity" validate:"gte=0"`
	MinQuantity     int    `json:"minQuantity" bson:"minQuantity" validate:"gte=0"`
	MaxQuantity     int    `json:"maxQuantity" bson:"maxQuantity" validate:"gte=0"`
	Required        bool   `json:"required" bson:"required"`
}

type ProductSet struct {
	ID               string          `json:"id" bson:"_id" validate:"required"`
	Name             string          `json:"name" bson:"name" validate:"required,max=255"`
	Slug             string          `json:"slug" bson:"slug" validate:"required,slug"`
	CategoryID       string          `json:"categoryId" bson:"categoryId" validate:"required"`
	ExtraCategoryIDs []string        `json:"categoryIds,omitempty" bson:"categoryIds,omitempty"`
	Description      string          `json:"description,omitempty" bson:"description,omitempty"`
	InStock          bool            `json:"inStock" bson:"inStock"`
	Images           []Image         `json:"images" bson:"images" validate:"dive"`
	Specifications   *Specifications `json:"specifications,omitempty" bson:"specifications,omitempty"`
	Collection       Collection      `json:"collection,omitempty" bson:"collection,omitempty" validate:"collection"`
	Items            []SetItem       `json:"items" bson:"items" validate:"required,min=1,dive"`
	Timestamps       `bson:",inline"`
}

func (s *ProductSet) GetID() string {
	return s.ID
}

func (s *ProductSet) SetID(id string) {
	s.ID = id
}

func (s *ProductSet) GetSlug() string {
	return s.Slug
}

func (s *ProductSet) SetSlug(slug string) {
	s.Slug = slug
}

func (s *ProductSet) GetName() string {
	return s.Name
}

// CategoryIDs returns the primary category followed by any extra ones, without duplicates.
func (s *ProductSet) CategoryIDs() []string {
	ids := make([]string, 0, 1+len(s.ExtraCategoryIDs))
	seen := make(map[string]bool, 1+len(s.ExtraCategoryIDs))
	for _, id := range append([]string{s.CategoryID}, s.ExtraCategoryIDs...) {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// HasCategory reports whether the set is referenced from categoryID.
func (s *ProductSet) HasCategory(categoryID string) bool {
	for _, id := range s.CategoryIDs() {
		if id == categoryID {
			return true
		}
	}
	return false
}

// ProductIDs lists the product ids referenced by the set's items in order.
func (s *ProductSet) ProductIDs() []string {
	ids := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
