// internal/models/common.go
package models

import (
	"time"
)

// Timestamps is embedded by every catalog entity.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Times exposes the embedded timestamps to generic storage code.
func (t *Timestamps) Times() *Timestamps {
	return t
}

// Touch sets UpdatedAt and fills CreatedAt on first save.
func (t *Timestamps) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

type Image struct {
	URL    string `json:"url" bson:"url" validate:"required"`
	Alt    string `json:"alt,omitempty" bson:"alt,omitempty"`
	IsMain bool   `json:"isMain,omitempty" bson:"isMain,omitempty"`
}

// MainImage returns the image flagged as main, else the first one.
func MainImage(images []Image) (Image, bool) {
	for _, img := range images {
		if img.IsMain {
			return img, true
		}
	}
	if len(images) > 0 {
		return images[0], true
	}
	return Image{}, false
}

type Specifications struct {
	Material   string `json:"material,omitempty" bson:"material,omitempty"`
	Style      string `json:"style,omitempty" bson:"style,omitempty"`
	Dimensions string `json:"dimensions,omitempty" bson:"dimensions,omitempty"`
	Content    string `json:"content,omitempty" bson:"content,omitempty"`
	Warranty   string `json:"warranty,omitempty" bson:"warranty,omitempty"`
}

// Enums
type Collection string

const (
	CollectionClassic  Collection = "classic"
	CollectionModern   Collection = "modern"
	CollectionLoft     Collection = "loft"
	CollectionScandi   Collection = "scandi"
	CollectionProvence Collection = "provence"
)

var collections = []Collection{
	CollectionClassic,
	CollectionModern,
	CollectionLoft,
	CollectionScandi,
	CollectionProvence,
}

func Collections() []Collection {
	out := make([]Collection, len(collections))
	copy(out, collections)
	return out
}

func (c Collection) Valid() bool {
	if c == "" {
		return true
	}
	for _, known := range collections {
		if c == known {
			return true
		}
	}
	return false
}

type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeSet     ItemType = "set"
)

type EntityKind string

const (
	KindProduct    EntityKind = "products"
	KindCategory   EntityKind = "categories"
	KindProductSet EntityKind = "product-sets"
)
