// internal/models/category.go
package models

type Category struct {
	ID          string  `json:"id" bson:"_id" validate:"required"`
	Name        string  `json:"name" bson:"name" validate:"required,max=255"`
	Slug        string  `json:"slug" bson:"slug" validate:"required,slug"`
	ParentID    string  `json:"parentId,omitempty" bson:"parentId,omitempty"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Images      []Image `json:"images,omitempty" bson:"images,omitempty" validate:"dive"`
	Timestamps  `bson:",inline"`
}

func (c *Category) GetID() string {
	return c.ID
}

func (c *Category) SetID(id string) {
	c.ID = id
}

func (c *Category) GetSlug() string {
	return c.Slug
}

func (c *Category) SetSlug(slug string) {
	c.Slug = slug
}

func (c *Category) GetName() string {
	return c.Name
}

// CategoryIDs is empty for categories; the parent link is not a category reference.
func (c *Category) CategoryIDs() []string {
	return nil
}
