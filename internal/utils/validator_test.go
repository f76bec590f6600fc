package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/furniture-backend/internal/models"
)

func discount(f float64) *float64 { return &f }

func validProduct() models.Product {
	return models.Product{
		ID:         "p1",
		Name:       "Sofa",
		Slug:       "sofa",
		CategoryID: "c1",
		Price:      100,
		Collection: models.CollectionLoft,
	}
}

func TestValidateProduct(t *testing.T) {
	p := validProduct()
	require.NoError(t, ValidateStruct(&p))

	p.Discount = discount(100)
	assert.NoError(t, ValidateStruct(&p), "discount may equal price")

	p.Discount = discount(150)
	errs := GetValidationErrors(ValidateStruct(&p))
	require.Len(t, errs, 1)
	assert.Equal(t, "discount", errs[0].Field)
	assert.Equal(t, "ltefield", errs[0].Tag)
}

func TestValidateCustomTags(t *testing.T) {
	p := validProduct()
	p.Slug = "Not A Slug"
	p.Collection = "baroque"

	errs := GetValidationErrors(ValidateStruct(&p))
	require.Len(t, errs, 2)

	tags := []string{errs[0].Tag, errs[1].Tag}
	assert.ElementsMatch(t, []string{"slug", "collection"}, tags)
}

func TestValidateNestedFieldPath(t *testing.T) {
	set := models.ProductSet{
		ID: "s1", Name: "Set", Slug: "set", CategoryID: "c1",
		Items: []models.SetItem{{ProductID: ""}},
	}

	errs := GetValidationErrors(ValidateStruct(&set))
	require.NotEmpty(t, errs)
	assert.Equal(t, "items[0].productId", errs[0].Field)
}

func TestValidateOrderCustomer(t *testing.T) {
	c := models.Customer{Name: "Anna", Phone: "+7 900 000-00-00", Address: "Moscow", Email: "not-an-email"}

	errs := GetValidationErrors(ValidateStruct(&c))
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Tag)
}
