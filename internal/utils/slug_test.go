package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Coffee Table", "coffee-table"},
		{"  Sofa -- Loft  ", "sofa-loft"},
		{"Café Crème", "cafe-creme"},
		{"Шкаф-купе Прованс", "shkaf-kupe-provans"},
		{"Объём", "obem"},
		{"Мой стол", "moy-stol"},
		{"Bed 160x200", "bed-160x200"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.name)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.True(t, IsSlug(got))
			}
		})
	}
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("classic-bedroom-2"))
	assert.False(t, IsSlug("Classic"))
	assert.False(t, IsSlug("double--dash"))
	assert.False(t, IsSlug("-leading"))
	assert.False(t, IsSlug(""))
}
