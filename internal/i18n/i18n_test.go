package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalesShareKeys(t *testing.T) {
	load := func(name string) map[string]string {
		data, err := localeFS.ReadFile("locales/" + name)
		require.NoError(t, err)
		var m map[string]string
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	en, ru := load("en.json"), load("ru.json")
	for key := range en {
		assert.Contains(t, ru, key)
	}
	for key := range ru {
		assert.Contains(t, en, key)
	}
}

func TestTranslate(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Product not found", T("en", KeyProductNotFound))
	assert.Equal(t, "Товар не найден", T("ru", KeyProductNotFound))
	assert.Equal(t, "Slug sofa is already in use", T("en", KeySlugTaken, "sofa"))

	// Unknown language falls back to English, unknown key to the key itself.
	assert.Equal(t, "Cart is empty", T("de", KeyCartEmpty))
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))

	assert.True(t, Supported("ru"))
	assert.False(t, Supported("de"))
}
