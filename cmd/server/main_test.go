package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/furniture-backend/internal/config"
	"github.com/javajoker/furniture-backend/internal/repository"
)

func fileConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Backend: config.BackendFile},
		Cart:    config.CartConfig{Storage: config.CartStorageMemory},
	}
}

func TestOpenStoresFailsOnMissingDataFiles(t *testing.T) {
	dir := t.TempDir()

	_, _, err := openStores(context.Background(), fileConfig(), repository.Backends{DataDir: dir})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrMissingFile))
}

func TestOpenStoresWithDataFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, repository.EnsureFiles(dir))

	stores, closeCarts, err := openStores(context.Background(), fileConfig(), repository.Backends{DataDir: dir})
	require.NoError(t, err)
	defer closeCarts()

	assert.NotNil(t, stores.Public)
	assert.Same(t, stores.Public, stores.Admin)
	assert.NotNil(t, stores.Carts)
}
