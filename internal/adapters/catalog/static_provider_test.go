package catalog

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mercavia/marketplace-intelligence/pkg/errors"
)

func fixturePath(t *testing.T, name string) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "data", name)
}

func newFixtureProvider(t *testing.T) *StaticProvider {
	t.Helper()
	provider, err := NewStaticProvider(fixturePath(t, "products.json"), fixturePath(t, "stores.json"))
	require.NoError(t, err)
	return provider
}

func TestStaticProvider_LoadsFixtures(t *testing.T) {
	ctx := context.Background()
	provider := newFixtureProvider(t)

	products, err := provider.Products(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, products)

	stores, err := provider.Stores(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, stores)

	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Category)
		assert.True(t, p.SaleType.IsValid(), "product %s has invalid sale type %q", p.ID, p.SaleType)
	}
}

func TestStaticProvider_PreservesFixtureOrder(t *testing.T) {
	ctx := context.Background()
	provider := newFixtureProvider(t)

	products, err := provider.Products(ctx)
	require.NoError(t, err)
	require.Greater(t, len(products), 1)
	assert.Equal(t, "p01", products[0].ID)
}

func TestStaticProvider_ProductByID(t *testing.T) {
	ctx := context.Background()
	provider := newFixtureProvider(t)

	product, err := provider.ProductByID(ctx, "p01")
	require.NoError(t, err)
	assert.Equal(t, "p01", product.ID)

	_, err = provider.ProductByID(ctx, "nope")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStaticProvider_MissingFileFails(t *testing.T) {
	_, err := NewStaticProvider("/nonexistent/products.json", "/nonexistent/stores.json")
	assert.Error(t, err)
}
