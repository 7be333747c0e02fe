package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/mercavia/marketplace-intelligence/pkg/errors"
)

func TestFileAdapter_RoundTrip(t *testing.T) {
	a, err := NewFileAdapter(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	err = a.Set(ctx, "store-config:s1", []byte(`{"store_id":"s1"}`))
	assert.NoError(t, err)

	got, err := a.Get(ctx, "store-config:s1")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`{"store_id":"s1"}`), got)
}

func TestFileAdapter_MissingKey(t *testing.T) {
	a, err := NewFileAdapter(t.TempDir())
	assert.NoError(t, err)

	_, err = a.Get(context.Background(), "missing")
	assert.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFileAdapter_DeleteIsIdempotent(t *testing.T) {
	a, err := NewFileAdapter(t.TempDir())
	assert.NoError(t, err)
	ctx := context.Background()

	_ = a.Set(ctx, "k", []byte("v"))
	assert.NoError(t, a.Delete(ctx, "k"))
	// Deleting a key that is already gone is not an error.
	assert.NoError(t, a.Delete(ctx, "k"))

	exists, err := a.Exists(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "store-config_s1", sanitizeKey("store-config:s1"))
	assert.Equal(t, "user-behavior", sanitizeKey("user-behavior"))
	assert.Equal(t, "a_b_c", sanitizeKey("a/b c"))
}
