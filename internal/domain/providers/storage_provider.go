package providers

import (
	"context"
)

// StorageProvider defines the interface for device-local key-value persistence.
// Values are opaque blobs; callers must tolerate "key not found" and malformed
// values as normal, non-error conditions.
type StorageProvider interface {
	// Get retrieves the value stored under key. A missing key yields a
	// NotFound application error.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the value stored under key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key is present.
	Exists(ctx context.Context, key string) (bool, error)
}
