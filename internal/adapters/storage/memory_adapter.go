package storage

import (
	"context"
	"sync"

	"github.com/mercavia/marketplace-intelligence/internal/domain/providers"
	apperrors "github.com/mercavia/marketplace-intelligence/pkg/errors"
)

// MemoryAdapter implements the StorageProvider interface in process memory.
// It serves tests and ephemeral sessions where nothing should survive
// process exit.
type MemoryAdapter struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryAdapter creates a new in-memory storage adapter
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{data: make(map[string][]byte)}
}

// Get retrieves the value stored under key
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	value, ok := a.data[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("key not found: " + key)
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a value under key
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	a.data[key] = stored
	return nil
}

// Delete removes the value stored under key
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.data, key)
	return nil
}

// Exists checks if a key is present
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	_, ok := a.data[key]
	return ok, nil
}

var _ providers.StorageProvider = (*MemoryAdapter)(nil)
