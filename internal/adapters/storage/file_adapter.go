package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mercavia/marketplace-intelligence/internal/domain/providers"
	apperrors "github.com/mercavia/marketplace-intelligence/pkg/errors"
)

// FileAdapter implements the StorageProvider interface over a local
// directory, one file per key. It is the device-local analog of the
// original deployment's browser storage: a single user, no locking, and
// last-write-wins across concurrent processes.
type FileAdapter struct {
	dir string
}

// NewFileAdapter creates a file storage adapter rooted at dir
func NewFileAdapter(dir string) (providers.StorageProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewInternalError("failed to create storage directory", err)
	}
	return &FileAdapter{dir: dir}, nil
}

// Get retrieves the value stored under key
func (a *FileAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(a.pathFor(key))
	if os.IsNotExist(err) {
		return nil, apperrors.NewNotFoundError("key not found: " + key)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read from storage", err)
	}
	return data, nil
}

// Set stores a value under key
func (a *FileAdapter) Set(ctx context.Context, key string, value []byte) error {
	if err := os.WriteFile(a.pathFor(key), value, 0o644); err != nil {
		return apperrors.NewInternalError("failed to write to storage", err)
	}
	return nil
}

// Delete removes the value stored under key
func (a *FileAdapter) Delete(ctx context.Context, key string) error {
	err := os.Remove(a.pathFor(key))
	if err != nil && !os.IsNotExist(err) {
		return apperrors.NewInternalError("failed to delete from storage", err)
	}
	return nil
}

// Exists checks if a key is present
func (a *FileAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(a.pathFor(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewInternalError("failed to check existence in storage", err)
	}
	return true, nil
}

func (a *FileAdapter) pathFor(key string) string {
	return filepath.Join(a.dir, sanitizeKey(key)+".json")
}

// sanitizeKey maps arbitrary keys onto safe file names
func sanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
