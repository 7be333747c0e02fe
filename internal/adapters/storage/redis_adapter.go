package storage

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/mercavia/marketplace-intelligence/internal/domain/providers"
	redisclient "github.com/mercavia/marketplace-intelligence/internal/infrastructure/clients/redis"
	apperrors "github.com/mercavia/marketplace-intelligence/pkg/errors"
	"github.com/mercavia/marketplace-intelligence/pkg/retry"
)

// RedisAdapter implements the StorageProvider interface using Redis.
// Values are stored without expiration; the behavior log must survive
// until it is explicitly trimmed or deleted.
type RedisAdapter struct {
	client   *redisclient.Client
	retryCfg retry.Config
}

// NewRedisAdapter creates a new Redis storage adapter
func NewRedisAdapter(client *redisclient.Client) providers.StorageProvider {
	return &RedisAdapter{
		client:   client,
		retryCfg: retry.DefaultConfig(),
	}
}

// Get retrieves the value stored under key
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Client().Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, apperrors.NewNotFoundError("key not found: " + key)
	}
	if err != nil {
		return nil, apperrors.NewExternalError("failed to read from storage", err)
	}
	return result, nil
}

// Set stores a value under key. Transient write failures are retried with
// a short backoff budget before the error is surfaced.
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte) error {
	err := retry.Do(ctx, a.retryCfg, func() error {
		return a.client.Client().Set(ctx, key, value, 0).Err()
	})
	if err != nil {
		return apperrors.NewExternalError("failed to write to storage", err)
	}
	return nil
}

// Delete removes the value stored under key
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return apperrors.NewExternalError("failed to delete from storage", err)
	}
	return nil
}

// Exists checks if a key is present
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	result, err := a.client.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, apperrors.NewExternalError("failed to check existence in storage", err)
	}
	return result > 0, nil
}
