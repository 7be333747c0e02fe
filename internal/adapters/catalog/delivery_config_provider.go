package catalog

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/mercavia/marketplace-intelligence/internal/domain/entities"
	"github.com/mercavia/marketplace-intelligence/internal/domain/providers"
	apperrors "github.com/mercavia/marketplace-intelligence/pkg/errors"
)

const deliveryConfigKeyPrefix = "store-config:"

// StoredDeliveryConfigProvider reads per-store delivery configuration from
// the key-value storage where the store dashboard persists it. Malformed
// stored configuration fails soft to "not configured".
type StoredDeliveryConfigProvider struct {
	storage providers.StorageProvider
}

// NewStoredDeliveryConfigProvider creates a storage-backed config provider
func NewStoredDeliveryConfigProvider(storage providers.StorageProvider) *StoredDeliveryConfigProvider {
	return &StoredDeliveryConfigProvider{storage: storage}
}

// DeliveryConfig returns the delivery configuration for a store
func (p *StoredDeliveryConfigProvider) DeliveryConfig(ctx context.Context, storeID string) (*entities.StoreDeliveryConfig, error) {
	data, err := p.storage.Get(ctx, deliveryConfigKeyPrefix+storeID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, apperrors.NewExternalError("failed to load delivery config", err)
	}

	var cfg entities.StoreDeliveryConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Warn().Err(err).Str("store_id", storeID).Msg("discarding malformed delivery config")
		return nil, apperrors.NewNotFoundError("delivery config unreadable for store: " + storeID)
	}
	if cfg.StoreID == "" {
		cfg.StoreID = storeID
	}

	return &cfg, nil
}

// SaveDeliveryConfig persists a store's delivery configuration. The store
// dashboard is the only writer.
func (p *StoredDeliveryConfigProvider) SaveDeliveryConfig(ctx context.Context, cfg *entities.StoreDeliveryConfig) error {
	if cfg == nil || cfg.StoreID == "" {
		return apperrors.NewValidationError("delivery config requires a store id")
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return apperrors.NewInternalError("failed to encode delivery config", err)
	}
	return p.storage.Set(ctx, deliveryConfigKeyPrefix+cfg.StoreID, data)
}

var _ providers.DeliveryConfigProvider = (*StoredDeliveryConfigProvider)(nil)
