package providers

import (
	"context"

	"github.com/mercavia/marketplace-intelligence/internal/domain/entities"
)

// CatalogProvider exposes the read-only product catalog. Iteration order is
// the catalog's declaration order; recommendation tie-breaks rely on it.
type CatalogProvider interface {
	// Products returns all catalog products in declaration order.
	Products(ctx context.Context) ([]*entities.Product, error)

	// ProductByID returns the product with the given id, or a NotFound
	// application error.
	ProductByID(ctx context.Context, id string) (*entities.Product, error)
}

// StoreDirectoryProvider exposes the read-only store directory.
type StoreDirectoryProvider interface {
	// Stores returns all directory stores in declaration order.
	Stores(ctx context.Context) ([]*entities.Store, error)
}

// DeliveryConfigProvider exposes per-store delivery zone configuration.
type DeliveryConfigProvider interface {
	// DeliveryConfig returns the delivery configuration for a store, or a
	// NotFound application error when none is configured.
	DeliveryConfig(ctx context.Context, storeID string) (*entities.StoreDeliveryConfig, error)
}
