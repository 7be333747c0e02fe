package catalog

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mercavia/marketplace-intelligence/internal/domain/entities"
	"github.com/mercavia/marketplace-intelligence/internal/domain/providers"
	apperrors "github.com/mercavia/marketplace-intelligence/pkg/errors"
)

// StaticProvider serves the product catalog and store directory from JSON
// fixture files loaded once at construction. Declaration order in the files
// is preserved; the recommendation scorer's tie-breaking depends on it.
type StaticProvider struct {
	products []*entities.Product
	stores   []*entities.Store
	byID     map[string]*entities.Product
}

// NewStaticProvider loads the catalog fixtures from the given paths.
func NewStaticProvider(productsPath, storesPath string) (*StaticProvider, error) {
	p := &StaticProvider{
		byID: make(map[string]*entities.Product),
	}

	if err := p.loadProducts(productsPath); err != nil {
		return nil, err
	}
	if err := p.loadStores(storesPath); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *StaticProvider) loadProducts(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewInternalError("failed to read products fixture", err)
	}
	var products []*entities.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return apperrors.NewInternalError("failed to parse products fixture", err)
	}
	p.products = products
	for _, prod := range products {
		p.byID[prod.ID] = prod
	}
	return nil
}

func (p *StaticProvider) loadStores(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewInternalError("failed to read stores fixture", err)
	}
	var stores []*entities.Store
	if err := json.Unmarshal(data, &stores); err != nil {
		return apperrors.NewInternalError("failed to parse stores fixture", err)
	}
	p.stores = stores
	return nil
}

// Products returns all catalog products in fixture order
func (p *StaticProvider) Products(ctx context.Context) ([]*entities.Product, error) {
	return p.products, nil
}

// ProductByID returns the product with the given id
func (p *StaticProvider) ProductByID(ctx context.Context, id string) (*entities.Product, error) {
	prod, ok := p.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("product not found: " + id)
	}
	return prod, nil
}

// Stores returns all directory stores in fixture order
func (p *StaticProvider) Stores(ctx context.Context) ([]*entities.Store, error) {
	return p.stores, nil
}

var (
	_ providers.CatalogProvider        = (*StaticProvider)(nil)
	_ providers.StoreDirectoryProvider = (*StaticProvider)(nil)
)
