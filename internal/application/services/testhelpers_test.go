package services

import (
	"context"

	"github.com/mercavia/marketplace-intelligence/internal/domain/entities"
	apperrors "github.com/mercavia/marketplace-intelligence/pkg/errors"
)

// fakeCatalog is a minimal in-memory catalog for service tests.
type fakeCatalog struct {
	products []*entities.Product
	stores   []*entities.Store
}

func (f *fakeCatalog) Products(ctx context.Context) ([]*entities.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) ProductByID(ctx context.Context, id string) (*entities.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFoundError("product not found")
}

func (f *fakeCatalog) Stores(ctx context.Context) ([]*entities.Store, error) {
	return f.stores, nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: []*entities.Product{
			{ID: "p1", Name: "Celular Samsung Galaxy", Description: "Teléfono con gran pantalla", Category: "Tecnología", Price: 450, SaleType: entities.SaleTypeDirect, Stock: 5, StoreID: "s1"},
			{ID: "p2", Name: "Laptop HP Pavilion", Description: "Computadora portátil para trabajo", Category: "Tecnología", Price: 800, SaleType: entities.SaleTypeOnOrder, StoreID: "s1"},
			{ID: "p3", Name: "Camisa de algodón", Description: "Camisa casual para hombre", Category: "Ropa", Price: 25, SaleType: entities.SaleTypeDirect, Stock: 12, StoreID: "s2"},
			{ID: "p4", Name: "Pizza familiar", Description: "Pizza de pepperoni con entrega a domicilio", Category: "Comida", Price: 12, SaleType: entities.SaleTypeDelivery, StoreID: "s3"},
		},
		stores: []*entities.Store{
			{ID: "s1", Name: "TecnoCentro", Categories: []string{"Tecnología"}, Rating: 4.8},
			{ID: "s2", Name: "Moda Urbana", Categories: []string{"Ropa"}, Rating: 4.1},
			{ID: "s3", Name: "Pizzería Napoli", Categories: []string{"Comida"}, Rating: 4.6},
		},
	}
}

// failingStorage errors on every operation, for fail-soft tests.
type failingStorage struct{}

func (failingStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, apperrors.NewExternalError("storage down", nil)
}

func (failingStorage) Set(ctx context.Context, key string, value []byte) error {
	return apperrors.NewExternalError("storage down", nil)
}

func (failingStorage) Delete(ctx context.Context, key string) error {
	return apperrors.NewExternalError("storage down", nil)
}

func (failingStorage) Exists(ctx context.Context, key string) (bool, error) {
	return false, apperrors.NewExternalError("storage down", nil)
}

// fakeDeliveryConfigs serves a fixed config map.
type fakeDeliveryConfigs struct {
	configs map[string]*entities.StoreDeliveryConfig
}

func (f *fakeDeliveryConfigs) DeliveryConfig(ctx context.Context, storeID string) (*entities.StoreDeliveryConfig, error) {
	config, ok := f.configs[storeID]
	if !ok {
		return nil, apperrors.NewNotFoundError("no delivery config")
	}
	return config, nil
}
