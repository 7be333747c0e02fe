package entities

// SaleType classifies how a product is sold.
type SaleType string

const (
	// SaleTypeDirect is an in-stock product available for immediate purchase.
	SaleTypeDirect SaleType = "directa"
	// SaleTypeOnOrder is a product made or sourced on request.
	SaleTypeOnOrder SaleType = "pedido"
	// SaleTypeDelivery is a food/local-delivery product.
	SaleTypeDelivery SaleType = "delivery"
)

// IsValid checks if the sale type is one of the defined constants.
func (s SaleType) IsValid() bool {
	switch s {
	case SaleTypeDirect, SaleTypeOnOrder, SaleTypeDelivery:
		return true
	}
	return false
}

// Product represents a catalog product offered by a store.
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Price           float64  `json:"price"`
	DiscountPercent float64  `json:"discount_percent,omitempty"`
	SaleType        SaleType `json:"sale_type"`
	Stock           int      `json:"stock"`
	DeliveryETA     string   `json:"delivery_eta,omitempty"`
	StoreID         string   `json:"store_id,omitempty"`
}

// Store represents an entry in the store directory.
type Store struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Rating      float64  `json:"rating"`
}

// Location represents geographical coordinates.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
