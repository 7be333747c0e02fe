package entities

// Coordinate is a single polygon vertex.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DeliveryZone is a store-defined geographic polygon with an associated
// delivery price and estimated delivery time. The polygon is implicitly
// closed: the first vertex follows the last.
type DeliveryZone struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Price         float64      `json:"price"`
	EstimatedTime string       `json:"estimated_time"`
	Coordinates   []Coordinate `json:"coordinates"`
	Color         string       `json:"color,omitempty"`
}

// StoreDeliveryConfig holds a store's configured delivery zones and its
// base coordinate. Zones may overlap; the first configured zone containing
// a point wins.
type StoreDeliveryConfig struct {
	StoreID       string         `json:"store_id"`
	DeliveryZones []DeliveryZone `json:"delivery_zones"`
	Coordinates   Location       `json:"coordinates"`
}
