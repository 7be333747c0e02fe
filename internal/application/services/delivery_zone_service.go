package services

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/mercavia/marketplace-intelligence/internal/domain/entities"
	"github.com/mercavia/marketplace-intelligence/internal/domain/providers"
	"github.com/mercavia/marketplace-intelligence/internal/infrastructure/observability"
	apperrors "github.com/mercavia/marketplace-intelligence/pkg/errors"
)

const earthRadiusKm = 6371

// ZoneDetection is the result of locating a point against a store's
// configured zones. Zone is nil when no zone contains the point; DistanceKm
// to the store's base coordinate is always populated.
type ZoneDetection struct {
	Zone       *entities.DeliveryZone `json:"zone,omitempty"`
	DistanceKm float64                `json:"distance_km"`
}

// DeliveryQuote is the delivery price for a point inside a store's zone.
type DeliveryQuote struct {
	Price         float64 `json:"price"`
	ZoneName      string  `json:"zone_name"`
	EstimatedTime string  `json:"estimated_time"`
}

// DeliveryZoneService locates user coordinates against per-store delivery
// zone polygons.
type DeliveryZoneService struct {
	configs providers.DeliveryConfigProvider
}

// NewDeliveryZoneService creates a zone detector over the given config source.
func NewDeliveryZoneService(configs providers.DeliveryConfigProvider) *DeliveryZoneService {
	return &DeliveryZoneService{configs: configs}
}

// DetectZone finds the first configured zone containing the point. Zones may
// overlap; the configured order decides. The distance to the store's base
// coordinate is returned whether or not a zone matches.
func (s *DeliveryZoneService) DetectZone(point entities.Location, config *entities.StoreDeliveryConfig) ZoneDetection {
	detection := ZoneDetection{
		DistanceKm: haversineKm(point, config.Coordinates),
	}
	for i := range config.DeliveryZones {
		if pointInPolygon(point, config.DeliveryZones[i].Coordinates) {
			detection.Zone = &config.DeliveryZones[i]
			break
		}
	}
	return detection
}

// PriceForLocation loads the store's zone configuration and quotes delivery
// to the point. It returns nil both when the store has no configuration and
// when the point falls outside every zone; callers cannot tell the two
// apart from this call alone.
func (s *DeliveryZoneService) PriceForLocation(ctx context.Context, point entities.Location, storeID string) (*DeliveryQuote, error) {
	ctx, span := observability.StartSpan(ctx, "DeliveryZoneService.PriceForLocation")
	defer span.End()

	config, err := s.configs.DeliveryConfig(ctx, storeID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		observability.RecordError(span, err)
		log.Warn().Err(err).Str("store_id", storeID).Msg("failed to load delivery config")
		return nil, err
	}

	detection := s.DetectZone(point, config)
	if detection.Zone == nil {
		return nil, nil
	}
	return &DeliveryQuote{
		Price:         detection.Zone.Price,
		ZoneName:      detection.Zone.Name,
		EstimatedTime: detection.Zone.EstimatedTime,
	}, nil
}

// haversineKm computes the great-circle distance between two coordinates.
func haversineKm(from entities.Location, to entities.Location) float64 {
	dLat := degreesToRadians(to.Latitude - from.Latitude)
	dLng := degreesToRadians(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(from.Latitude))*math.Cos(degreesToRadians(to.Latitude))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// pointInPolygon is the standard ray-casting containment test. The polygon
// is implicitly closed; fewer than 3 vertices never contain anything.
func pointInPolygon(point entities.Location, polygon []entities.Coordinate) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		xi, yi := polygon[i].Lat, polygon[i].Lng
		xj, yj := polygon[j].Lat, polygon[j].Lng

		intersects := (yi > point.Longitude) != (yj > point.Longitude) &&
			point.Latitude < (xj-xi)*(point.Longitude-yi)/(yj-yi)+xi
		if intersects {
			inside = !inside
		}
		j = i
	}
	return inside
}
