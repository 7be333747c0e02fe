package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mercavia/marketplace-intelligence/internal/domain/entities"
	"github.com/mercavia/marketplace-intelligence/internal/domain/providers"
)

// Default projection limits.
const (
	defaultMostViewedProducts = 10
	defaultMostViewedStores   = 5
	defaultRecentSearches     = 10
)

// Affinity weighting: recency and frequency dominate, dwell time refines.
const (
	affinityRecencyWeight   = 0.4
	affinityFrequencyWeight = 0.4
	affinityDurationWeight  = 0.2
)

// ViewStats aggregates the view events for a single product or store.
type ViewStats struct {
	ID              string
	ViewCount       int
	TotalDurationMs int64
	FirstViewedMs   int64
	LastViewedMs    int64
}

// CategoryInterest is a behavior-derived interest score for a category.
type CategoryInterest struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// AffinityService derives per-product interest scores and behavior
// projections from the event log. Scores are recomputed on demand and
// never stored.
type AffinityService struct {
	tracker *BehaviorTrackingService
	catalog providers.CatalogProvider
}

// NewAffinityService creates an affinity calculator over the tracker's log.
func NewAffinityService(tracker *BehaviorTrackingService, catalog providers.CatalogProvider) *AffinityService {
	return &AffinityService{tracker: tracker, catalog: catalog}
}

// ProductAffinity estimates the user's interest in a product from view
// recency, frequency, and dwell time. Returns 0 for never-viewed products.
func (s *AffinityService) ProductAffinity(ctx context.Context, productID string) float64 {
	stats := productViewStats(s.tracker.Read(ctx))[productID]
	if stats == nil {
		return 0
	}

	recency := recencyScore(stats.LastViewedMs)
	frequency := float64(stats.ViewCount) / 10
	if frequency > 1 {
		frequency = 1
	}
	// Normalize dwell time to minutes, capped at one minute-equivalent.
	duration := float64(stats.TotalDurationMs) / 60000
	if duration > 1 {
		duration = 1
	}

	return affinityRecencyWeight*recency + affinityFrequencyWeight*frequency + affinityDurationWeight*duration
}

// recencyScore tiers the time since the last view: today counts full,
// interest decays over a week and a month.
func recencyScore(lastViewedMs int64) float64 {
	daysSince := float64(time.Now().UnixMilli()-lastViewedMs) / (1000 * 60 * 60 * 24)
	switch {
	case daysSince <= 1:
		return 1.0
	case daysSince <= 7:
		return 0.8
	case daysSince <= 30:
		return 0.5
	default:
		return 0.2
	}
}

// CategoryInterests sums view counts per product category, descending by
// score. Ties keep the keyword-table category order; products missing from
// the catalog are skipped.
func (s *AffinityService) CategoryInterests(ctx context.Context) []CategoryInterest {
	eventLog := s.tracker.Read(ctx)

	scores := make(map[string]float64)
	var order []string
	for _, view := range eventLog.ProductViews {
		product, err := s.catalog.ProductByID(ctx, view.ProductID)
		if err != nil {
			continue
		}
		category := strings.ToLower(product.Category)
		if _, seen := scores[category]; !seen {
			order = append(order, category)
		}
		scores[category]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return categoryRank(order[i]) < categoryRank(order[j])
	})

	interests := make([]CategoryInterest, 0, len(order))
	for _, category := range order {
		interests = append(interests, CategoryInterest{Category: category, Score: scores[category]})
	}
	sort.SliceStable(interests, func(i, j int) bool {
		return interests[i].Score > interests[j].Score
	})
	return interests
}

// MostViewedProducts returns the top products by view count. A non-positive
// limit selects the default of 10.
func (s *AffinityService) MostViewedProducts(ctx context.Context, limit int) []ViewStats {
	if limit <= 0 {
		limit = defaultMostViewedProducts
	}
	return topViewStats(productViewStats(s.tracker.Read(ctx)), limit)
}

// MostViewedStores returns the top stores by view count. A non-positive
// limit selects the default of 5.
func (s *AffinityService) MostViewedStores(ctx context.Context, limit int) []ViewStats {
	if limit <= 0 {
		limit = defaultMostViewedStores
	}

	eventLog := s.tracker.Read(ctx)
	stats := make(map[string]*ViewStats)
	var order []string
	for _, view := range eventLog.StoreViews {
		entry := stats[view.StoreID]
		if entry == nil {
			entry = &ViewStats{ID: view.StoreID, FirstViewedMs: view.TimestampMs}
			stats[view.StoreID] = entry
			order = append(order, view.StoreID)
		}
		entry.ViewCount++
		entry.TotalDurationMs += view.DurationMs
		entry.LastViewedMs = view.TimestampMs
	}
	return topViewStatsOrdered(stats, order, limit)
}

// RecentSearches returns the most recent searches, newest first. A
// non-positive limit selects the default of 10.
func (s *AffinityService) RecentSearches(ctx context.Context, limit int) []entities.SearchEvent {
	if limit <= 0 {
		limit = defaultRecentSearches
	}

	searches := s.tracker.Read(ctx).Searches
	recent := make([]entities.SearchEvent, 0, limit)
	for i := len(searches) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, searches[i])
	}
	return recent
}

// productViewStats aggregates the raw product view events per product,
// preserving first-view order for deterministic ties.
func productViewStats(eventLog *entities.EventLog) map[string]*ViewStats {
	stats := make(map[string]*ViewStats)
	for _, view := range eventLog.ProductViews {
		entry := stats[view.ProductID]
		if entry == nil {
			entry = &ViewStats{ID: view.ProductID, FirstViewedMs: view.TimestampMs}
			stats[view.ProductID] = entry
		}
		entry.ViewCount++
		entry.TotalDurationMs += view.DurationMs
		entry.LastViewedMs = view.TimestampMs
	}
	return stats
}

func topViewStats(stats map[string]*ViewStats, limit int) []ViewStats {
	order := make([]string, 0, len(stats))
	for id := range stats {
		order = append(order, id)
	}
	// Map iteration order is random; anchor on first-view time before the
	// stable sort by count.
	sort.Slice(order, func(i, j int) bool {
		return stats[order[i]].FirstViewedMs < stats[order[j]].FirstViewedMs
	})
	return topViewStatsOrdered(stats, order, limit)
}

func topViewStatsOrdered(stats map[string]*ViewStats, order []string, limit int) []ViewStats {
	ranked := make([]ViewStats, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, *stats[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ViewCount > ranked[j].ViewCount
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
