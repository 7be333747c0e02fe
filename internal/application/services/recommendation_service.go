package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mercavia/marketplace-intelligence/internal/domain/entities"
	"github.com/mercavia/marketplace-intelligence/internal/domain/providers"
	"github.com/mercavia/marketplace-intelligence/internal/infrastructure/observability"
)

const defaultRecommendationLimit = 10

// ProductRecommendation is a scored product with the human-readable reasons
// that contributed to its score, in evaluation order.
type ProductRecommendation struct {
	Product    *entities.Product `json:"product"`
	Score      float64          `json:"score"`
	Reasons    []string         `json:"reasons"`
	Confidence float64          `json:"confidence"`
}

// StoreRecommendation is a scored store with its contributing reasons.
type StoreRecommendation struct {
	Store      *entities.Store `json:"store"`
	Score      float64        `json:"score"`
	Reasons    []string       `json:"reasons"`
	Confidence float64        `json:"confidence"`
}

// RecommendationResult is the full response for one recommendation request.
type RecommendationResult struct {
	Products    []ProductRecommendation `json:"products"`
	Stores      []StoreRecommendation   `json:"stores"`
	Analysis    *QueryAnalysis          `json:"analysis"`
	Explanation string                  `json:"explanation"`
}

// RecommendationService ranks catalog products and stores for a query by
// combining the query analysis with the user's behavior state. Scoring is
// additive and reproducible: the same query against the same event log
// always yields the same ranking and the same reasons.
type RecommendationService struct {
	analyzer *QueryAnalysisService
	tracker  *BehaviorTrackingService
	affinity *AffinityService
	catalog  providers.CatalogProvider
	stores   providers.StoreDirectoryProvider
	flags    *FeatureFlags
	metrics  *observability.Metrics
}

// NewRecommendationService wires the recommendation pipeline together.
func NewRecommendationService(
	analyzer *QueryAnalysisService,
	tracker *BehaviorTrackingService,
	affinity *AffinityService,
	catalog providers.CatalogProvider,
	stores providers.StoreDirectoryProvider,
	flags *FeatureFlags,
) *RecommendationService {
	return &RecommendationService{
		analyzer: analyzer,
		tracker:  tracker,
		affinity: affinity,
		catalog:  catalog,
		stores:   stores,
		flags:    flags,
	}
}

// SetMetrics attaches application metrics for request counting.
func (s *RecommendationService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Recommend is the single entry point the search surface calls. It analyzes
// the query, scores products and stores, records the search into the event
// log, and explains the result. A non-positive limit selects the default
// of 10; store results are capped at ceil(limit/3).
func (s *RecommendationService) Recommend(ctx context.Context, query string, limit int) *RecommendationResult {
	ctx, span := observability.StartSpan(ctx, "RecommendationService.Recommend")
	defer span.End()
	start := time.Now()

	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	analysis := s.analyzer.Analyze(query)
	interests := s.affinity.CategoryInterests(ctx)
	viewStats := productViewStats(s.tracker.Read(ctx))
	viewedByCategory := s.viewedProductsByCategory(ctx, viewStats)

	products := s.recommendProducts(ctx, analysis, interests, viewStats, viewedByCategory, limit)
	storeLimit := int(math.Ceil(float64(limit) / 3))
	stores := s.recommendStores(ctx, analysis, interests, storeLimit)

	result := &RecommendationResult{
		Products:    products,
		Stores:      stores,
		Analysis:    analysis,
		Explanation: s.Explain(analysis, interests),
	}

	s.tracker.TrackSearch(ctx, query, len(products)+len(stores))
	observability.RecordRecommendMetric(ctx, s.metrics, len(products), len(stores), time.Since(start))

	observability.LoggerFromContext(ctx).Debug().
		Str("query", query).
		Int("products", len(products)).
		Int("stores", len(stores)).
		Msg("recommendation generated")

	return result
}

// viewedProductsByCategory counts the distinct previously viewed products
// per catalog category. Viewed products missing from the catalog are skipped.
func (s *RecommendationService) viewedProductsByCategory(ctx context.Context, viewStats map[string]*ViewStats) map[string]int {
	counts := make(map[string]int)
	for productID := range viewStats {
		product, err := s.catalog.ProductByID(ctx, productID)
		if err != nil {
			continue
		}
		counts[strings.ToLower(product.Category)]++
	}
	return counts
}

func (s *RecommendationService) recommendProducts(
	ctx context.Context,
	analysis *QueryAnalysis,
	interests []CategoryInterest,
	viewStats map[string]*ViewStats,
	viewedByCategory map[string]int,
	limit int,
) []ProductRecommendation {
	products, err := s.catalog.Products(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog unavailable, no product recommendations")
		return nil
	}

	var recommendations []ProductRecommendation
	for _, product := range products {
		if s.flags.ExcludeViewedEnabled() && viewStats[product.ID] != nil {
			continue
		}

		score := 0.0
		var reasons []string

		nlpScore, nlpReasons := scoreProductAgainstQuery(product, analysis)
		score += nlpScore
		reasons = append(reasons, nlpReasons...)

		behaviorScore, behaviorReasons := scoreProductAgainstBehavior(product, interests, viewedByCategory)
		score += behaviorScore
		reasons = append(reasons, behaviorReasons...)

		affinityScore := s.affinity.ProductAffinity(ctx, product.ID)
		score += affinityScore * 0.3
		if affinityScore > 0.5 {
			reasons = append(reasons, "Has mostrado interés en este producto anteriormente")
		}

		if score > 0 {
			recommendations = append(recommendations, ProductRecommendation{
				Product:    product,
				Score:      score,
				Reasons:    reasons,
				Confidence: math.Min(score/3, 1),
			})
		}
	}

	// Stable sort so equal scores keep catalog order.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations
}

// scoreProductAgainstQuery scores one product against the analyzed query:
// category match, literal keyword matches, sale-type match, and urgency for
// immediately available products.
func scoreProductAgainstQuery(product *entities.Product, analysis *QueryAnalysis) (float64, []string) {
	score := 0.0
	var reasons []string
	productCategory := strings.ToLower(product.Category)

	for _, match := range analysis.Categories {
		if match.Category == productCategory {
			score += match.Confidence * 2
			reasons = append(reasons, fmt.Sprintf("Coincide con la categoría %q", match.Category))
			break
		}
	}

	name := normalizeText(product.Name)
	description := normalizeText(product.Description)
	var keywordMatches []string
	for _, keyword := range analysis.Keywords {
		if strings.Contains(name, keyword) || strings.Contains(description, keyword) {
			keywordMatches = append(keywordMatches, keyword)
		}
	}
	if len(keywordMatches) > 0 {
		score += float64(len(keywordMatches)) * 0.3
		reasons = append(reasons, "Coincide con palabras clave: "+strings.Join(keywordMatches, ", "))
	}

	if analysis.SaleType != "" && analysis.SaleType == product.SaleType {
		score += 1
		reasons = append(reasons, "Tipo de venta coincide: "+string(analysis.SaleType))
	}

	if analysis.Urgency > 0.5 && product.SaleType == entities.SaleTypeDirect {
		score += analysis.Urgency
		reasons = append(reasons, "Disponible para compra inmediata")
	}

	return score, reasons
}

// scoreProductAgainstBehavior scores one product against recorded behavior:
// category interest and distinct previously viewed products in the same
// category.
func scoreProductAgainstBehavior(
	product *entities.Product,
	interests []CategoryInterest,
	viewedByCategory map[string]int,
) (float64, []string) {
	score := 0.0
	var reasons []string
	productCategory := strings.ToLower(product.Category)

	for _, interest := range interests {
		if interest.Category == productCategory {
			score += math.Min(interest.Score/10, 1)
			reasons = append(reasons, fmt.Sprintf("Te interesa la categoría %q", interest.Category))
			break
		}
	}

	if similarViewed := viewedByCategory[productCategory]; similarViewed > 0 {
		score += math.Min(float64(similarViewed)*0.2, 1)
		reasons = append(reasons, "Has visto productos similares recientemente")
	}

	return score, reasons
}

func (s *RecommendationService) recommendStores(
	ctx context.Context,
	analysis *QueryAnalysis,
	interests []CategoryInterest,
	limit int,
) []StoreRecommendation {
	stores, err := s.stores.Stores(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("store directory unavailable, no store recommendations")
		return nil
	}

	var recommendations []StoreRecommendation
	for _, store := range stores {
		score := 0.0
		var reasons []string

		if storeMatchesInterests(store, interests) {
			score += 1
			reasons = append(reasons, "Tienda especializada en tus categorías de interés")
		}

		if storeMatchesQueryCategories(store, analysis.Categories) {
			score += 1.5
			reasons = append(reasons, "Coincide con lo que estás buscando")
		}

		if store.Rating >= 4.5 {
			score += 0.5
			reasons = append(reasons, "Tienda con excelentes calificaciones")
		}

		if score > 0 {
			recommendations = append(recommendations, StoreRecommendation{
				Store:      store,
				Score:      score,
				Reasons:    reasons,
				Confidence: math.Min(score/3, 1),
			})
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	return recommendations
}

func storeMatchesInterests(store *entities.Store, interests []CategoryInterest) bool {
	for _, category := range store.Categories {
		lowered := strings.ToLower(category)
		for _, interest := range interests {
			if strings.Contains(lowered, interest.Category) || strings.Contains(interest.Category, lowered) {
				return true
			}
		}
	}
	return false
}

func storeMatchesQueryCategories(store *entities.Store, matches []CategoryMatch) bool {
	for _, match := range matches {
		for _, category := range store.Categories {
			lowered := strings.ToLower(category)
			if strings.Contains(lowered, match.Category) || strings.Contains(match.Category, lowered) {
				return true
			}
		}
	}
	return false
}

// Explain builds the user-facing summary of why the results look the way
// they do. Sentence order is fixed: detected categories, then intent when
// its confidence exceeds 0.5, then the top three interest categories.
// Returns an empty string when nothing qualifies.
func (s *RecommendationService) Explain(analysis *QueryAnalysis, interests []CategoryInterest) string {
	var sentences []string

	if len(analysis.Categories) > 0 {
		names := make([]string, 0, len(analysis.Categories))
		for _, match := range analysis.Categories {
			names = append(names, match.Category)
		}
		sentences = append(sentences, "Detecté que buscas productos de: "+strings.Join(names, ", "))
	}

	if analysis.Intent.Confidence > 0.5 {
		sentences = append(sentences, "Tu intención parece ser: "+string(analysis.Intent.Kind))
	}

	if len(interests) > 0 {
		top := interests
		if len(top) > 3 {
			top = top[:3]
		}
		names := make([]string, 0, len(top))
		for _, interest := range top {
			names = append(names, interest.Category)
		}
		sentences = append(sentences, "Basándome en tu historial, te interesan: "+strings.Join(names, ", "))
	}

	return strings.Join(sentences, ". ")
}
