package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercavia/marketplace-intelligence/internal/adapters/storage"
)

func newTestRecommender(t *testing.T) (*RecommendationService, *BehaviorTrackingService) {
	t.Helper()
	catalog := testCatalog()
	tracker := NewBehaviorTrackingService(storage.NewMemoryAdapter())
	affinity := NewAffinityService(tracker, catalog)
	recommender := NewRecommendationService(
		NewQueryAnalysisService(),
		tracker,
		affinity,
		catalog,
		catalog,
		NewFeatureFlags(),
	)
	return recommender, tracker
}

func TestRecommend_TechQueryAfterTechViews(t *testing.T) {
	ctx := context.Background()
	recommender, tracker := newTestRecommender(t)

	// Three tech product views, then a tech query with price intent.
	tracker.TrackProductView(ctx, "p1", "list", 10*time.Second)
	tracker.TrackProductView(ctx, "p2", "list", 8*time.Second)
	tracker.TrackProductView(ctx, "p1", "detail", 15*time.Second)

	result := recommender.Recommend(ctx, "necesito un celular barato", 10)

	require.NotEmpty(t, result.Products)
	top := result.Products[0]
	assert.Equal(t, "Tecnología", top.Product.Category)
	assert.Equal(t, "p1", top.Product.ID)

	// Reasons mention the category match and the behavioral interest.
	assert.Contains(t, top.Reasons, `Coincide con la categoría "tecnología"`)
	assert.Contains(t, top.Reasons, `Te interesa la categoría "tecnología"`)

	assert.Contains(t, result.Explanation, "tecnología")
	assert.Contains(t, result.Explanation, "Tu intención parece ser: buy")
}

func TestRecommend_ScoresArePositiveAndOrdered(t *testing.T) {
	ctx := context.Background()
	recommender, _ := newTestRecommender(t)

	result := recommender.Recommend(ctx, "quiero una camisa", 10)

	require.NotEmpty(t, result.Products)
	for i, rec := range result.Products {
		assert.Greater(t, rec.Score, 0.0)
		assert.LessOrEqual(t, rec.Confidence, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Products[i-1].Score, rec.Score)
		}
	}
	assert.Equal(t, "p3", result.Products[0].Product.ID)
}

func TestRecommend_NoMatchYieldsNoProducts(t *testing.T) {
	ctx := context.Background()
	recommender, _ := newTestRecommender(t)

	result := recommender.Recommend(ctx, "xyzzy", 10)

	assert.Empty(t, result.Products)
	// Highly rated stores still surface on the quality bonus alone.
	for _, rec := range result.Stores {
		assert.GreaterOrEqual(t, rec.Store.Rating, 4.5)
		assert.Equal(t, []string{"Tienda con excelentes calificaciones"}, rec.Reasons)
	}
}

func TestRecommend_StoreLimitIsThirdOfProductLimit(t *testing.T) {
	ctx := context.Background()
	recommender, tracker := newTestRecommender(t)

	// Build interest in every category so all stores would qualify.
	tracker.TrackProductView(ctx, "p1", "list", time.Second)
	tracker.TrackProductView(ctx, "p3", "list", time.Second)
	tracker.TrackProductView(ctx, "p4", "list", time.Second)

	result := recommender.Recommend(ctx, "comprar algo bueno", 3)

	// ceil(3/3) = 1 store at most.
	assert.LessOrEqual(t, len(result.Stores), 1)
}

func TestRecommend_StoreScoring(t *testing.T) {
	ctx := context.Background()
	recommender, _ := newTestRecommender(t)

	result := recommender.Recommend(ctx, "necesito un celular", 10)

	require.NotEmpty(t, result.Stores)
	top := result.Stores[0]
	assert.Equal(t, "s1", top.Store.ID)
	// Query category overlap plus the rating bonus.
	assert.Contains(t, top.Reasons, "Coincide con lo que estás buscando")
	assert.Contains(t, top.Reasons, "Tienda con excelentes calificaciones")
	assert.InDelta(t, 2.0, top.Score, 1e-9)
}

func TestRecommend_RecordsSearchEvent(t *testing.T) {
	ctx := context.Background()
	recommender, tracker := newTestRecommender(t)

	result := recommender.Recommend(ctx, "necesito un celular", 10)

	searches := tracker.Read(ctx).Searches
	require.Len(t, searches, 1)
	assert.Equal(t, "necesito un celular", searches[0].Query)
	assert.Equal(t, len(result.Products)+len(result.Stores), searches[0].ResultCount)
}

func TestRecommend_ViewedProductsStayByDefault(t *testing.T) {
	ctx := context.Background()
	recommender, tracker := newTestRecommender(t)

	tracker.TrackProductView(ctx, "p1", "detail", 10*time.Second)

	result := recommender.Recommend(ctx, "necesito un celular", 10)

	ids := make([]string, 0, len(result.Products))
	for _, rec := range result.Products {
		ids = append(ids, rec.Product.ID)
	}
	assert.Contains(t, ids, "p1")
}

func TestRecommend_ExcludeViewedFlag(t *testing.T) {
	t.Setenv("FEATURE_EXCLUDE_VIEWED", "true")

	ctx := context.Background()
	catalog := testCatalog()
	tracker := NewBehaviorTrackingService(storage.NewMemoryAdapter())
	recommender := NewRecommendationService(
		NewQueryAnalysisService(),
		tracker,
		NewAffinityService(tracker, catalog),
		catalog,
		catalog,
		NewFeatureFlags(),
	)

	tracker.TrackProductView(ctx, "p1", "detail", 10*time.Second)

	result := recommender.Recommend(ctx, "necesito un celular", 10)

	for _, rec := range result.Products {
		assert.NotEqual(t, "p1", rec.Product.ID)
	}
}

func TestRecommend_IsReproducible(t *testing.T) {
	ctx := context.Background()
	recommender, tracker := newTestRecommender(t)

	tracker.TrackProductView(ctx, "p1", "list", 5*time.Second)

	first := recommender.Recommend(ctx, "necesito un celular", 10)
	second := recommender.Recommend(ctx, "necesito un celular", 10)

	require.Equal(t, len(first.Products), len(second.Products))
	for i := range first.Products {
		assert.Equal(t, first.Products[i].Product.ID, second.Products[i].Product.ID)
		assert.Equal(t, first.Products[i].Reasons, second.Products[i].Reasons)
	}
	assert.Equal(t, first.Explanation, second.Explanation)
}

func TestExplain_EmptyWhenNothingQualifies(t *testing.T) {
	recommender, _ := newTestRecommender(t)

	analysis := NewQueryAnalysisService().Analyze("xyzzy")
	assert.Empty(t, recommender.Explain(analysis, nil))
}

func TestExplain_FixedSentenceOrder(t *testing.T) {
	recommender, _ := newTestRecommender(t)

	analysis := NewQueryAnalysisService().Analyze("quiero comprar un celular")
	interests := []CategoryInterest{
		{Category: "tecnología", Score: 4},
		{Category: "hogar", Score: 2},
	}

	explanation := recommender.Explain(analysis, interests)
	categoriesIdx := strings.Index(explanation, "Detecté que buscas")
	intentIdx := strings.Index(explanation, "Tu intención parece ser")
	interestsIdx := strings.Index(explanation, "Basándome en tu historial")

	assert.Equal(t, 0, categoriesIdx)
	assert.Greater(t, intentIdx, categoriesIdx)
	assert.Greater(t, interestsIdx, intentIdx)
	assert.Contains(t, explanation, "tecnología, hogar")
}
