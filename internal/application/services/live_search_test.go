package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveSearch_OnlyLastQueryRuns(t *testing.T) {
	ctx := context.Background()
	recommender, tracker := newTestRecommender(t)

	var mu sync.Mutex
	var delivered []*RecommendationResult
	search := NewLiveSearch(recommender, 10, func(result *RecommendationResult) {
		mu.Lock()
		delivered = append(delivered, result)
		mu.Unlock()
	})
	defer search.Close()

	search.Input(ctx, "c")
	search.Input(ctx, "ce")
	search.Input(ctx, "celular")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(delivered) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	result := delivered[0]
	mu.Unlock()
	assert.Equal(t, "celular", result.Analysis.OriginalQuery)

	// Only the settled query was tracked as a search.
	searches := tracker.Read(ctx).Searches
	require.Len(t, searches, 1)
	assert.Equal(t, "celular", searches[0].Query)
}

func TestLiveSearch_EmptyQueryCancelsPendingRun(t *testing.T) {
	ctx := context.Background()
	recommender, tracker := newTestRecommender(t)

	search := NewLiveSearch(recommender, 10, func(*RecommendationResult) {
		t.Error("no result should be delivered")
	})
	defer search.Close()

	search.Input(ctx, "celular")
	search.Input(ctx, "")

	time.Sleep(liveSearchDelay + 200*time.Millisecond)
	assert.Empty(t, tracker.Read(ctx).Searches)
}

func TestLiveSearch_CloseCancelsPendingRun(t *testing.T) {
	ctx := context.Background()
	recommender, tracker := newTestRecommender(t)

	search := NewLiveSearch(recommender, 10, func(*RecommendationResult) {
		t.Error("no result should be delivered")
	})

	search.Input(ctx, "celular")
	search.Close()

	time.Sleep(liveSearchDelay + 200*time.Millisecond)
	assert.Empty(t, tracker.Read(ctx).Searches)
}
