package services

import (
	"context"
	"time"

	"github.com/mercavia/marketplace-intelligence/pkg/debounce"
)

// Typing pause before a pending query is actually recommended.
const liveSearchDelay = 500 * time.Millisecond

// LiveSearch drives search-as-you-type: every keystroke updates the pending
// query, and recommendations run only once typing pauses for the debounce
// delay. Superseded keystrokes never reach the recommender or the event
// log, so half-typed queries are not tracked as searches.
type LiveSearch struct {
	recommender *RecommendationService
	debouncer   *debounce.Debouncer
	limit       int
	deliver     func(*RecommendationResult)
}

// NewLiveSearch creates a live search session. Results are delivered to the
// given callback from a timer goroutine once a query settles.
func NewLiveSearch(recommender *RecommendationService, limit int, deliver func(*RecommendationResult)) *LiveSearch {
	return &LiveSearch{
		recommender: recommender,
		debouncer:   debounce.New(liveSearchDelay),
		limit:       limit,
		deliver:     deliver,
	}
}

// Input registers the current state of the query text. An empty query
// cancels any pending run instead of recommending everything.
func (l *LiveSearch) Input(ctx context.Context, query string) {
	if query == "" {
		l.debouncer.Stop()
		return
	}
	l.debouncer.Trigger(func() {
		l.deliver(l.recommender.Recommend(ctx, query, l.limit))
	})
}

// Close cancels any pending recommendation run.
func (l *LiveSearch) Close() {
	l.debouncer.Stop()
}
