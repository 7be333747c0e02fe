package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mercavia/marketplace-intelligence/internal/domain/entities"
	"github.com/mercavia/marketplace-intelligence/internal/domain/providers"
	"github.com/mercavia/marketplace-intelligence/internal/infrastructure/observability"
	apperrors "github.com/mercavia/marketplace-intelligence/pkg/errors"
)

const behaviorLogKey = "user-behavior"

// Per-variant log caps. Trimming always drops the oldest entries first.
const (
	maxProductViews = 100
	maxStoreViews   = 50
	maxSearches     = 50
	maxClicks       = 100
	maxCartActions  = 100
)

// BehaviorTrackingService owns the append-only, capped log of user
// interaction events, the single source of truth for behavior-derived
// features. Every mutation rewrites the whole log in storage; logs are
// capped and small, so whole-log writes stay cheap.
//
// Persistence is best-effort: a write failure is logged and swallowed, and
// the in-memory state for the current call remains correct. Malformed
// stored data fails soft to an empty log.
type BehaviorTrackingService struct {
	storage providers.StorageProvider
	metrics *observability.Metrics
}

// NewBehaviorTrackingService creates a tracker over the given storage.
func NewBehaviorTrackingService(storage providers.StorageProvider) *BehaviorTrackingService {
	return &BehaviorTrackingService{storage: storage}
}

// SetMetrics attaches application metrics for append counting.
func (s *BehaviorTrackingService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Read returns the persisted event log, or an empty log when nothing is
// stored or the stored blob is unreadable. It never fails.
func (s *BehaviorTrackingService) Read(ctx context.Context) *entities.EventLog {
	data, err := s.storage.Get(ctx, behaviorLogKey)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			log.Warn().Err(err).Msg("failed to read behavior log, starting empty")
		}
		return entities.NewEventLog()
	}

	eventLog := entities.NewEventLog()
	if err := json.Unmarshal(data, eventLog); err != nil {
		log.Warn().Err(err).Msg("discarding malformed behavior log")
		return entities.NewEventLog()
	}
	return eventLog
}

// Append adds an event to its collection, trims the collection to its cap,
// and persists the whole log. Events are immutable once appended; missing
// IDs and timestamps are filled in here.
func (s *BehaviorTrackingService) Append(ctx context.Context, event entities.InteractionEvent) {
	eventLog := s.Read(ctx)
	now := time.Now().UnixMilli()

	switch e := event.(type) {
	case entities.ProductViewEvent:
		fillEventDefaults(&e.ID, &e.TimestampMs, now)
		eventLog.ProductViews = append(eventLog.ProductViews, e)
		eventLog.ProductViews = trimOldest(eventLog.ProductViews, maxProductViews)
	case entities.StoreViewEvent:
		fillEventDefaults(&e.ID, &e.TimestampMs, now)
		eventLog.StoreViews = append(eventLog.StoreViews, e)
		eventLog.StoreViews = trimOldest(eventLog.StoreViews, maxStoreViews)
	case entities.SearchEvent:
		fillEventDefaults(&e.ID, &e.TimestampMs, now)
		eventLog.Searches = append(eventLog.Searches, e)
		eventLog.Searches = trimOldest(eventLog.Searches, maxSearches)
	case entities.CartActionEvent:
		fillEventDefaults(&e.ID, &e.TimestampMs, now)
		eventLog.CartActions = append(eventLog.CartActions, e)
		eventLog.CartActions = trimOldest(eventLog.CartActions, maxCartActions)
	case entities.ClickEvent:
		fillEventDefaults(&e.ID, &e.TimestampMs, now)
		eventLog.Clicks = append(eventLog.Clicks, e)
		eventLog.Clicks = trimOldest(eventLog.Clicks, maxClicks)
	default:
		log.Warn().Str("kind", string(event.Kind())).Msg("dropping event of unknown kind")
		return
	}

	observability.RecordEventAppend(ctx, s.metrics, string(event.Kind()))
	s.persist(ctx, eventLog)
}

// TrackProductView records a completed product view with its duration.
func (s *BehaviorTrackingService) TrackProductView(ctx context.Context, productID, source string, duration time.Duration) {
	s.Append(ctx, entities.ProductViewEvent{
		ProductID:  productID,
		Source:     source,
		DurationMs: duration.Milliseconds(),
	})
}

// TrackStoreView records a completed store view with its duration.
func (s *BehaviorTrackingService) TrackStoreView(ctx context.Context, storeID string, duration time.Duration) {
	s.Append(ctx, entities.StoreViewEvent{
		StoreID:    storeID,
		DurationMs: duration.Milliseconds(),
	})
}

// TrackSearch records a search and how many results it produced.
func (s *BehaviorTrackingService) TrackSearch(ctx context.Context, query string, resultCount int) {
	s.Append(ctx, entities.SearchEvent{
		Query:       query,
		ResultCount: resultCount,
	})
}

// TrackCartAction records a product being added to or removed from the cart.
func (s *BehaviorTrackingService) TrackCartAction(ctx context.Context, action entities.CartActionKind, productID string) {
	s.Append(ctx, entities.CartActionEvent{
		Action:    action,
		ProductID: productID,
	})
}

// TrackProductClick records a click on a product card.
func (s *BehaviorTrackingService) TrackProductClick(ctx context.Context, productID, source string) {
	s.Append(ctx, entities.ClickEvent{
		ProductID: productID,
		Source:    source,
	})
}

// StartProductView opens a view session for a product. The view event is
// recorded when End is called; a session that never ends is never recorded.
func (s *BehaviorTrackingService) StartProductView(productID, source string) *ViewSession {
	return &ViewSession{
		record: func(ctx context.Context, duration time.Duration) {
			s.TrackProductView(ctx, productID, source, duration)
		},
		startedAt: time.Now(),
	}
}

// StartStoreView opens a view session for a store.
func (s *BehaviorTrackingService) StartStoreView(storeID string) *ViewSession {
	return &ViewSession{
		record: func(ctx context.Context, duration time.Duration) {
			s.TrackStoreView(ctx, storeID, duration)
		},
		startedAt: time.Now(),
	}
}

func (s *BehaviorTrackingService) persist(ctx context.Context, eventLog *entities.EventLog) {
	data, err := json.Marshal(eventLog)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode behavior log")
		observability.RecordStorageError(ctx, s.metrics, behaviorLogKey)
		return
	}
	if err := s.storage.Set(ctx, behaviorLogKey, data); err != nil {
		// The event is dropped for persistence purposes only; callers are
		// not notified.
		log.Warn().Err(err).Msg("failed to persist behavior log")
		observability.RecordStorageError(ctx, s.metrics, behaviorLogKey)
	}
}

func fillEventDefaults(id *string, timestampMs *int64, nowMs int64) {
	if *id == "" {
		*id = uuid.New().String()
	}
	if *timestampMs == 0 {
		*timestampMs = nowMs
	}
}

func trimOldest[E any](events []E, limit int) []E {
	if len(events) <= limit {
		return events
	}
	trimmed := make([]E, limit)
	copy(trimmed, events[len(events)-limit:])
	return trimmed
}

// ViewSession measures how long a product or store stayed in view. End is
// idempotent: the first call records the event, later calls are no-ops.
// This mirrors the view lifecycle where either an explicit "view ended"
// signal or the page-exit handler fires first.
type ViewSession struct {
	record    func(ctx context.Context, duration time.Duration)
	startedAt time.Time
	once      sync.Once
}

// End closes the session and records the view event with its duration.
func (v *ViewSession) End(ctx context.Context) {
	v.once.Do(func() {
		v.record(ctx, time.Since(v.startedAt))
	})
}
