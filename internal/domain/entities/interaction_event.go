package entities

// EventKind identifies a variant of InteractionEvent.
type EventKind string

const (
	EventKindProductView EventKind = "product_view"
	EventKindStoreView   EventKind = "store_view"
	EventKindSearch      EventKind = "search"
	EventKindCartAction  EventKind = "cart_action"
	EventKindClick       EventKind = "click"
)

// CartActionKind distinguishes cart additions from removals.
type CartActionKind string

const (
	CartActionAdd    CartActionKind = "add"
	CartActionRemove CartActionKind = "remove"
)

// InteractionEvent is the tagged union over all tracked user interactions.
// Events are immutable once appended: the log only appends and trims.
type InteractionEvent interface {
	Kind() EventKind
	OccurredAtMs() int64
}

// ProductViewEvent records a product detail view and how long it lasted.
type ProductViewEvent struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	DurationMs  int64  `json:"duration_ms"`
	Source      string `json:"source"`
	TimestampMs int64  `json:"timestamp_ms"`
}

func (e ProductViewEvent) Kind() EventKind     { return EventKindProductView }
func (e ProductViewEvent) OccurredAtMs() int64 { return e.TimestampMs }

// StoreViewEvent records a store page view and how long it lasted.
type StoreViewEvent struct {
	ID          string `json:"id"`
	StoreID     string `json:"store_id"`
	DurationMs  int64  `json:"duration_ms"`
	TimestampMs int64  `json:"timestamp_ms"`
}

func (e StoreViewEvent) Kind() EventKind     { return EventKindStoreView }
func (e StoreViewEvent) OccurredAtMs() int64 { return e.TimestampMs }

// SearchEvent records a free-text search and how many results it produced.
type SearchEvent struct {
	ID          string `json:"id"`
	Query       string `json:"query"`
	ResultCount int    `json:"result_count"`
	TimestampMs int64  `json:"timestamp_ms"`
}

func (e SearchEvent) Kind() EventKind     { return EventKindSearch }
func (e SearchEvent) OccurredAtMs() int64 { return e.TimestampMs }

// CartActionEvent records a product being added to or removed from the cart.
type CartActionEvent struct {
	ID          string         `json:"id"`
	Action      CartActionKind `json:"action"`
	ProductID   string         `json:"product_id"`
	TimestampMs int64          `json:"timestamp_ms"`
}

func (e CartActionEvent) Kind() EventKind     { return EventKindCartAction }
func (e CartActionEvent) OccurredAtMs() int64 { return e.TimestampMs }

// ClickEvent records a click on a product card outside the detail page.
type ClickEvent struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	Source      string `json:"source"`
	TimestampMs int64  `json:"timestamp_ms"`
}

func (e ClickEvent) Kind() EventKind     { return EventKindClick }
func (e ClickEvent) OccurredAtMs() int64 { return e.TimestampMs }

// EventLog holds the per-variant, insertion-ordered event collections.
// Each collection is independently capped by the behavior tracking service;
// trimming always drops the oldest entries first.
type EventLog struct {
	ProductViews []ProductViewEvent `json:"product_views"`
	StoreViews   []StoreViewEvent   `json:"store_views"`
	Searches     []SearchEvent      `json:"searches"`
	CartActions  []CartActionEvent  `json:"cart_actions"`
	Clicks       []ClickEvent       `json:"clicks"`
}

// NewEventLog returns an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{}
}
