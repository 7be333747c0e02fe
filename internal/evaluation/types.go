package evaluation

import "time"

// Intent represents the detected search intent category.
type Intent string

const (
	IntentBuy     Intent = "buy"     // e.g., "quiero comprar una laptop"
	IntentCompare Intent = "compare" // e.g., "laptop vs tablet"
	IntentBrowse  Intent = "browse"  // e.g., "ver muebles para la sala"
	IntentPrice   Intent = "price"   // e.g., "oferta de auriculares"
	IntentInfo    Intent = "info"    // e.g., "caracteristicas del celular"
)

// ValidIntents returns all valid intent values.
func ValidIntents() []Intent {
	return []Intent{IntentBuy, IntentCompare, IntentBrowse, IntentPrice, IntentInfo}
}

// IsValid checks if the intent value is one of the defined constants.
func (i Intent) IsValid() bool {
	switch i {
	case IntentBuy, IntentCompare, IntentBrowse, IntentPrice, IntentInfo:
		return true
	}
	return false
}

// GoldenQuery represents a labeled test query with expected outcomes.
type GoldenQuery struct {
	ID                 string   `json:"id"`
	Query              string   `json:"query"`
	Intent             Intent   `json:"intent"`
	ExpectedCategories []string `json:"expected_categories"`
	Difficulty         string   `json:"difficulty"` // easy, medium, hard
}

// EvalResult holds the evaluation outcome for a single query.
type EvalResult struct {
	QueryID            string
	Query              string
	ExpectedIntent     Intent
	DetectedIntent     Intent
	IntentCorrect      bool
	CategoryRecall     float64
	DetectedCategories []string
	Latency            time.Duration
}

// EvalSummary holds aggregate metrics across all golden queries.
type EvalSummary struct {
	TotalQueries      int
	IntentAccuracy    float64
	AvgCategoryRecall float64
	AvgLatency        time.Duration
	QueriesWithHits   int // queries that detected at least one category
	ByIntent          map[Intent]*IntentSummary
}

// IntentSummary holds metrics grouped by expected intent.
type IntentSummary struct {
	Count             int
	IntentAccuracy    float64
	AvgCategoryRecall float64
}
