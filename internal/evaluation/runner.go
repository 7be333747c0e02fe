package evaluation

import (
	"time"
)

// AnalyzeFunc runs the query analyzer over one query and reports the
// detected intent and category names. The wrapper lives at the call site so
// this package stays decoupled from the analyzer implementation.
type AnalyzeFunc func(query string) (Intent, []string)

// Runner runs evaluation across a set of golden queries.
type Runner struct {
	analyze AnalyzeFunc
}

func NewRunner(analyze AnalyzeFunc) *Runner {
	return &Runner{analyze: analyze}
}

func (r *Runner) Run(queries []GoldenQuery) (*EvalSummary, []EvalResult) {
	summary := &EvalSummary{
		TotalQueries: len(queries),
		ByIntent:     make(map[Intent]*IntentSummary),
	}
	results := make([]EvalResult, 0, len(queries))

	for _, gq := range queries {
		start := time.Now()
		detectedIntent, detectedCategories := r.analyze(gq.Query)
		duration := time.Since(start)

		result := EvalResult{
			QueryID:            gq.ID,
			Query:              gq.Query,
			ExpectedIntent:     gq.Intent,
			DetectedIntent:     detectedIntent,
			IntentCorrect:      detectedIntent == gq.Intent,
			CategoryRecall:     RecallAtK(gq.ExpectedCategories, detectedCategories, 10),
			DetectedCategories: detectedCategories,
			Latency:            duration,
		}

		results = append(results, result)
		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, results
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	if res.IntentCorrect {
		s.IntentAccuracy++
	}
	s.AvgCategoryRecall += res.CategoryRecall
	s.AvgLatency += res.Latency
	if len(res.DetectedCategories) > 0 {
		s.QueriesWithHits++
	}

	byIntent := s.ByIntent[res.ExpectedIntent]
	if byIntent == nil {
		byIntent = &IntentSummary{}
		s.ByIntent[res.ExpectedIntent] = byIntent
	}
	byIntent.Count++
	if res.IntentCorrect {
		byIntent.IntentAccuracy++
	}
	byIntent.AvgCategoryRecall += res.CategoryRecall
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalQueries > 0 {
		n := float64(s.TotalQueries)
		s.IntentAccuracy /= n
		s.AvgCategoryRecall /= n
		s.AvgLatency /= time.Duration(s.TotalQueries)
	}
	for _, byIntent := range s.ByIntent {
		if byIntent.Count > 0 {
			n := float64(byIntent.Count)
			byIntent.IntentAccuracy /= n
			byIntent.AvgCategoryRecall /= n
		}
	}
}
