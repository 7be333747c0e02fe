package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mercavia/marketplace-intelligence/internal/domain/entities"
	"github.com/mercavia/marketplace-intelligence/internal/evaluation"
)

// Sentiment is the coarse sentiment of a search query.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// CategoryMatch is a detected product category with a display confidence.
type CategoryMatch struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// IntentMatch is the detected query intent with a display confidence.
type IntentMatch struct {
	Kind       evaluation.Intent `json:"kind"`
	Confidence float64           `json:"confidence"`
}

// PriceRange is an extracted price constraint. Either bound may be nil.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// QueryAnalysis holds the structured result of analyzing a free-text query.
// It is derived and ephemeral: created fresh per query, never persisted.
type QueryAnalysis struct {
	OriginalQuery   string            `json:"original_query"`
	NormalizedQuery string            `json:"normalized_query"`
	Categories      []CategoryMatch   `json:"categories,omitempty"`
	Intent          IntentMatch       `json:"intent"`
	Sentiment       Sentiment         `json:"sentiment"`
	Urgency         float64           `json:"urgency"`
	PriceRange      *PriceRange       `json:"price_range,omitempty"`
	SaleType        entities.SaleType `json:"sale_type,omitempty"`
	Keywords        []string          `json:"keywords,omitempty"`
}

// keywordEntry pairs a label with its keyword list. Tables are slices, not
// maps: category extraction reports matches in declaration order, and
// intent/urgency/sale-type detection is first-match-wins over that order.
type keywordEntry struct {
	label    string
	keywords []string
}

// Keyword tables are stored pre-normalized (lowercase, no diacritics) so
// they match the normalized query text directly.
var categoryKeywords = []keywordEntry{
	{"tecnología", []string{"telefono", "celular", "movil", "laptop", "computadora", "tablet", "auriculares", "cargador", "cable"}},
	{"ropa", []string{"camisa", "pantalon", "vestido", "zapatos", "zapatillas", "chaqueta", "abrigo", "ropa"}},
	{"hogar", []string{"muebles", "decoracion", "cocina", "bano", "sala", "dormitorio", "jardin"}},
	{"deportes", []string{"deportivo", "ejercicio", "gym", "fitness", "pelota", "bicicleta"}},
	{"comida", []string{"pizza", "hamburguesa", "comida", "restaurante", "delivery", "almuerzo", "cena"}},
	{"libros", []string{"libro", "novela", "educativo", "lectura", "estudio"}},
	{"juguetes", []string{"juguete", "ninos", "bebe", "infantil", "juego"}},
	{"belleza", []string{"maquillaje", "perfume", "crema", "belleza", "cuidado", "cosmetico"}},
}

var intentKeywords = []keywordEntry{
	{string(evaluation.IntentBuy), []string{"comprar", "necesito", "quiero", "busco", "vender"}},
	{string(evaluation.IntentCompare), []string{"comparar", "diferencia", "mejor", "vs", "versus"}},
	{string(evaluation.IntentBrowse), []string{"ver", "mostrar", "explorar", "navegar"}},
	{string(evaluation.IntentPrice), []string{"precio", "costo", "barato", "economico", "oferta", "descuento"}},
	{string(evaluation.IntentInfo), []string{"informacion", "detalles", "caracteristicas", "especificaciones"}},
}

var urgencyTiers = []struct {
	score    float64
	keywords []string
}{
	{0.9, []string{"urgente", "ahora", "ya", "inmediato", "rapido", "hoy"}},
	{0.6, []string{"pronto", "esta semana", "proximo"}},
	{0.2, []string{"algun dia", "cuando pueda", "no urgente"}},
}

var saleTypeKeywords = []keywordEntry{
	{string(entities.SaleTypeDirect), []string{"inmediato", "stock", "disponible", "ahora"}},
	{string(entities.SaleTypeOnOrder), []string{"pedido", "encargar", "hacer", "personalizado"}},
	{string(entities.SaleTypeDelivery), []string{"delivery", "entrega", "domicilio", "envio"}},
}

var (
	positiveWords = []string{"bueno", "excelente", "genial", "perfecto", "increible"}
	negativeWords = []string{"malo", "terrible", "horrible", "pesimo", "awful"}
)

// Filler tokens that would substring-match half the catalog if kept as
// literal keywords.
var ignoredQueryTerms = map[string]struct{}{
	"al": {}, "algo": {}, "con": {}, "de": {}, "del": {}, "el": {}, "en": {},
	"la": {}, "las": {}, "lo": {}, "los": {}, "mi": {}, "para": {}, "por": {},
	"que": {}, "sin": {}, "sobre": {}, "un": {}, "una": {}, "unos": {}, "y": {},
}

var priceTokenPattern = regexp.MustCompile(`\$?(\d+(?:\.\d{2})?)`)

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	unmatchedTermCounterOnce sync.Once
	unmatchedTermCounter     metric.Int64Counter
)

// QueryAnalysisService maps free-text search queries to a structured
// QueryAnalysis. It is stateless and deterministic: the same text always
// yields the same analysis, with no side effects beyond metrics.
type QueryAnalysisService struct{}

// NewQueryAnalysisService creates a new query analysis service.
func NewQueryAnalysisService() *QueryAnalysisService {
	return &QueryAnalysisService{}
}

// Analyze processes raw query text through the full analysis pipeline.
// It is total: any input, including empty or arbitrary Unicode text,
// produces a well-formed analysis and never an error.
func (s *QueryAnalysisService) Analyze(text string) *QueryAnalysis {
	normalized := normalizeText(text)

	analysis := &QueryAnalysis{
		OriginalQuery:   text,
		NormalizedQuery: normalized,
		Sentiment:       SentimentNeutral,
		Urgency:         0.5,
		Intent:          IntentMatch{Kind: evaluation.IntentBrowse, Confidence: 0.3},
	}
	if normalized == "" {
		return analysis
	}

	analysis.Categories = extractCategories(normalized)
	analysis.Intent = detectIntent(normalized)
	analysis.Sentiment = analyzeSentiment(normalized)
	analysis.Urgency = calculateUrgency(normalized)
	analysis.PriceRange = extractPriceRange(normalized)
	analysis.SaleType = detectSaleType(normalized)
	analysis.Keywords = extractKeywords(normalized)

	s.recordUnmatchedTerms(analysis)

	return analysis
}

// normalizeText lowercases, strips diacritics, and trims the input.
func normalizeText(text string) string {
	lowered := strings.ToLower(text)
	stripped, _, err := transform.String(stripDiacritics, lowered)
	if err != nil {
		// Malformed input is kept as-is; matching degrades but never fails.
		stripped = lowered
	}
	return strings.TrimSpace(stripped)
}

func extractCategories(text string) []CategoryMatch {
	var matches []CategoryMatch
	for _, entry := range categoryKeywords {
		hits := 0
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > 0 {
			confidence := 0.5 * float64(hits)
			if confidence > 1 {
				confidence = 1
			}
			matches = append(matches, CategoryMatch{Category: entry.label, Confidence: confidence})
		}
	}
	return matches
}

// detectIntent returns the first intent whose keyword list matches.
// First-match-wins over the table order is the compatibility contract; a
// "price+urgent" query resolves to whichever entry is listed first.
func detectIntent(text string) IntentMatch {
	for _, entry := range intentKeywords {
		hits := 0
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > 0 {
			confidence := 0.6 + 0.2*float64(hits-1)
			if confidence > 1 {
				confidence = 1
			}
			return IntentMatch{Kind: evaluation.Intent(entry.label), Confidence: confidence}
		}
	}
	return IntentMatch{Kind: evaluation.IntentBrowse, Confidence: 0.3}
}

func analyzeSentiment(text string) Sentiment {
	positive := 0
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			positive++
		}
	}
	negative := 0
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func calculateUrgency(text string) float64 {
	for _, tier := range urgencyTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(text, kw) {
				return tier.score
			}
		}
	}
	return 0.5
}

func extractPriceRange(text string) *PriceRange {
	matches := priceTokenPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	prices := make([]float64, 0, len(matches))
	for _, m := range matches {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			prices = append(prices, v)
		}
	}
	if len(prices) == 0 {
		return nil
	}

	if len(prices) == 1 {
		v := prices[0]
		if strings.Contains(text, "menos de") || strings.Contains(text, "maximo") {
			return &PriceRange{Max: &v}
		}
		if strings.Contains(text, "mas de") || strings.Contains(text, "minimo") {
			return &PriceRange{Min: &v}
		}
		// A single bare number carries no direction; no range is inferred.
		return nil
	}

	minVal, maxVal := prices[0], prices[0]
	for _, v := range prices[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return &PriceRange{Min: &minVal, Max: &maxVal}
}

func detectSaleType(text string) entities.SaleType {
	for _, entry := range saleTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				return entities.SaleType(entry.label)
			}
		}
	}
	return ""
}

// extractKeywords tokenizes the normalized text into the literal terms the
// recommendation scorer matches against product names and descriptions.
func extractKeywords(text string) []string {
	var keywords []string
	for _, token := range strings.Fields(text) {
		if len(token) < 2 {
			continue
		}
		if _, skip := ignoredQueryTerms[token]; skip {
			continue
		}
		keywords = append(keywords, token)
	}
	return keywords
}

// categoryRank returns the position of a category in the declaration-ordered
// table, used to break score ties deterministically. Unknown categories sort
// after all known ones.
func categoryRank(category string) int {
	for i, entry := range categoryKeywords {
		if entry.label == category {
			return i
		}
	}
	return len(categoryKeywords)
}

func initUnmatchedTermCounter() {
	meter := otel.Meter("github.com/mercavia/marketplace-intelligence/query_analysis")
	counter, err := meter.Int64Counter(
		"search.term_not_matched.count",
		metric.WithDescription("Count of query terms that matched no category keyword"),
	)
	if err == nil {
		unmatchedTermCounter = counter
	}
}

// recordUnmatchedTerms counts query terms that hit no category keyword;
// recurring terms here are candidates for the keyword tables.
func (s *QueryAnalysisService) recordUnmatchedTerms(analysis *QueryAnalysis) {
	var unmatched []string
	for _, kw := range analysis.Keywords {
		found := false
		for _, entry := range categoryKeywords {
			for _, catKw := range entry.keywords {
				if strings.Contains(kw, catKw) || strings.Contains(catKw, kw) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			unmatched = append(unmatched, kw)
		}
	}
	if len(unmatched) == 0 {
		return
	}

	unmatchedTermCounterOnce.Do(initUnmatchedTermCounter)
	if unmatchedTermCounter == nil {
		return
	}
	for _, term := range unmatched {
		unmatchedTermCounter.Add(
			context.Background(),
			1,
			metric.WithAttributes(attribute.String("search.term", term)),
		)
	}
}
