package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercavia/marketplace-intelligence/internal/domain/entities"
	"github.com/mercavia/marketplace-intelligence/internal/evaluation"
)

func TestAnalyze_EmptyQueryYieldsDefaults(t *testing.T) {
	analysis := NewQueryAnalysisService().Analyze("")

	assert.Empty(t, analysis.Categories)
	assert.Equal(t, evaluation.IntentBrowse, analysis.Intent.Kind)
	assert.InDelta(t, 0.3, analysis.Intent.Confidence, 1e-9)
	assert.Equal(t, SentimentNeutral, analysis.Sentiment)
	assert.InDelta(t, 0.5, analysis.Urgency, 1e-9)
	assert.Nil(t, analysis.PriceRange)
	assert.Empty(t, analysis.SaleType)
	assert.Empty(t, analysis.Keywords)
}

func TestAnalyze_NeverPanicsOnArbitraryInput(t *testing.T) {
	service := NewQueryAnalysisService()
	inputs := []string{
		"",
		"   ",
		"🎉🛒📱",
		"ñandú söñàdor 中文 العربية",
		strings.Repeat("celular ", 2000),
		string([]byte{0xff, 0xfe, 0x00}),
	}

	for _, input := range inputs {
		assert.NotPanics(t, func() {
			analysis := service.Analyze(input)
			require.NotNil(t, analysis)
			assert.Equal(t, input, analysis.OriginalQuery)
		})
	}
}

func TestAnalyze_CategoryDetection(t *testing.T) {
	analysis := NewQueryAnalysisService().Analyze("necesito un celular nuevo")

	require.Len(t, analysis.Categories, 1)
	assert.Equal(t, "tecnología", analysis.Categories[0].Category)
	assert.InDelta(t, 0.5, analysis.Categories[0].Confidence, 1e-9)
}

func TestAnalyze_MultipleCategoriesKeepTableOrder(t *testing.T) {
	analysis := NewQueryAnalysisService().Analyze("laptop y zapatillas para el gym")

	require.Len(t, analysis.Categories, 3)
	assert.Equal(t, "tecnología", analysis.Categories[0].Category)
	assert.Equal(t, "ropa", analysis.Categories[1].Category)
	assert.Equal(t, "deportes", analysis.Categories[2].Category)
}

func TestAnalyze_AccentsAndCaseAreNormalized(t *testing.T) {
	analysis := NewQueryAnalysisService().Analyze("TELÉFONO para mi Niños")

	categories := make([]string, 0, len(analysis.Categories))
	for _, c := range analysis.Categories {
		categories = append(categories, c.Category)
	}
	assert.Contains(t, categories, "tecnología")
	assert.Contains(t, categories, "juguetes")
}

func TestAnalyze_IntentDetection(t *testing.T) {
	tests := []struct {
		query  string
		intent evaluation.Intent
	}{
		{"quiero comprar una laptop", evaluation.IntentBuy},
		{"comparar laptops", evaluation.IntentCompare},
		{"ver productos de hogar", evaluation.IntentBrowse},
		{"cual es el precio del perfume", evaluation.IntentPrice},
		{"caracteristicas del televisor", evaluation.IntentInfo},
		{"laptop", evaluation.IntentBrowse},
	}

	service := NewQueryAnalysisService()
	for _, tc := range tests {
		analysis := service.Analyze(tc.query)
		assert.Equal(t, tc.intent, analysis.Intent.Kind, "query: %s", tc.query)
	}
}

func TestAnalyze_IntentConfidenceGrowsWithMatches(t *testing.T) {
	service := NewQueryAnalysisService()

	single := service.Analyze("comprar laptop")
	double := service.Analyze("quiero comprar laptop")

	assert.InDelta(t, 0.6, single.Intent.Confidence, 1e-9)
	assert.InDelta(t, 0.8, double.Intent.Confidence, 1e-9)
}

func TestAnalyze_BuyWinsOverPriceByTableOrder(t *testing.T) {
	analysis := NewQueryAnalysisService().Analyze("quiero algo barato")
	assert.Equal(t, evaluation.IntentBuy, analysis.Intent.Kind)
}

func TestAnalyze_Urgency(t *testing.T) {
	service := NewQueryAnalysisService()

	assert.InDelta(t, 0.9, service.Analyze("necesito urgente un cargador").Urgency, 1e-9)
	assert.InDelta(t, 0.6, service.Analyze("lo necesito pronto").Urgency, 1e-9)
	assert.InDelta(t, 0.2, service.Analyze("comprar algun dia una bicicleta").Urgency, 1e-9)
	assert.InDelta(t, 0.5, service.Analyze("comprar una bicicleta").Urgency, 1e-9)
}

func TestAnalyze_Sentiment(t *testing.T) {
	service := NewQueryAnalysisService()

	assert.Equal(t, SentimentPositive, service.Analyze("un excelente perfume").Sentiment)
	assert.Equal(t, SentimentNegative, service.Analyze("el servicio fue terrible").Sentiment)
	assert.Equal(t, SentimentNeutral, service.Analyze("un perfume").Sentiment)
}

func TestAnalyze_PriceRangeBetween(t *testing.T) {
	analysis := NewQueryAnalysisService().Analyze("quiero algo entre $50 y $150")

	require.NotNil(t, analysis.PriceRange)
	require.NotNil(t, analysis.PriceRange.Min)
	require.NotNil(t, analysis.PriceRange.Max)
	assert.InDelta(t, 50, *analysis.PriceRange.Min, 1e-9)
	assert.InDelta(t, 150, *analysis.PriceRange.Max, 1e-9)
}

func TestAnalyze_PriceRangeSingleBound(t *testing.T) {
	service := NewQueryAnalysisService()

	upper := service.Analyze("algo de menos de $100")
	require.NotNil(t, upper.PriceRange)
	assert.Nil(t, upper.PriceRange.Min)
	require.NotNil(t, upper.PriceRange.Max)
	assert.InDelta(t, 100, *upper.PriceRange.Max, 1e-9)

	lower := service.Analyze("minimo 200 de presupuesto")
	require.NotNil(t, lower.PriceRange)
	require.NotNil(t, lower.PriceRange.Min)
	assert.InDelta(t, 200, *lower.PriceRange.Min, 1e-9)
	assert.Nil(t, lower.PriceRange.Max)
}

func TestAnalyze_NoNumbersNoPriceRange(t *testing.T) {
	analysis := NewQueryAnalysisService().Analyze("busco algo barato")
	assert.Nil(t, analysis.PriceRange)
}

func TestAnalyze_SaleTypeDetection(t *testing.T) {
	service := NewQueryAnalysisService()

	assert.Equal(t, entities.SaleTypeDelivery, service.Analyze("pizza con entrega a domicilio").SaleType)
	assert.Equal(t, entities.SaleTypeOnOrder, service.Analyze("mueble por pedido").SaleType)
	assert.Equal(t, entities.SaleTypeDirect, service.Analyze("hay stock de camisas").SaleType)
	assert.Empty(t, service.Analyze("camisas").SaleType)
}

func TestAnalyze_KeywordsSkipFillerTerms(t *testing.T) {
	analysis := NewQueryAnalysisService().Analyze("un celular para la casa")

	assert.Equal(t, []string{"celular", "casa"}, analysis.Keywords)
}

func TestAnalyze_IsDeterministic(t *testing.T) {
	service := NewQueryAnalysisService()
	query := "necesito urgente un celular barato entre $100 y $300"

	first := service.Analyze(query)
	second := service.Analyze(query)
	assert.Equal(t, first, second)
}
