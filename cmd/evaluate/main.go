package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mercavia/marketplace-intelligence/internal/application/services"
	"github.com/mercavia/marketplace-intelligence/internal/evaluation"
	"github.com/mercavia/marketplace-intelligence/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	queries, err := evaluation.LoadGoldenQueries(cfg.Catalog.GoldenQueriesPath)
	if err != nil {
		log.Fatalf("Failed to load golden queries: %v", err)
	}
	if err := evaluation.ValidateGoldenQueries(queries); err != nil {
		log.Fatalf("Invalid golden queries: %v", err)
	}

	analyzer := services.NewQueryAnalysisService()
	runner := evaluation.NewRunner(func(query string) (evaluation.Intent, []string) {
		analysis := analyzer.Analyze(query)
		categories := make([]string, 0, len(analysis.Categories))
		for _, match := range analysis.Categories {
			categories = append(categories, match.Category)
		}
		return analysis.Intent.Kind, categories
	})

	summary, results := runner.Run(queries)

	// Per-query detail on stderr, summary JSON on stdout.
	for _, res := range results {
		status := "ok"
		if !res.IntentCorrect {
			status = "intent-miss"
		}
		fmt.Fprintf(os.Stderr, "%-6s %-12s recall=%.2f  %s\n", res.QueryID, status, res.CategoryRecall, res.Query)
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode summary: %v", err)
	}
	fmt.Println(string(out))
}
