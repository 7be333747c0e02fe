package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mercavia/marketplace-intelligence/internal/adapters/catalog"
	"github.com/mercavia/marketplace-intelligence/internal/adapters/storage"
	"github.com/mercavia/marketplace-intelligence/internal/application/services"
	"github.com/mercavia/marketplace-intelligence/internal/domain/providers"
	redisclient "github.com/mercavia/marketplace-intelligence/internal/infrastructure/clients/redis"
	"github.com/mercavia/marketplace-intelligence/internal/infrastructure/observability"
	"github.com/mercavia/marketplace-intelligence/pkg/config"
)

func main() {
	_ = godotenv.Load()

	limit := flag.Int("limit", 10, "maximum number of product recommendations")
	asJSON := flag.Bool("json", false, "print the full result as JSON")
	flag.Parse()

	query := strings.Join(flag.Args(), " ")
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: recommend [-limit N] [-json] <query>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.Service.Name, cfg.Service.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var metrics *observability.Metrics
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Printf("Warning: OpenTelemetry shutdown failed: %v", err)
				}
			}()
			metrics, err = observability.InitMetrics()
			if err != nil {
				log.Printf("Warning: Failed to initialize metrics: %v", err)
			}
		}
	}

	store, err := newStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	staticCatalog, err := catalog.NewStaticProvider(cfg.Catalog.ProductsPath, cfg.Catalog.StoresPath)
	if err != nil {
		log.Fatalf("Failed to load catalog fixtures: %v", err)
	}

	tracker := services.NewBehaviorTrackingService(store)
	tracker.SetMetrics(metrics)
	affinity := services.NewAffinityService(tracker, staticCatalog)
	recommender := services.NewRecommendationService(
		services.NewQueryAnalysisService(),
		tracker,
		affinity,
		staticCatalog,
		staticCatalog,
		services.NewFeatureFlags(),
	)
	recommender.SetMetrics(metrics)

	result := recommender.Recommend(ctx, query, *limit)

	if *asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode result: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	printResult(result)
}

func newStorage(cfg *config.Config) (providers.StorageProvider, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemoryAdapter(), nil
	case "redis":
		client, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		return storage.NewRedisAdapter(client), nil
	default:
		return storage.NewFileAdapter(cfg.Storage.Dir)
	}
}

func printResult(result *services.RecommendationResult) {
	if result.Explanation != "" {
		fmt.Println(result.Explanation)
		fmt.Println()
	}

	if len(result.Products) == 0 {
		fmt.Println("Sin productos recomendados.")
	}
	for i, rec := range result.Products {
		fmt.Printf("%2d. %s ($%.2f) score=%.2f confianza=%.2f\n", i+1, rec.Product.Name, rec.Product.Price, rec.Score, rec.Confidence)
		for _, reason := range rec.Reasons {
			fmt.Printf("      - %s\n", reason)
		}
	}

	if len(result.Stores) > 0 {
		fmt.Println()
		fmt.Println("Tiendas:")
		for i, rec := range result.Stores {
			fmt.Printf("%2d. %s (%.1f) score=%.2f\n", i+1, rec.Store.Name, rec.Store.Rating, rec.Score)
			for _, reason := range rec.Reasons {
				fmt.Printf("      - %s\n", reason)
			}
		}
	}
}
