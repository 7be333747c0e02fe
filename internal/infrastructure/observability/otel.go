package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Metrics holds all application metrics
type Metrics struct {
	EventAppendCount  metric.Int64Counter
	RecommendCount    metric.Int64Counter
	RecommendDuration metric.Float64Histogram
	ZeroResultCount   metric.Int64Counter
	StorageErrorCount metric.Int64Counter
}

// Setup initializes OpenTelemetry
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace exporter
	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace provider
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Shutdown function
	shutdown := func(ctx context.Context) error {
		return tracerProvider.Shutdown(ctx)
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/mercavia/marketplace-intelligence")

	eventAppendCount, err := meter.Int64Counter(
		"behavior.event.append.count",
		metric.WithDescription("Number of interaction events appended to the behavior log"),
	)
	if err != nil {
		return nil, err
	}

	recommendCount, err := meter.Int64Counter(
		"recommendation.request.count",
		metric.WithDescription("Number of recommendation requests served"),
	)
	if err != nil {
		return nil, err
	}

	recommendDuration, err := meter.Float64Histogram(
		"recommendation.request.duration",
		metric.WithDescription("Recommendation request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	zeroResultCount, err := meter.Int64Counter(
		"recommendation.zero_result.count",
		metric.WithDescription("Number of recommendation requests that produced no results"),
	)
	if err != nil {
		return nil, err
	}

	storageErrorCount, err := meter.Int64Counter(
		"storage.write_error.count",
		metric.WithDescription("Number of swallowed behavior-log persistence failures"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		EventAppendCount:  eventAppendCount,
		RecommendCount:    recommendCount,
		RecommendDuration: recommendDuration,
		ZeroResultCount:   zeroResultCount,
		StorageErrorCount: storageErrorCount,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer("github.com/mercavia/marketplace-intelligence")
	return tracer.Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// RecordEventAppend counts an appended interaction event by kind
func RecordEventAppend(ctx context.Context, metrics *Metrics, kind string) {
	if metrics == nil {
		return
	}
	metrics.EventAppendCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.kind", kind),
	))
}

// RecordRecommendMetric records a served recommendation request
func RecordRecommendMetric(ctx context.Context, metrics *Metrics, productCount, storeCount int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.Int("recommendation.product_count", productCount),
		attribute.Int("recommendation.store_count", storeCount),
	}
	metrics.RecommendCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RecommendDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if productCount == 0 && storeCount == 0 {
		metrics.ZeroResultCount.Add(ctx, 1)
	}
}

// RecordStorageError counts a swallowed persistence failure
func RecordStorageError(ctx context.Context, metrics *Metrics, key string) {
	if metrics == nil {
		return
	}
	metrics.StorageErrorCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("storage.key", key),
	))
}
