package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
}

// InitMetrics initializes the Prometheus metrics exporter on a private
// registry and installs the meter provider globally.
// Returns the MeterProvider and an HTTP handler for /metrics endpoint.
func InitMetrics(_ MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("observability: create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return provider, handler, nil
}

// EngineMetrics records analysis outcomes.
type EngineMetrics struct {
	analyses metric.Int64Counter
	scores   metric.Float64Histogram
	sources  metric.Int64Counter
}

// NewEngineMetrics creates the engine instruments on meter.
func NewEngineMetrics(meter metric.Meter) (*EngineMetrics, error) {
	analyses, err := meter.Int64Counter("redflags.analyses",
		metric.WithDescription("Completed analyses by risk level."))
	if err != nil {
		return nil, fmt.Errorf("observability: create analyses counter: %w", err)
	}
	scores, err := meter.Float64Histogram("redflags.composite_score",
		metric.WithDescription("Composite risk score of completed analyses."),
		metric.WithExplicitBucketBoundaries(20, 40, 60, 80, 100))
	if err != nil {
		return nil, fmt.Errorf("observability: create score histogram: %w", err)
	}
	sources, err := meter.Int64Counter("redflags.source_outcomes",
		metric.WithDescription("Evidence source resolutions by source and status."))
	if err != nil {
		return nil, fmt.Errorf("observability: create source counter: %w", err)
	}
	return &EngineMetrics{analyses: analyses, scores: scores, sources: sources}, nil
}

// ObserveAnalysis records one completed analysis.
func (m *EngineMetrics) ObserveAnalysis(ctx context.Context, riskLevel string, compositeScore float64, partial bool) {
	attrs := metric.WithAttributes(
		attribute.String("risk_level", riskLevel),
		attribute.String("partial", strconv.FormatBool(partial)),
	)
	m.analyses.Add(ctx, 1, attrs)
	m.scores.Record(ctx, compositeScore, attrs)
}

// ObserveSource records how one evidence source resolved.
func (m *EngineMetrics) ObserveSource(ctx context.Context, source, status string) {
	m.sources.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	))
}
