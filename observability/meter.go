package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/sdiscovery/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for local collectors.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName: serviceName,
		Endpoint:    "localhost:4318",
		Insecure:    true,
		Interval:    15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
// The returned provider must be shut down on exit to flush metrics.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns the module meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// Metric names.
const (
	MetricAttempts          = "discovery.attempts"
	MetricAttemptFailures   = "discovery.attempt.failures"
	MetricExhausted         = "discovery.endpoints.exhausted"
	MetricOperationDuration = "discovery.operation.duration"
)

// RegistryMetrics holds the instruments recorded around registry operations.
type RegistryMetrics struct {
	attempts          metric.Int64Counter
	attemptFailures   metric.Int64Counter
	exhausted         metric.Int64Counter
	operationDuration metric.Float64Histogram
}

// NewRegistryMetrics creates the registry instruments on the given meter.
func NewRegistryMetrics(meter metric.Meter) (*RegistryMetrics, error) {
	attempts, err := meter.Int64Counter(MetricAttempts,
		metric.WithDescription("Endpoint attempts made by registry operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricAttempts, err)
	}

	attemptFailures, err := meter.Int64Counter(MetricAttemptFailures,
		metric.WithDescription("Endpoint attempts that failed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricAttemptFailures, err)
	}

	exhausted, err := meter.Int64Counter(MetricExhausted,
		metric.WithDescription("Operations that failed on every configured endpoint"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricExhausted, err)
	}

	operationDuration, err := meter.Float64Histogram(MetricOperationDuration,
		metric.WithDescription("Duration of registry operations across all attempts"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricOperationDuration, err)
	}

	return &RegistryMetrics{
		attempts:          attempts,
		attemptFailures:   attemptFailures,
		exhausted:         exhausted,
		operationDuration: operationDuration,
	}, nil
}

// RecordAttempt counts one endpoint attempt and, when it failed, one failure.
func (m *RegistryMetrics) RecordAttempt(ctx context.Context, operation, endpoint string, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("endpoint", endpoint),
	)
	m.attempts.Add(ctx, 1, attrs)
	if err != nil {
		m.attemptFailures.Add(ctx, 1, attrs)
	}
}

// RecordOperation records the outcome and duration of a whole operation.
func (m *RegistryMetrics) RecordOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	if status == StatusExhausted {
		m.exhausted.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	}
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}
