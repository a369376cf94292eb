// Package metrics records OpenTelemetry instruments for served responses.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
)

// InstrumentationName names the meter used by the server.
const InstrumentationName = "github.com/always-cache/fwserve"

// Response describes one served response.
type Response struct {
	Status      int
	Disposition string
	Category    string
	Nonce       string
	Bytes       int
	Duration    time.Duration
}

// Recorder holds the response instruments.
type Recorder struct {
	responses metric.Int64Counter
	bytes     metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewRecorder creates the instruments on meter. The global meter provider is
// used when meter is nil.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}
	responses, err := meter.Int64Counter("fwserve.responses",
		metric.WithDescription("Responses served, by status and cache disposition"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create response counter: %w", err)
	}
	bytes, err := meter.Int64Counter("fwserve.response.body.size",
		metric.WithDescription("Response body bytes written"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create body size counter: %w", err)
	}
	duration, err := meter.Float64Histogram("fwserve.response.duration",
		metric.WithDescription("Time to resolve and write a response"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	return &Recorder{responses: responses, bytes: bytes, duration: duration}, nil
}

// Record adds one response to the instruments.
func (r *Recorder) Record(ctx context.Context, res Response) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.Int("http.response.status_code", res.Status),
		attribute.String("fwserve.disposition", res.Disposition),
		attribute.String("fwserve.category", res.Category),
		attribute.String("fwserve.nonce", res.Nonce),
	)
	r.responses.Add(ctx, 1, attrs)
	r.bytes.Add(ctx, int64(res.Bytes), attrs)
	r.duration.Record(ctx, res.Duration.Seconds(), attrs)
}

// ExporterConfig configures OTLP export of the server metrics.
type ExporterConfig struct {
	// Endpoint of the OTLP gRPC collector, e.g. "localhost:4317".
	// Export is disabled when empty.
	Endpoint string        `yaml:"endpoint"`
	Insecure bool          `yaml:"insecure"`
	Interval time.Duration `yaml:"interval"`
}

// NewProvider creates a meter provider exporting to the configured collector
// and installs it as the global provider. Callers must Shutdown it.
func NewProvider(ctx context.Context, config ExporterConfig, version string) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	interval := config.Interval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(sdkresource.NewSchemaless(
			attribute.String("service.name", "fwserve"),
			attribute.String("service.version", version),
		)),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(interval),
		)),
	)
	otel.SetMeterProvider(provider)
	return provider, nil
}
