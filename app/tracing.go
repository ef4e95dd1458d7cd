package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer transactions and dispatched messages are
// recorded with.
const TracerName = "github.com/paw-chain/pawswap/app"

// Span attribute keys. Sender and contract address reuse the event keys.
const (
	AttributeKeyEntry      = "tx.entry"
	AttributeKeyHeight     = "tx.height"
	AttributeKeyDepth      = "dispatch.depth"
	AttributeKeyBestEffort = "dispatch.best_effort"
)

// SetTracerProvider records spans through tp instead of the global provider,
// which is a no-op unless one was installed.
func (a *App) SetTracerProvider(tp trace.TracerProvider) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracer = tp.Tracer(TracerName)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// TracingConfig selects where spans are exported.
type TracingConfig struct {
	// OTLP/HTTP collector, e.g. http://localhost:4318.
	Endpoint   string
	SampleRate float64
	Service    string
}

// Validate checks the collector endpoint and the sample rate.
func (c TracingConfig) Validate() error {
	if c.Endpoint == "" {
		return ErrInvalidConfig.Wrap("tracing endpoint is required")
	}
	if _, err := url.Parse(c.Endpoint); err != nil {
		return ErrInvalidConfig.Wrapf("tracing endpoint: %s", err)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return ErrInvalidConfig.Wrap("sample rate must be between 0 and 1")
	}
	return nil
}

// NewTracerProvider exports spans over OTLP/HTTP in batches. The caller
// shuts it down to flush pending spans.
func NewTracerProvider(ctx context.Context, cfg TracingConfig) (*tracesdk.TracerProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Service == "" {
		cfg.Service = "pawswap"
	}

	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	insecure := endpoint != cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithURLPath("/v1/traces"),
	}
	if insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter,
			tracesdk.WithMaxExportBatchSize(512),
			tracesdk.WithBatchTimeout(5*time.Second),
		),
		tracesdk.WithResource(resource.NewSchemaless(attribute.String("service.name", cfg.Service))),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(cfg.SampleRate))),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}
