// Package telemetry wires OpenTelemetry tracing and metrics plus trace-aware
// structured logging for the storefront services.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var (
	ErrInvalidConfig         = errors.New("invalid telemetry configuration")
	ErrMissingServiceName    = errors.New("service name is required")
	ErrMissingServiceVersion = errors.New("service version is required")
	ErrInvalidSampleRate     = errors.New("sample rate must be between 0.0 and 1.0")
)

// Config describes which signals to enable and where to export them.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	EnableTracing  bool
	EnableMetrics  bool
	SampleRate     float64
}

func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrMissingServiceName)
	}
	if c.ServiceVersion == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrMissingServiceVersion)
	}
	if c.SampleRate < 0.0 || c.SampleRate > 1.0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrInvalidSampleRate)
	}
	return nil
}

// Telemetry holds the installed providers and exporters so they can be
// flushed and shut down together.
type Telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	traceExporter  sdktrace.SpanExporter
	metricExporter sdkmetric.Exporter
}

// Option overrides parts of the default setup. Used by tests to inject
// in-memory exporters.
type Option func(*setup)

type setup struct {
	traceExporter  sdktrace.SpanExporter
	metricExporter sdkmetric.Exporter
}

func WithTraceExporter(exporter sdktrace.SpanExporter) Option {
	return func(s *setup) { s.traceExporter = exporter }
}

func WithMetricExporter(exporter sdkmetric.Exporter) Option {
	return func(s *setup) { s.metricExporter = exporter }
}

// Initialize installs the configured global tracer and meter providers and
// the W3C trace-context propagator.
func Initialize(ctx context.Context, cfg Config, opts ...Option) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var s setup
	for _, opt := range opts {
		opt(&s)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tel := &Telemetry{}

	if cfg.EnableTracing {
		exporter := s.traceExporter
		if exporter == nil {
			// Plaintext gRPC; TLS termination is the collector sidecar's job.
			exporter, err = otlptracegrpc.New(ctx,
				otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
				otlptracegrpc.WithInsecure(),
			)
			if err != nil {
				return nil, fmt.Errorf("create trace exporter: %w", err)
			}
		}

		tel.traceExporter = exporter
		tel.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(newSampler(cfg.SampleRate)),
			sdktrace.WithBatcher(exporter),
		)
		otel.SetTracerProvider(tel.tracerProvider)
	}

	if cfg.EnableMetrics {
		exporter := s.metricExporter
		if exporter == nil {
			exporter, err = otlpmetricgrpc.New(ctx,
				otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
				otlpmetricgrpc.WithInsecure(),
			)
			if err != nil {
				if tel.traceExporter != nil {
					_ = tel.traceExporter.Shutdown(ctx)
				}
				return nil, fmt.Errorf("create metric exporter: %w", err)
			}
		}

		tel.metricExporter = exporter
		tel.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		)
		otel.SetMeterProvider(tel.meterProvider)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tel, nil
}

func newResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithOS(),
		resource.WithContainer(),
		resource.WithHost(),
	)
}

func newSampler(sampleRate float64) sdktrace.Sampler {
	switch {
	case sampleRate <= 0.0:
		return sdktrace.NeverSample()
	case sampleRate >= 1.0:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))
	}
}

// Shutdown flushes and stops every installed provider and exporter,
// collecting all errors.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	if t.traceExporter != nil {
		if err := t.traceExporter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown trace exporter: %w", err))
		}
	}
	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	if t.metricExporter != nil {
		if err := t.metricExporter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown metric exporter: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (t *Telemetry) TracerProvider() *sdktrace.TracerProvider {
	return t.tracerProvider
}

func (t *Telemetry) MeterProvider() *sdkmetric.MeterProvider {
	return t.meterProvider
}
