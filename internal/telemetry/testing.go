package telemetry

import (
	"context"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewNoopTraceExporter returns a span exporter that drops everything.
// Lets tests run the real SDK pipeline without a collector.
func NewNoopTraceExporter() sdktrace.SpanExporter {
	return noopTraceExporter{}
}

type noopTraceExporter struct{}

func (noopTraceExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }

func (noopTraceExporter) Shutdown(context.Context) error { return nil }

// NewNoopMetricExporter returns a metric exporter that drops everything.
func NewNoopMetricExporter() sdkmetric.Exporter {
	return noopMetricExporter{}
}

type noopMetricExporter struct{}

func (noopMetricExporter) Temporality(sdkmetric.InstrumentKind) metricdata.Temporality {
	return metricdata.CumulativeTemporality
}

func (noopMetricExporter) Aggregation(sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.AggregationDefault{}
}

func (noopMetricExporter) Export(context.Context, *metricdata.ResourceMetrics) error { return nil }

func (noopMetricExporter) ForceFlush(context.Context) error { return nil }

func (noopMetricExporter) Shutdown(context.Context) error { return nil }
