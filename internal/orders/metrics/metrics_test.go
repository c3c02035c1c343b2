package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}
	return metrics, reader
}

func TestRecordOrderCreated(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordOrderCreated(ctx, true)
	metrics.RecordOrderCreated(ctx, true)
	metrics.RecordOrderCreated(ctx, false)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "orders_created_total" {
				continue
			}
			found = true

			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatal("expected Sum[int64] data type")
			}

			byStatus := make(map[string]int64)
			for _, dp := range sum.DataPoints {
				status, _ := dp.Attributes.Value(attribute.Key("status"))
				byStatus[status.AsString()] = dp.Value
			}

			if byStatus["success"] != 2 {
				t.Errorf("expected 2 successes, got %d", byStatus["success"])
			}
			if byStatus["error"] != 1 {
				t.Errorf("expected 1 error, got %d", byStatus["error"])
			}
		}
	}

	if !found {
		t.Error("orders_created_total metric not found")
	}
}

func TestRecordOrderCreationDuration(t *testing.T) {
	metrics, reader := newTestMetrics(t)
	ctx := context.Background()

	metrics.RecordOrderCreationDuration(ctx, 0.02)
	metrics.RecordOrderCreationDuration(ctx, 0.3)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "order_creation_duration_seconds" {
				continue
			}
			histogram, ok := m.Data.(metricdata.Histogram[float64])
			if !ok {
				t.Fatal("expected Histogram[float64] data type")
			}
			if len(histogram.DataPoints) != 1 {
				t.Fatalf("expected 1 data point, got %d", len(histogram.DataPoints))
			}
			if histogram.DataPoints[0].Count != 2 {
				t.Errorf("expected 2 recordings, got %d", histogram.DataPoints[0].Count)
			}
			return
		}
	}

	t.Error("order_creation_duration_seconds metric not found")
}
