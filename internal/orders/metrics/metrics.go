// Package metrics holds the order service's domain-level instruments.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersCreatedTotal    metric.Int64Counter
	orderCreationDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	ordersCreatedTotal, err := meter.Int64Counter(
		"orders_created_total",
		metric.WithDescription("Total number of order creation attempts"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_created_total counter: %w", err)
	}

	orderCreationDuration, err := meter.Float64Histogram(
		"order_creation_duration_seconds",
		metric.WithDescription("Duration of order creation operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_creation_duration histogram: %w", err)
	}

	return &Metrics{
		ordersCreatedTotal:    ordersCreatedTotal,
		orderCreationDuration: orderCreationDuration,
	}, nil
}

// RecordOrderCreated counts one creation attempt labeled by outcome.
func (m *Metrics) RecordOrderCreated(ctx context.Context, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ordersCreatedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

// RecordOrderCreationDuration records how long one creation took.
func (m *Metrics) RecordOrderCreationDuration(ctx context.Context, durationSeconds float64) {
	m.orderCreationDuration.Record(ctx, durationSeconds)
}
