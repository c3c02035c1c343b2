package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersPlacedTotal     metric.Int64Counter
	orderPlacementSeconds metric.Float64Histogram
	stepTransitionsTotal  metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.ordersPlacedTotal, err = meter.Int64Counter(
		"orders_placed_total",
		metric.WithDescription("Total number of order placement attempts"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_placed_total counter: %w", err)
	}

	m.orderPlacementSeconds, err = meter.Float64Histogram(
		"order_placement_duration_seconds",
		metric.WithDescription("Duration of order placement submissions"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_placement_duration histogram: %w", err)
	}

	m.stepTransitionsTotal, err = meter.Int64Counter(
		"checkout_step_transitions_total",
		metric.WithDescription("Total checkout step transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout_step_transitions_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordOrderPlaced(ctx context.Context, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ordersPlacedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordPlacementDuration(ctx context.Context, durationSeconds float64) {
	m.orderPlacementSeconds.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordStepTransition(ctx context.Context, from, to string) {
	m.stepTransitionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}
