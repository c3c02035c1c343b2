package cart

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	mutationsTotal metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.mutationsTotal, err = meter.Int64Counter(
		"cart_mutations_total",
		metric.WithDescription("Total number of cart mutations"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cart_mutations_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordMutation(ctx context.Context, operation string) {
	m.mutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}
