package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopease/storefront/internal/checkout/domain"
	"github.com/shopease/storefront/internal/checkout/metrics"
	"github.com/shopease/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableCommandHandler struct {
	handler CommandHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableCommandHandler(handler CommandHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableCommandHandler {
	return &ObservableCommandHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableCommandHandler) Handle(ctx context.Context, payload domain.Payload) (*domain.Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlaceOrder.Handle")
	defer span.End()

	start := time.Now()
	var success bool
	defer func() {
		duration := time.Since(start).Seconds()
		o.metrics.RecordPlacementDuration(ctx, duration)
		o.metrics.RecordOrderPlaced(ctx, success)
	}()

	o.logger.InfoContext(ctx, "placing order",
		"item_count", len(payload.Items),
		"total", payload.Total.StringFixed(2),
	)

	result, err := o.handler.Handle(ctx, payload)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		o.logger.ErrorContext(ctx, "failed to place order",
			"error", err,
			"item_count", len(payload.Items),
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", result.OrderID),
		attribute.String("order.number", result.OrderNumber),
		attribute.String("order.total", result.Total.StringFixed(2)),
	)

	o.logger.InfoContext(ctx, "order placed successfully",
		"order_id", result.OrderID,
		"order_number", result.OrderNumber,
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return result, nil
}
