package ports

import "context"

// EventBus publishes order lifecycle events for downstream consumers such
// as fulfillment and notification services. Publishing happens after the
// order is durably saved; a failed publish never rolls the order back.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, orderID string) error
	PublishOrderProcessed(ctx context.Context, orderID string) error
	PublishOrderFailed(ctx context.Context, orderID string, reason string) error
}
