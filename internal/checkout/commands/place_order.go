package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopease/storefront/internal/checkout/domain"
	"github.com/shopease/storefront/internal/checkout/ports"
)

// CommandHandler submits a finalized order payload exactly once.
type CommandHandler interface {
	Handle(ctx context.Context, payload domain.Payload) (*domain.Result, error)
}

// PlaceOrderHandler forwards the payload to the order service and validates
// the basic shape of what it is about to send.
type PlaceOrderHandler struct {
	orders ports.OrderService
}

// NewPlaceOrderHandler wires the order service dependency.
func NewPlaceOrderHandler(orders ports.OrderService) *PlaceOrderHandler {
	return &PlaceOrderHandler{orders: orders}
}

func (h *PlaceOrderHandler) Handle(ctx context.Context, payload domain.Payload) (*domain.Result, error) {
	if len(payload.Items) == 0 {
		return nil, errors.New("order payload has no items")
	}

	expected := payload.Subtotal.Add(payload.ShippingCost).Add(payload.Tax)
	if !payload.Total.Equal(expected) {
		return nil, fmt.Errorf("order total %s does not equal subtotal+shipping+tax %s", payload.Total, expected)
	}

	result, err := h.orders.Create(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	return result, nil
}
