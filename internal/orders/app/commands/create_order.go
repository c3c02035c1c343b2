package commands

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopease/storefront/internal/orders/domain"
	"github.com/shopease/storefront/internal/orders/ports"
	"github.com/shopspring/decimal"
)

// deliveryLeadTime is the estimated time until delivery quoted on new orders.
const deliveryLeadTime = 5 * 24 * time.Hour

type CreateOrderCommand struct {
	Items        []domain.Item
	Shipping     domain.ShippingAddress
	Payment      domain.Payment
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

func (c CreateOrderCommand) Validate() error {
	if len(c.Items) == 0 {
		return errors.New("items are required")
	}
	if strings.TrimSpace(c.Shipping.Email) == "" {
		return errors.New("shipping email is required")
	}
	if !strings.Contains(c.Shipping.Email, "@") {
		return errors.New("shipping email must be valid")
	}
	if !c.Total.Equal(c.Subtotal.Add(c.ShippingCost).Add(c.Tax)) {
		return errors.New("total must equal subtotal plus shipping plus tax")
	}
	return nil
}

type CommandHandler interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
}

type CreateOrderCommandHandler struct {
	repo   ports.OrderRepository
	events ports.EventBus
}

func NewCreateOrderCommandHandler(
	repo ports.OrderRepository,
	events ports.EventBus,
) *CreateOrderCommandHandler {
	return &CreateOrderCommandHandler{
		repo:   repo,
		events: events,
	}
}

func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	orderID, err := generateOrderID()
	if err != nil {
		return nil, err
	}

	orderNumber, err := generateOrderNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:            orderID,
		OrderNumber:   orderNumber,
		CustomerEmail: cmd.Shipping.Email,
		Items:         cmd.Items,
		Shipping:      cmd.Shipping,
		Payment:       cmd.Payment,
		Subtotal:      cmd.Subtotal,
		ShippingCost:  cmd.ShippingCost,
		Tax:           cmd.Tax,
		Total:         cmd.Total,
		Status:        domain.StatusPending,
		DeliveryDate:  now.Add(deliveryLeadTime),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderCreated(ctx, order.ID); err != nil {
		return &order, fmt.Errorf("order saved but failed to publish event: %w", err)
	}

	return &order, nil
}

func generateOrderID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate order id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// generateOrderNumber produces the human-facing "#ORD-NNNNN" reference.
func generateOrderNumber() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	n := binary.BigEndian.Uint32(buf)%90000 + 10000
	return fmt.Sprintf("#ORD-%d", n), nil
}
