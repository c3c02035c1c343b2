package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus captures the lifecycle of an order in the system.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusFailed     OrderStatus = "failed"
	StatusCanceled   OrderStatus = "canceled"
)

// Item is one product line of an order.
type Item struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// ShippingAddress is the delivery address submitted with the order.
type ShippingAddress struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

// Payment is the payment summary attached to an order. Only the last four
// card digits ever reach this service.
type Payment struct {
	Method       string `json:"method"`
	CardLastFour string `json:"card_last_four"`
	Status       string `json:"status"`
}

// Order represents a placed storefront order.
type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"order_number"`
	CustomerEmail string          `json:"customer_email"`
	Items         []Item          `json:"items"`
	Shipping      ShippingAddress `json:"shipping_info"`
	Payment       Payment         `json:"payment_info"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ShippingCost  decimal.Decimal `json:"shipping_cost"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	DeliveryDate  time.Time       `json:"delivery_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Validate ensures the order adheres to business constraints.
func (o Order) Validate() error {
	if strings.TrimSpace(o.CustomerEmail) == "" {
		return errors.New("customer_email is required")
	}
	if !strings.Contains(o.CustomerEmail, "@") {
		return errors.New("customer_email must be valid")
	}
	if len(o.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return errors.New("item quantity must be at least 1")
		}
		if item.UnitPrice.IsNegative() {
			return errors.New("item price must not be negative")
		}
	}
	if o.Subtotal.IsNegative() || o.ShippingCost.IsNegative() || o.Tax.IsNegative() {
		return errors.New("amounts must not be negative")
	}
	if !o.Total.Equal(o.Subtotal.Add(o.ShippingCost).Add(o.Tax)) {
		return errors.New("total must equal subtotal plus shipping plus tax")
	}
	return nil
}

// IsTerminal indicates whether the order is in a terminal state.
func (o Order) IsTerminal() bool {
	switch o.Status {
	case StatusCompleted, StatusFailed, StatusCanceled:
		return true
	default:
		return false
	}
}
