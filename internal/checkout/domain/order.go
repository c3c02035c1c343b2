package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethodCard is the only payment method the storefront supports.
const PaymentMethodCard = "card"

// PaymentStatusCompleted is attached to every submitted order. This is the
// simulation boundary: no authorization happens, the status is fixed.
const PaymentStatusCompleted = "completed"

// PaymentSummary is the payment portion of the order payload. Only the last
// four card digits are retained.
type PaymentSummary struct {
	Method       string `json:"method"`
	CardLastFour string `json:"card_last_four"`
	Status       string `json:"status"`
}

// OrderItem is a cart line copied into the order payload.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// Payload is the finalized order sent to the order service. It is built
// once at submission time from the cart and pricing quote and never mutated
// afterwards.
type Payload struct {
	Items        []OrderItem     `json:"items"`
	Shipping     ShippingInfo    `json:"shipping_info"`
	Payment      PaymentSummary  `json:"payment_info"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

// Result is what the order service returns for a placed order.
type Result struct {
	OrderID      string          `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	DeliveryDate time.Time       `json:"delivery_date"`
	Total        decimal.Decimal `json:"total"`
}
