package pricing

import "github.com/shopspring/decimal"

// Business constants for the single supported currency/jurisdiction.
var (
	// FreeShippingThreshold is the subtotal at which shipping becomes free.
	FreeShippingThreshold = decimal.NewFromInt(50)
	// FlatShippingFee is charged below the free-shipping threshold.
	FlatShippingFee = decimal.NewFromInt(5)
	// TaxRate is the flat tax rate applied to the subtotal. Shipping is not taxed.
	TaxRate = decimal.NewFromFloat(0.10)
)

// ShippingCost returns the shipping fee for a given subtotal.
func ShippingCost(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		return decimal.Zero
	}
	return FlatShippingFee
}

// Tax returns the tax owed on a subtotal. No rounding is applied; callers
// round only at display or serialization time.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

// Total returns subtotal + shipping + tax.
func Total(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(ShippingCost(subtotal)).Add(Tax(subtotal))
}

// Quote captures every derived amount for a subtotal in one computation so
// that what is displayed and what is submitted can never diverge.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping_cost"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// NewQuote computes a full pricing quote from a subtotal.
func NewQuote(subtotal decimal.Decimal) Quote {
	shipping := ShippingCost(subtotal)
	tax := Tax(subtotal)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
