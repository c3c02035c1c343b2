// Package checkout drives the multi-step checkout: collect shipping and
// payment input, validate cart and identity preconditions, and submit one
// order payload built from the live cart state.
package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopease/storefront/internal/cart"
	"github.com/shopease/storefront/internal/checkout/commands"
	"github.com/shopease/storefront/internal/checkout/domain"
	"github.com/shopease/storefront/internal/checkout/ports"
	"github.com/shopease/storefront/internal/identity"
	"github.com/shopease/storefront/internal/pricing"
)

// Step identifies a checkout stage. Steps advance only through the submit
// calls and retreat only through Back.
type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Blocked names a precondition that keeps checkout from proceeding. These
// are states for the caller to redirect away from, not errors.
type Blocked string

const (
	BlockedNone      Blocked = ""
	BlockedEmptyCart Blocked = "empty_cart"
	BlockedSignedOut Blocked = "signed_out"
)

// Summary is the review-time view of the order. Items and quote derive from
// the same cart read and one pricing computation, so what is displayed is
// exactly what a subsequent PlaceOrder would submit.
type Summary struct {
	Step         Step            `json:"step"`
	Items        []cart.LineItem `json:"items"`
	Quote        pricing.Quote   `json:"quote"`
	Shipping     *domain.ShippingInfo `json:"shipping_info,omitempty"`
	CardLastFour string          `json:"card_last_four,omitempty"`
}

// Checkout is the step state machine for one session. It reads cart totals
// from the store at the moment of use and never caches them. All methods
// are safe for the single-writer event loop the storefront runs them on;
// the mutex exists because order submission is the one genuinely
// asynchronous operation.
type Checkout struct {
	mu      sync.Mutex
	cart    *cart.Store
	gate    identity.Gate
	handler commands.CommandHandler

	step       Step
	shipping   *domain.ShippingInfo
	payment    *domain.PaymentInfo
	placed     *domain.Result
	submitting bool
}

// New wires a checkout for one session. Nil dependencies are a wiring bug
// and panic at the access point.
func New(store *cart.Store, gate identity.Gate, handler commands.CommandHandler) *Checkout {
	if store == nil {
		panic("checkout: nil cart store")
	}
	if gate == nil {
		panic("checkout: nil identity gate")
	}
	if handler == nil {
		panic("checkout: nil place-order handler")
	}
	return &Checkout{
		cart:    store,
		gate:    gate,
		handler: handler,
		step:    StepShipping,
	}
}

// Step returns the current step. Once placed, the step no longer matters;
// callers should check Placed first.
func (c *Checkout) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Placed returns the recorded order result, or nil while the checkout is
// still in progress.
func (c *Checkout) Placed() *domain.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.placed == nil {
		return nil
	}
	copy := *c.placed
	return &copy
}

// Gate re-evaluates the entry preconditions. An empty cart or a signed-out
// session blocks checkout until the order is placed; after that the session
// is terminal and nothing blocks it.
func (c *Checkout) Gate(ctx context.Context) (Blocked, error) {
	c.mu.Lock()
	placed := c.placed != nil
	c.mu.Unlock()

	if placed {
		return BlockedNone, nil
	}
	if c.cart.IsEmpty() {
		return BlockedEmptyCart, nil
	}

	user, err := c.gate.Current(ctx)
	if err != nil {
		return BlockedNone, fmt.Errorf("read current user: %w", err)
	}
	if user == nil {
		return BlockedSignedOut, nil
	}
	return BlockedNone, nil
}

// PrefillShipping returns a shipping form seeded from the current identity,
// with the default country set.
func (c *Checkout) PrefillShipping(ctx context.Context) (domain.ShippingInfo, error) {
	info := domain.ShippingInfo{Country: domain.DefaultCountry}

	user, err := c.gate.Current(ctx)
	if err != nil {
		return info, fmt.Errorf("read current user: %w", err)
	}
	if user != nil {
		info.FullName = user.Name
		info.Email = user.Email
	}
	return info, nil
}

// SubmitShipping captures the shipping form verbatim and advances to the
// payment step.
func (c *Checkout) SubmitShipping(info domain.ShippingInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.placed != nil {
		return ports.ErrAlreadyPlaced
	}
	if c.step != StepShipping {
		return fmt.Errorf("%w: submit shipping at %s", ports.ErrWrongStep, c.step)
	}
	if err := info.Validate(); err != nil {
		return err
	}

	c.shipping = &info
	c.step = StepPayment
	return nil
}

// SubmitPayment normalizes the raw payment input and advances to review.
func (c *Checkout) SubmitPayment(input domain.PaymentInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.placed != nil {
		return ports.ErrAlreadyPlaced
	}
	if c.step != StepPayment {
		return fmt.Errorf("%w: submit payment at %s", ports.ErrWrongStep, c.step)
	}

	normalized := input.Normalize()
	c.payment = &normalized
	c.step = StepReview
	return nil
}

// Back retreats one step. It reports false at the first step and after the
// order is placed; a placed checkout has no backward transition.
func (c *Checkout) Back() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.placed != nil || c.submitting || c.step == StepShipping {
		return false
	}
	c.step--
	return true
}

// Summary builds the current order view from live cart state.
func (c *Checkout) Summary() Summary {
	c.mu.Lock()
	shipping := c.shipping
	payment := c.payment
	step := c.step
	c.mu.Unlock()

	s := Summary{
		Step:  step,
		Items: c.cart.Items(),
		Quote: pricing.NewQuote(c.cart.Subtotal()),
	}
	if shipping != nil {
		copy := *shipping
		s.Shipping = &copy
	}
	if payment != nil {
		s.CardLastFour = payment.CardLastFour()
	}
	return s
}

// PlaceOrder freezes the cart and pricing state into a payload and submits
// it exactly once. While a submission is outstanding, further triggers are
// rejected with ErrSubmissionInFlight. On success the cart is cleared and
// the checkout becomes terminal; on failure the cart and step are left
// untouched so the caller can retry.
func (c *Checkout) PlaceOrder(ctx context.Context) (*domain.Result, error) {
	payload, err := c.beginSubmission(ctx)
	if err != nil {
		return nil, err
	}

	result, err := c.handler.Handle(ctx, *payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		return nil, err
	}

	c.placed = result
	c.cart.Clear()
	return result, nil
}

// beginSubmission checks every precondition under the lock, marks the
// submission in flight, and builds the frozen payload.
func (c *Checkout) beginSubmission(ctx context.Context) (*domain.Payload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.placed != nil {
		return nil, ports.ErrAlreadyPlaced
	}
	if c.submitting {
		return nil, ports.ErrSubmissionInFlight
	}
	if c.step != StepReview {
		return nil, fmt.Errorf("%w: place order at %s", ports.ErrWrongStep, c.step)
	}
	if c.shipping == nil || c.payment == nil {
		return nil, fmt.Errorf("%w: shipping and payment must be captured first", ports.ErrWrongStep)
	}

	items := c.cart.Items()
	if len(items) == 0 {
		return nil, fmt.Errorf("cannot place an order with an empty cart")
	}

	user, err := c.gate.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("read current user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("cannot place an order while signed out")
	}

	quote := pricing.NewQuote(c.cart.Subtotal())

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, line := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Image:     line.Image,
		})
	}

	payload := &domain.Payload{
		Items:    orderItems,
		Shipping: *c.shipping,
		Payment: domain.PaymentSummary{
			Method:       domain.PaymentMethodCard,
			CardLastFour: c.payment.CardLastFour(),
			Status:       domain.PaymentStatusCompleted,
		},
		Subtotal:     quote.Subtotal,
		ShippingCost: quote.Shipping,
		Tax:          quote.Tax,
		Total:        quote.Total,
	}

	c.submitting = true
	return payload, nil
}
