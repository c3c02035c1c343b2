package ports

import (
	"context"
	"errors"

	"github.com/shopease/storefront/internal/checkout/domain"
)

// OrderService submits a finalized payload to the order backend. A real
// payment processor would be integrated behind this boundary; the storefront
// core never talks to one directly.
type OrderService interface {
	Create(ctx context.Context, payload domain.Payload) (*domain.Result, error)
}

var (
	// ErrSubmissionInFlight is returned when a place-order trigger arrives
	// while a previous submission is still outstanding.
	ErrSubmissionInFlight = errors.New("an order submission is already in progress")
	// ErrAlreadyPlaced is returned for any transition attempted after the
	// checkout reached its terminal state.
	ErrAlreadyPlaced = errors.New("order already placed")
	// ErrWrongStep is returned when an operation is invoked outside the
	// step it belongs to.
	ErrWrongStep = errors.New("operation not valid at the current checkout step")
)
