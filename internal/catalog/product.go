package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Product is a catalog record as served by the product backend. Cart lines
// snapshot name/price/image from it at add time and never re-read it.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating"`
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Catalog exposes read access to the product catalog.
type Catalog interface {
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
}

// ErrNotFound is returned when the requested product does not exist.
var ErrNotFound = errors.New("product not found")
