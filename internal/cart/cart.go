package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// LineItem is one product-keyed entry in the cart. Name, price and image are
// snapshots taken when the product was first added; they are never refreshed
// from the catalog.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store owns the cart's line items and is the single source of truth for
// cart contents. All aggregates are derived from the lines on every read, so
// they can never drift from the items. Mutations on absent ids are silently
// ignored and invalid quantities are normalized; the store never returns
// errors for them.
type Store struct {
	mu    sync.RWMutex
	lines map[string]*LineItem
	order []string
	open  bool
}

// NewStore constructs an empty cart store.
func NewStore() *Store {
	return &Store{lines: make(map[string]*LineItem)}
}

// Add upserts a product into the cart. An existing line's quantity is
// incremented by one; otherwise a new line with quantity one is inserted,
// snapshotting name, price and image from the argument. Adding also marks
// the cart open so the UI layer can surface it.
func (s *Store) Add(item LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line, ok := s.lines[item.ProductID]; ok {
		line.Quantity++
	} else {
		s.lines[item.ProductID] = &LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  1,
		}
		s.order = append(s.order, item.ProductID)
	}
	s.open = true
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line; quantities are never stored at or below zero. Absent ids are a
// no-op.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[productID]
	if !ok {
		return
	}
	if quantity <= 0 {
		s.deleteLocked(productID)
		return
	}
	line.Quantity = quantity
}

// Remove deletes a line unconditionally. Absent ids are a no-op.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(productID)
}

// Clear empties the cart. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[string]*LineItem)
	s.order = nil
}

func (s *Store) deleteLocked(productID string) {
	if _, ok := s.lines[productID]; !ok {
		return
	}
	delete(s.lines, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]LineItem, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, *s.lines[id])
	}
	return result
}

// TotalItems is the sum of all line quantities, derived on every call.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// Subtotal is the sum of price times quantity over all lines, derived on
// every call with full precision.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subtotal := decimal.Zero
	for _, line := range s.lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	return subtotal
}

// Len is the number of distinct lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Open marks the cart sidebar as visible. The store records the flag but
// does not interpret it.
func (s *Store) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
}

// Close marks the cart sidebar as hidden.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

// IsOpen reports the sidebar visibility flag.
func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}
