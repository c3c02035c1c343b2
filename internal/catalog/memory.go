package catalog

import (
	"context"
	"sync"
)

// Memory is an in-process catalog seeded at startup. It stands in for the
// product backend, which the cart engine treats as read-only.
type Memory struct {
	mu       sync.RWMutex
	products map[string]Product
	order    []string
}

// NewMemory constructs a catalog from the given products, preserving order.
func NewMemory(products ...Product) *Memory {
	m := &Memory{products: make(map[string]Product, len(products))}
	for _, p := range products {
		if _, ok := m.products[p.ID]; !ok {
			m.order = append(m.order, p.ID)
		}
		m.products[p.ID] = p
	}
	return m
}

// Get fetches a single product by identifier.
func (m *Memory) Get(_ context.Context, id string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	product, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := product
	return &copy, nil
}

// List returns all products in seed order.
func (m *Memory) List(_ context.Context) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]Product, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.products[id])
	}
	return result, nil
}
