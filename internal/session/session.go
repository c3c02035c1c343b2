// Package session tracks per-browser-session storefront state: the cart and
// the active checkout. Identity lives in its own durable store; everything
// here is in-process and scoped to one session ID.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopease/storefront/internal/cart"
	"github.com/shopease/storefront/internal/checkout"
	"github.com/shopease/storefront/internal/checkout/commands"
	"github.com/shopease/storefront/internal/identity"
)

// Session holds the state bound to one session ID.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Checkout
}

// Manager creates and looks up sessions. Sessions are created on first use
// so an unknown or expired ID behaves like a fresh visitor.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	identity *identity.Manager
	handler  commands.CommandHandler
}

// NewManager wires required dependencies. Nil dependencies are a wiring bug
// and panic immediately.
func NewManager(idm *identity.Manager, handler commands.CommandHandler) *Manager {
	if idm == nil {
		panic("session: nil identity manager")
	}
	if handler == nil {
		panic("session: nil place-order handler")
	}
	return &Manager{
		sessions: make(map[string]*Session),
		identity: idm,
		handler:  handler,
	}
}

// NewID mints a session identifier.
func NewID() string {
	return uuid.NewString()
}

// Get returns the session for the given ID, creating it if absent.
func (m *Manager) Get(sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getLocked(sessionID)
}

func (m *Manager) getLocked(sessionID string) *Session {
	if s, ok := m.sessions[sessionID]; ok {
		return s
	}

	store := cart.NewStore()
	s := &Session{
		ID:       sessionID,
		Cart:     store,
		Checkout: checkout.New(store, m.identity.GateFor(sessionID), m.handler),
	}
	m.sessions[sessionID] = s
	return s
}

// ResetCheckout discards the session's checkout and starts a fresh one over
// the same cart. Used after an order is placed so the next purchase begins
// at the shipping step.
func (m *Manager) ResetCheckout(sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getLocked(sessionID)
	s.Checkout = checkout.New(s.Cart, m.identity.GateFor(sessionID), m.handler)
	return s
}

// Drop removes a session entirely. Idempotent.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
