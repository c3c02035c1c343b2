// Package httpapi exposes the storefront REST surface: catalog reads, cart
// mutations, authentication, and the checkout flow. All cart and checkout
// state is scoped to the session carried in the X-Session-ID header.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopease/storefront/internal/cart"
	"github.com/shopease/storefront/internal/catalog"
	"github.com/shopease/storefront/internal/checkout"
	checkoutdomain "github.com/shopease/storefront/internal/checkout/domain"
	checkoutmetrics "github.com/shopease/storefront/internal/checkout/metrics"
	checkoutports "github.com/shopease/storefront/internal/checkout/ports"
	"github.com/shopease/storefront/internal/identity"
	"github.com/shopease/storefront/internal/pricing"
	"github.com/shopease/storefront/internal/session"
)

// Handler exposes the storefront HTTP endpoints.
type Handler struct {
	sessions        *session.Manager
	catalog         catalog.Catalog
	users           *identity.Manager
	cartMetrics     *cart.Metrics
	checkoutMetrics *checkoutmetrics.Metrics
	logger          *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(
	sessions *session.Manager,
	cat catalog.Catalog,
	users *identity.Manager,
	cartMetrics *cart.Metrics,
	checkoutMetrics *checkoutmetrics.Metrics,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sessions:        sessions,
		catalog:         cat,
		users:           users,
		cartMetrics:     cartMetrics,
		checkoutMetrics: checkoutMetrics,
		logger:          logger,
	}
}

// Register binds the storefront handlers to the provided ServeMux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/products", h.handleProducts)
	mux.HandleFunc("/v1/products/", h.handleProductByID)
	mux.HandleFunc("/v1/cart", h.handleCart)
	mux.HandleFunc("/v1/cart/items", h.handleCartItems)
	mux.HandleFunc("/v1/cart/items/", h.handleCartItemByID)
	mux.HandleFunc("/v1/cart/open", h.handleCartOpen)
	mux.HandleFunc("/v1/cart/close", h.handleCartClose)
	mux.HandleFunc("/v1/auth/login", h.handleLogin)
	mux.HandleFunc("/v1/auth/signup", h.handleSignup)
	mux.HandleFunc("/v1/auth/logout", h.handleLogout)
	mux.HandleFunc("/v1/auth/me", h.handleMe)
	mux.HandleFunc("/v1/checkout", h.handleCheckout)
	mux.HandleFunc("/v1/checkout/shipping", h.handleCheckoutShipping)
	mux.HandleFunc("/v1/checkout/payment", h.handleCheckoutPayment)
	mux.HandleFunc("/v1/checkout/back", h.handleCheckoutBack)
	mux.HandleFunc("/v1/checkout/order", h.handleCheckoutOrder)
	mux.HandleFunc("/v1/checkout/reset", h.handleCheckoutReset)
}

func (h *Handler) session(r *http.Request) *session.Session {
	return h.sessions.Get(SessionID(r.Context()))
}

// CartView is the wire shape of the session's cart.
type CartView struct {
	Items      []cart.LineItem `json:"items"`
	TotalItems int             `json:"total_items"`
	Quote      pricing.Quote   `json:"quote"`
	Open       bool            `json:"open"`
}

func cartView(store *cart.Store) CartView {
	return CartView{
		Items:      store.Items(),
		TotalItems: store.TotalItems(),
		Quote:      pricing.NewQuote(store.Subtotal()),
		Open:       store.IsOpen(),
	}
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) handleProductByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/products/"), "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (h *Handler) handleCart(w http.ResponseWriter, r *http.Request) {
	s := h.session(r)

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, cartView(s.Cart))
	case http.MethodDelete:
		s.Cart.Clear()
		h.cartMetrics.RecordMutation(r.Context(), "clear")
		writeJSON(w, http.StatusOK, cartView(s.Cart))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// AddItemRequest identifies the product to add. Each add increments the
// line's quantity by one.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

func (h *Handler) handleCartItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !product.InStock() {
		writeError(w, http.StatusConflict, "product is out of stock")
		return
	}

	s := h.session(r)
	s.Cart.Add(cart.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.Image,
		UnitPrice: product.Price,
	})
	h.cartMetrics.RecordMutation(r.Context(), "add")

	writeJSON(w, http.StatusOK, cartView(s.Cart))
}

// UpdateItemRequest carries the new quantity for a cart line. Zero or
// negative removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) handleCartItemByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/cart/items/"), "/")
	if id == "" {
		writeError(w, http.StatusNotFound, "cart item not found")
		return
	}

	s := h.session(r)

	switch r.Method {
	case http.MethodPut:
		var req UpdateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		s.Cart.UpdateQuantity(id, req.Quantity)
		h.cartMetrics.RecordMutation(r.Context(), "update_quantity")
		writeJSON(w, http.StatusOK, cartView(s.Cart))
	case http.MethodDelete:
		s.Cart.Remove(id)
		h.cartMetrics.RecordMutation(r.Context(), "remove")
		writeJSON(w, http.StatusOK, cartView(s.Cart))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleCartOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s := h.session(r)
	s.Cart.Open()
	writeJSON(w, http.StatusOK, cartView(s.Cart))
}

func (h *Handler) handleCartClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s := h.session(r)
	s.Cart.Close()
	writeJSON(w, http.StatusOK, cartView(s.Cart))
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	result := h.users.Login(r.Context(), SessionID(r.Context()), req.Email, req.Password)
	if !result.Success {
		writeJSON(w, http.StatusUnauthorized, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SignupRequest carries new-account details.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	result := h.users.Signup(r.Context(), SessionID(r.Context()), req.Name, req.Email, req.Password)
	if !result.Success {
		writeJSON(w, http.StatusConflict, result)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := h.users.Logout(r.Context(), SessionID(r.Context())); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	user, err := h.users.Current(r.Context(), SessionID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// CheckoutView is the wire shape of the session's checkout state.
type CheckoutView struct {
	Blocked checkout.Blocked             `json:"blocked,omitempty"`
	Step    string                       `json:"step"`
	Summary checkout.Summary             `json:"summary"`
	Prefill *checkoutdomain.ShippingInfo `json:"prefill,omitempty"`
	Placed  *checkoutdomain.Result       `json:"placed,omitempty"`
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s := h.session(r)

	blocked, err := s.Checkout.Gate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	view := CheckoutView{
		Blocked: blocked,
		Step:    s.Checkout.Step().String(),
		Summary: s.Checkout.Summary(),
		Placed:  s.Checkout.Placed(),
	}

	if view.Summary.Shipping == nil && blocked == checkout.BlockedNone && view.Placed == nil {
		prefill, err := s.Checkout.PrefillShipping(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		view.Prefill = &prefill
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleCheckoutShipping(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var info checkoutdomain.ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	s := h.session(r)
	from := s.Checkout.Step().String()
	if err := s.Checkout.SubmitShipping(info); err != nil {
		writeCheckoutError(w, err)
		return
	}
	h.checkoutMetrics.RecordStepTransition(r.Context(), from, s.Checkout.Step().String())

	writeJSON(w, http.StatusOK, map[string]any{"step": s.Checkout.Step().String()})
}

func (h *Handler) handleCheckoutPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var input checkoutdomain.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	s := h.session(r)
	from := s.Checkout.Step().String()
	if err := s.Checkout.SubmitPayment(input); err != nil {
		writeCheckoutError(w, err)
		return
	}
	h.checkoutMetrics.RecordStepTransition(r.Context(), from, s.Checkout.Step().String())

	writeJSON(w, http.StatusOK, map[string]any{
		"step":           s.Checkout.Step().String(),
		"card_last_four": s.Checkout.Summary().CardLastFour,
	})
}

func (h *Handler) handleCheckoutBack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s := h.session(r)
	from := s.Checkout.Step().String()
	moved := s.Checkout.Back()
	if moved {
		h.checkoutMetrics.RecordStepTransition(r.Context(), from, s.Checkout.Step().String())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"moved": moved,
		"step":  s.Checkout.Step().String(),
	})
}

func (h *Handler) handleCheckoutOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s := h.session(r)
	result, err := s.Checkout.PlaceOrder(r.Context())
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"order": result})
}

func (h *Handler) handleCheckoutReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	s := h.sessions.ResetCheckout(SessionID(r.Context()))
	writeJSON(w, http.StatusOK, map[string]any{"step": s.Checkout.Step().String()})
}

func writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkoutports.ErrSubmissionInFlight),
		errors.Is(err, checkoutports.ErrAlreadyPlaced),
		errors.Is(err, checkoutports.ErrWrongStep):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
