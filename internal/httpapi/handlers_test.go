package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopease/storefront/internal/catalog"
	checkoutdomain "github.com/shopease/storefront/internal/checkout/domain"
	checkoutmetrics "github.com/shopease/storefront/internal/checkout/metrics"
	"github.com/shopease/storefront/internal/cart"
	"github.com/shopease/storefront/internal/httpapi"
	"github.com/shopease/storefront/internal/identity"
	"github.com/shopease/storefront/internal/session"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
)

type stubOrderHandler struct {
	result *checkoutdomain.Result
	err    error
	calls  int
}

func (s *stubOrderHandler) Handle(_ context.Context, _ checkoutdomain.Payload) (*checkoutdomain.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type testServer struct {
	server  *httptest.Server
	orders  *stubOrderHandler
	session string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cat := catalog.NewMemory(
		catalog.Product{ID: "prod-1", Name: "Wireless Headphones", Price: decimal.RequireFromString("59.99"), Image: "/images/headphones.jpg", Stock: 10},
		catalog.Product{ID: "prod-2", Name: "Phone Case", Price: decimal.RequireFromString("24.99"), Image: "/images/case.jpg", Stock: 5},
		catalog.Product{ID: "prod-3", Name: "Sold Out Speaker", Price: decimal.RequireFromString("89.99"), Stock: 0},
	)

	users := identity.NewStaticUsers()
	users.Seed("Maria Lopez", "maria@example.com", "password123")
	idm := identity.NewManager(users, identity.NewMemoryStore(), slog.Default())

	orders := &stubOrderHandler{result: &checkoutdomain.Result{
		OrderID:     "ord-1",
		OrderNumber: "#ORD-12345",
		Total:       decimal.RequireFromString("65.989"),
	}}

	sessions := session.NewManager(idm, orders)

	meter := otel.Meter("test")
	cartMetrics, err := cart.NewMetrics(meter)
	if err != nil {
		t.Fatalf("failed to create cart metrics: %v", err)
	}
	coMetrics, err := checkoutmetrics.NewMetrics(meter)
	if err != nil {
		t.Fatalf("failed to create checkout metrics: %v", err)
	}

	handler := httpapi.NewHandler(sessions, cat, idm, cartMetrics, coMetrics, slog.Default())

	mux := http.NewServeMux()
	handler.Register(mux)

	server := httptest.NewServer(httpapi.WithSession(mux))
	t.Cleanup(server.Close)

	return &testServer{server: server, orders: orders, session: session.NewID()}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set(httpapi.SessionHeader, ts.session)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

func (ts *testServer) login(t *testing.T) {
	t.Helper()
	status, _ := ts.do(t, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "maria@example.com",
		"password": "password123",
	})
	if status != http.StatusOK {
		t.Fatalf("login failed with status %d", status)
	}
}

func (ts *testServer) addToCart(t *testing.T, productID string) map[string]any {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, "/v1/cart/items", map[string]string{"product_id": productID})
	if status != http.StatusOK {
		t.Fatalf("add to cart failed with status %d: %v", status, body)
	}
	return body
}

func TestListProducts(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/v1/products", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	products, ok := body["products"].([]any)
	if !ok || len(products) != 3 {
		t.Errorf("expected 3 products, got %v", body["products"])
	}
}

func TestGetProduct(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodGet, "/v1/products/prod-1", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	product := body["product"].(map[string]any)
	if product["name"] != "Wireless Headphones" {
		t.Errorf("unexpected product: %v", product)
	}

	status, _ = ts.do(t, http.MethodGet, "/v1/products/nope", nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", status)
	}
}

func TestAddToCart(t *testing.T) {
	ts := newTestServer(t)

	body := ts.addToCart(t, "prod-1")
	body = ts.addToCart(t, "prod-1")
	body = ts.addToCart(t, "prod-2")

	items := body["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 cart lines, got %d", len(items))
	}

	first := items[0].(map[string]any)
	if first["product_id"] != "prod-1" || first["quantity"] != float64(2) {
		t.Errorf("expected prod-1 with quantity 2, got %v", first)
	}

	if body["total_items"] != float64(3) {
		t.Errorf("expected total_items 3, got %v", body["total_items"])
	}
	if body["open"] != true {
		t.Error("expected cart to be marked open after add")
	}

	// 59.99*2 + 24.99 = 144.97; free shipping; tax 14.497
	quote := body["quote"].(map[string]any)
	if quote["subtotal"] != "144.97" {
		t.Errorf("expected subtotal 144.97, got %v", quote["subtotal"])
	}
	if quote["shipping_cost"] != "0" {
		t.Errorf("expected free shipping, got %v", quote["shipping_cost"])
	}
	if quote["tax"] != "14.497" {
		t.Errorf("expected tax 14.497, got %v", quote["tax"])
	}
}

func TestAddToCartRejections(t *testing.T) {
	ts := newTestServer(t)

	status, _ := ts.do(t, http.MethodPost, "/v1/cart/items", map[string]string{"product_id": "nope"})
	if status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", status)
	}

	status, _ = ts.do(t, http.MethodPost, "/v1/cart/items", map[string]string{"product_id": "prod-3"})
	if status != http.StatusConflict {
		t.Errorf("expected 409 for out-of-stock product, got %d", status)
	}

	status, _ = ts.do(t, http.MethodPost, "/v1/cart/items", map[string]string{})
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for missing product_id, got %d", status)
	}
}

func TestUpdateAndRemoveCartItems(t *testing.T) {
	ts := newTestServer(t)
	ts.addToCart(t, "prod-1")
	ts.addToCart(t, "prod-2")

	status, body := ts.do(t, http.MethodPut, "/v1/cart/items/prod-1", map[string]int{"quantity": 5})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["total_items"] != float64(6) {
		t.Errorf("expected total_items 6, got %v", body["total_items"])
	}

	// Zero quantity removes the line.
	_, body = ts.do(t, http.MethodPut, "/v1/cart/items/prod-1", map[string]int{"quantity": 0})
	if len(body["items"].([]any)) != 1 {
		t.Errorf("expected 1 line after zero-quantity update, got %v", body["items"])
	}

	// Absent ids are silently ignored.
	status, body = ts.do(t, http.MethodPut, "/v1/cart/items/ghost", map[string]int{"quantity": 3})
	if status != http.StatusOK {
		t.Errorf("expected 200 for absent id, got %d", status)
	}
	if len(body["items"].([]any)) != 1 {
		t.Errorf("expected cart unchanged, got %v", body["items"])
	}

	status, body = ts.do(t, http.MethodDelete, "/v1/cart/items/prod-2", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(body["items"].([]any)) != 0 {
		t.Errorf("expected empty cart, got %v", body["items"])
	}
}

func TestClearCart(t *testing.T) {
	ts := newTestServer(t)
	ts.addToCart(t, "prod-1")

	status, body := ts.do(t, http.MethodDelete, "/v1/cart", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["total_items"] != float64(0) {
		t.Errorf("expected empty cart, got %v", body)
	}

	// Clearing again is a no-op.
	status, _ = ts.do(t, http.MethodDelete, "/v1/cart", nil)
	if status != http.StatusOK {
		t.Errorf("expected 200 on repeat clear, got %d", status)
	}
}

func TestCartOpenClose(t *testing.T) {
	ts := newTestServer(t)

	_, body := ts.do(t, http.MethodPost, "/v1/cart/open", nil)
	if body["open"] != true {
		t.Error("expected cart open")
	}
	_, body = ts.do(t, http.MethodPost, "/v1/cart/close", nil)
	if body["open"] != false {
		t.Error("expected cart closed")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ts := newTestServer(t)
	ts.addToCart(t, "prod-1")

	other := &testServer{server: ts.server, orders: ts.orders, session: session.NewID()}
	_, body := other.do(t, http.MethodGet, "/v1/cart", nil)
	if body["total_items"] != float64(0) {
		t.Errorf("expected other session's cart to be empty, got %v", body)
	}
}

func TestMissingSessionHeaderMintsID(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.server.URL + "/v1/cart")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get(httpapi.SessionHeader) == "" {
		t.Error("expected a session ID to be minted and echoed")
	}
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.do(t, http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "maria@example.com",
		"password": "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad credentials, got %d", status)
	}
	if body["success"] == true {
		t.Error("expected failure result")
	}

	ts.login(t)

	_, body = ts.do(t, http.MethodGet, "/v1/auth/me", nil)
	user := body["user"].(map[string]any)
	if user["email"] != "maria@example.com" {
		t.Errorf("unexpected user: %v", user)
	}

	status, _ = ts.do(t, http.MethodPost, "/v1/auth/signup", map[string]string{
		"name":     "Other Maria",
		"email":    "maria@example.com",
		"password": "pw",
	})
	if status != http.StatusConflict {
		t.Errorf("expected 409 for taken email, got %d", status)
	}

	ts.do(t, http.MethodPost, "/v1/auth/logout", nil)
	_, body = ts.do(t, http.MethodGet, "/v1/auth/me", nil)
	if body["user"] != nil {
		t.Errorf("expected signed-out session, got %v", body["user"])
	}
}

func TestCheckoutGateBlocks(t *testing.T) {
	ts := newTestServer(t)

	_, body := ts.do(t, http.MethodGet, "/v1/checkout", nil)
	if body["blocked"] != "empty_cart" {
		t.Errorf("expected empty_cart block, got %v", body["blocked"])
	}

	ts.addToCart(t, "prod-1")
	_, body = ts.do(t, http.MethodGet, "/v1/checkout", nil)
	if body["blocked"] != "signed_out" {
		t.Errorf("expected signed_out block, got %v", body["blocked"])
	}

	ts.login(t)
	_, body = ts.do(t, http.MethodGet, "/v1/checkout", nil)
	if _, blocked := body["blocked"]; blocked {
		t.Errorf("expected no block, got %v", body["blocked"])
	}

	prefill := body["prefill"].(map[string]any)
	if prefill["full_name"] != "Maria Lopez" || prefill["country"] != "United States" {
		t.Errorf("unexpected prefill: %v", prefill)
	}
}

func shippingForm() map[string]string {
	return map[string]string{
		"full_name": "Maria Lopez",
		"email":     "maria@example.com",
		"phone":     "555-0100",
		"address":   "1 Main St",
		"city":      "Springfield",
		"state":     "IL",
		"zip_code":  "62701",
		"country":   "United States",
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	ts := newTestServer(t)
	ts.addToCart(t, "prod-1")
	ts.login(t)

	status, body := ts.do(t, http.MethodPost, "/v1/checkout/shipping", shippingForm())
	if status != http.StatusOK || body["step"] != "payment" {
		t.Fatalf("expected payment step, got %d %v", status, body)
	}

	status, body = ts.do(t, http.MethodPost, "/v1/checkout/payment", map[string]string{
		"card_number": "4242 4242 4242 4242 999",
		"card_name":   "Maria Lopez",
		"expiry":      "1229",
		"cvv":         "1234",
	})
	if status != http.StatusOK || body["step"] != "review" {
		t.Fatalf("expected review step, got %d %v", status, body)
	}
	if body["card_last_four"] != "4242" {
		t.Errorf("expected card_last_four 4242, got %v", body["card_last_four"])
	}

	status, body = ts.do(t, http.MethodPost, "/v1/checkout/order", nil)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", status, body)
	}
	order := body["order"].(map[string]any)
	if order["order_number"] != "#ORD-12345" {
		t.Errorf("unexpected order: %v", order)
	}
	if ts.orders.calls != 1 {
		t.Errorf("expected 1 submission, got %d", ts.orders.calls)
	}

	// Cart is cleared after a successful placement.
	_, body = ts.do(t, http.MethodGet, "/v1/cart", nil)
	if body["total_items"] != float64(0) {
		t.Errorf("expected cleared cart, got %v", body)
	}

	// The checkout is terminal.
	status, _ = ts.do(t, http.MethodPost, "/v1/checkout/order", nil)
	if status != http.StatusConflict {
		t.Errorf("expected 409 after placement, got %d", status)
	}

	// Confirmation is readable from the checkout view.
	_, body = ts.do(t, http.MethodGet, "/v1/checkout", nil)
	placed := body["placed"].(map[string]any)
	if placed["order_id"] != "ord-1" {
		t.Errorf("expected placed order in view, got %v", body)
	}

	// Reset starts a fresh checkout at the shipping step.
	_, body = ts.do(t, http.MethodPost, "/v1/checkout/reset", nil)
	if body["step"] != "shipping" {
		t.Errorf("expected shipping step after reset, got %v", body["step"])
	}
}

func TestCheckoutOutOfOrderSteps(t *testing.T) {
	ts := newTestServer(t)
	ts.addToCart(t, "prod-1")
	ts.login(t)

	status, _ := ts.do(t, http.MethodPost, "/v1/checkout/payment", map[string]string{"card_number": "4242"})
	if status != http.StatusConflict {
		t.Errorf("expected 409 for payment before shipping, got %d", status)
	}

	status, _ = ts.do(t, http.MethodPost, "/v1/checkout/order", nil)
	if status != http.StatusConflict {
		t.Errorf("expected 409 for placing before review, got %d", status)
	}

	status, _ = ts.do(t, http.MethodPost, "/v1/checkout/shipping", map[string]string{"full_name": "Maria"})
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 for incomplete shipping form, got %d", status)
	}
}

func TestCheckoutBack(t *testing.T) {
	ts := newTestServer(t)
	ts.addToCart(t, "prod-1")
	ts.login(t)

	_, body := ts.do(t, http.MethodPost, "/v1/checkout/back", nil)
	if body["moved"] != false {
		t.Error("expected no backward move at the first step")
	}

	ts.do(t, http.MethodPost, "/v1/checkout/shipping", shippingForm())

	_, body = ts.do(t, http.MethodPost, "/v1/checkout/back", nil)
	if body["moved"] != true || body["step"] != "shipping" {
		t.Errorf("expected move back to shipping, got %v", body)
	}
}

func TestFailedPlacementKeepsCart(t *testing.T) {
	ts := newTestServer(t)
	ts.addToCart(t, "prod-1")
	ts.login(t)
	ts.do(t, http.MethodPost, "/v1/checkout/shipping", shippingForm())
	ts.do(t, http.MethodPost, "/v1/checkout/payment", map[string]string{"card_number": "4242424242424242"})

	ts.orders.err = errors.New("order service unavailable")

	status, _ := ts.do(t, http.MethodPost, "/v1/checkout/order", nil)
	if status != http.StatusBadRequest {
		t.Errorf("expected 400 on failed submission, got %d", status)
	}

	_, body := ts.do(t, http.MethodGet, "/v1/cart", nil)
	if body["total_items"] != float64(1) {
		t.Errorf("expected cart preserved after failure, got %v", body)
	}

	// The step stays at review so the shopper can retry.
	ts.orders.err = nil
	status, _ = ts.do(t, http.MethodPost, "/v1/checkout/order", nil)
	if status != http.StatusCreated {
		t.Errorf("expected retry to succeed, got %d", status)
	}
}
