// Package orderclient is the HTTP adapter for submitting finalized orders to
// the order service.
package orderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopease/storefront/internal/checkout/domain"
)

const defaultTimeout = 30 * time.Second

// Client submits order payloads to the order service REST API. Each Create
// call carries a fresh idempotency key so backend retries are safe while
// distinct submissions are never collapsed.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.http = c
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.http.Timeout = d
	}
}

// New creates a Client pointing at the given order service base URL.
func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type createOrderResponse struct {
	Order struct {
		ID           string          `json:"id"`
		OrderNumber  string          `json:"order_number"`
		DeliveryDate time.Time       `json:"delivery_date"`
		Total        json.RawMessage `json:"total"`
	} `json:"order"`
	Error string `json:"error"`
}

// Create submits the payload and returns the placed order details.
func (c *Client) Create(ctx context.Context, payload domain.Payload) (*domain.Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read order response: %w", err)
	}

	var decoded createOrderResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("order service returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	if resp.StatusCode >= 300 {
		if decoded.Error != "" {
			return nil, fmt.Errorf("order service rejected submission: %s", decoded.Error)
		}
		return nil, fmt.Errorf("order service returned status %d", resp.StatusCode)
	}

	result := &domain.Result{
		OrderID:      decoded.Order.ID,
		OrderNumber:  decoded.Order.OrderNumber,
		DeliveryDate: decoded.Order.DeliveryDate,
	}
	if len(decoded.Order.Total) > 0 {
		if err := json.Unmarshal(decoded.Order.Total, &result.Total); err != nil {
			return nil, fmt.Errorf("decode order total: %w", err)
		}
	}

	return result, nil
}
