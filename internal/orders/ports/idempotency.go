package ports

import "context"

// StoredResponse is the recorded outcome of a prior order submission,
// replayed verbatim when the same Idempotency-Key arrives again.
type StoredResponse struct {
	StatusCode int
	Body       []byte
	OrderID    string
}

// IdempotencyStore makes order creation safe to retry: the first submission
// under a key wins and every repeat observes its stored response.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, response StoredResponse) error
}
