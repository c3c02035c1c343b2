package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopease/storefront/internal/session"
)

// SessionHeader carries the session identifier on every request and
// response. Clients persist it the way a browser persists a cookie.
const SessionHeader = "X-Session-ID"

type contextKey struct{ name string }

var sessionIDKey = contextKey{"session-id"}

// SessionID returns the session identifier bound to the request context.
// Empty only when the session middleware is not installed.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// WithSession resolves or mints the request's session ID, binds it to the
// context, and echoes it on the response so clients can persist it.
func WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(SessionHeader))
		if id == "" {
			id = session.NewID()
		}

		w.Header().Set(SessionHeader, id)

		ctx := context.WithValue(r.Context(), sessionIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
