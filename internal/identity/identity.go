package identity

import (
	"context"
	"errors"
)

// User is the authenticated identity attached to a session. The checkout
// core treats it as opaque beyond prefilling shipping contact fields.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Gate exposes the current identity to consumers such as the checkout
// orchestrator. Absence of a user is (nil, nil), not an error; it is a
// precondition the caller must detect, never a crash.
type Gate interface {
	Current(ctx context.Context) (*User, error)
}

// SessionStore persists the authenticated user for a session under a fixed
// key, surviving application restarts.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, user User) error
	Load(ctx context.Context, sessionID string) (*User, error)
	Clear(ctx context.Context, sessionID string) error
}

// UserService is the external account backend used to verify credentials
// and register accounts.
type UserService interface {
	Authenticate(ctx context.Context, email, password string) (*User, error)
	Register(ctx context.Context, name, email, password string) (*User, error)
}

var (
	// ErrInvalidCredentials is returned by a UserService when the
	// email/password pair does not match an account.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an email that exists.
	ErrEmailTaken = errors.New("an account with this email already exists")
)
