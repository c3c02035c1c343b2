package identity

import (
	"context"
	"errors"
	"log/slog"
)

// AuthResult is returned from login/signup. Failures are values, not errors,
// so the caller can render feedback without a control-flow jump.
type AuthResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// Manager authenticates sessions against the user service and persists the
// resulting identity in the session store.
type Manager struct {
	users  UserService
	store  SessionStore
	logger *slog.Logger
}

// NewManager wires required dependencies. Nil dependencies are a wiring bug
// and panic immediately.
func NewManager(users UserService, store SessionStore, logger *slog.Logger) *Manager {
	if users == nil {
		panic("identity: nil UserService")
	}
	if store == nil {
		panic("identity: nil SessionStore")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{users: users, store: store, logger: logger}
}

// Login verifies credentials and persists the user for the session.
func (m *Manager) Login(ctx context.Context, sessionID, email, password string) AuthResult {
	user, err := m.users.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return AuthResult{Error: err.Error()}
		}
		m.logger.ErrorContext(ctx, "login failed", "error", err)
		return AuthResult{Error: "Login failed. Please try again."}
	}

	if err := m.store.Save(ctx, sessionID, *user); err != nil {
		m.logger.ErrorContext(ctx, "failed to persist session user", "error", err)
		return AuthResult{Error: "Login failed. Please try again."}
	}

	m.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return AuthResult{Success: true, User: user}
}

// Signup registers an account and persists the user for the session.
func (m *Manager) Signup(ctx context.Context, sessionID, name, email, password string) AuthResult {
	user, err := m.users.Register(ctx, name, email, password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return AuthResult{Error: err.Error()}
		}
		m.logger.ErrorContext(ctx, "signup failed", "error", err)
		return AuthResult{Error: "Signup failed. Please try again."}
	}

	if err := m.store.Save(ctx, sessionID, *user); err != nil {
		m.logger.ErrorContext(ctx, "failed to persist session user", "error", err)
		return AuthResult{Error: "Signup failed. Please try again."}
	}

	m.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return AuthResult{Success: true, User: user}
}

// Logout drops the persisted identity for the session. Idempotent.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	return m.store.Clear(ctx, sessionID)
}

// Current returns the session's user, or (nil, nil) when signed out.
func (m *Manager) Current(ctx context.Context, sessionID string) (*User, error) {
	return m.store.Load(ctx, sessionID)
}

// GateFor binds the manager to one session, satisfying the Gate interface
// consumed by the checkout orchestrator.
func (m *Manager) GateFor(sessionID string) Gate {
	return sessionGate{manager: m, sessionID: sessionID}
}

type sessionGate struct {
	manager   *Manager
	sessionID string
}

func (g sessionGate) Current(ctx context.Context) (*User, error) {
	return g.manager.Current(ctx, g.sessionID)
}
