package identity_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/shopease/storefront/internal/identity"
)

func newManager(t *testing.T) (*identity.Manager, *identity.StaticUsers) {
	t.Helper()
	users := identity.NewStaticUsers()
	users.Seed("Jane Doe", "jane@example.com", "hunter2")
	return identity.NewManager(users, identity.NewMemoryStore(), slog.Default()), users
}

func TestLoginPersistsSessionUser(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t)

	result := manager.Login(ctx, "sess-1", "jane@example.com", "hunter2")
	if !result.Success {
		t.Fatalf("login failed: %s", result.Error)
	}
	if result.User == nil || result.User.Email != "jane@example.com" {
		t.Fatalf("unexpected user in result: %+v", result.User)
	}

	current, err := manager.Current(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if current == nil || current.Email != "jane@example.com" {
		t.Errorf("expected persisted user for session, got %+v", current)
	}
}

func TestLoginWrongPasswordIsResultNotError(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t)

	result := manager.Login(ctx, "sess-1", "jane@example.com", "wrong")
	if result.Success {
		t.Fatal("login should fail with wrong password")
	}
	if result.Error == "" {
		t.Error("failed login must carry a human-readable message")
	}

	current, err := manager.Current(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if current != nil {
		t.Errorf("no user should be persisted after failed login, got %+v", current)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t)

	result := manager.Signup(ctx, "sess-2", "Other Jane", "jane@example.com", "pw")
	if result.Success {
		t.Fatal("signup should fail for a taken email")
	}
	if result.Error == "" {
		t.Error("failed signup must carry a message")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t)

	manager.Login(ctx, "sess-1", "jane@example.com", "hunter2")
	if err := manager.Logout(ctx, "sess-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := manager.Logout(ctx, "sess-1"); err != nil {
		t.Fatalf("second logout: %v", err)
	}

	current, _ := manager.Current(ctx, "sess-1")
	if current != nil {
		t.Errorf("user should be gone after logout, got %+v", current)
	}
}

func TestGateForReflectsSessionState(t *testing.T) {
	ctx := context.Background()
	manager, _ := newManager(t)
	gate := manager.GateFor("sess-9")

	user, err := gate.Current(ctx)
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if user != nil {
		t.Fatal("gate should report no user before login")
	}

	manager.Login(ctx, "sess-9", "jane@example.com", "hunter2")
	user, err = gate.Current(ctx)
	if err != nil {
		t.Fatalf("gate after login: %v", err)
	}
	if user == nil {
		t.Fatal("gate should report the user after login")
	}
}
