//go:build integration

package postgres_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopease/storefront/internal/database"
	"github.com/shopease/storefront/internal/orders/adapters/postgres"
	"github.com/shopease/storefront/internal/orders/domain"
	"github.com/shopease/storefront/internal/orders/ports"
	"github.com/shopspring/decimal"
	testpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := testpostgres.Run(ctx,
		"postgres:16-alpine",
		testpostgres.WithDatabase("test"),
		testpostgres.WithUsername("test"),
		testpostgres.WithPassword("test"),
		testpostgres.BasicWaitStrategies(),
		testpostgres.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").WithOccurrence(2)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	projectRoot := findProjectRoot(t)
	migrationsPath := filepath.Join(projectRoot, "migrations")

	if err := database.RunMigrations(connStr, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := database.NewPool(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func testOrder(id string, createdAt time.Time) domain.Order {
	subtotal := decimal.RequireFromString("84.98")
	shipping := decimal.NewFromInt(0)
	tax := decimal.RequireFromString("8.498")

	return domain.Order{
		ID:            id,
		OrderNumber:   "#ORD-54321",
		CustomerEmail: "maria@example.com",
		Items: []domain.Item{
			{
				ProductID: "prod-1",
				Name:      "Wireless Headphones",
				UnitPrice: decimal.RequireFromString("59.99"),
				Quantity:  1,
				Image:     "/images/headphones.jpg",
			},
			{
				ProductID: "prod-2",
				Name:      "Phone Case",
				UnitPrice: decimal.RequireFromString("24.99"),
				Quantity:  1,
				Image:     "/images/case.jpg",
			},
		},
		Shipping: domain.ShippingAddress{
			FullName: "Maria Lopez",
			Email:    "maria@example.com",
			Phone:    "555-0100",
			Address:  "1 Main St",
			City:     "Springfield",
			State:    "IL",
			ZipCode:  "62701",
			Country:  "United States",
		},
		Payment: domain.Payment{
			Method:       domain.PaymentMethodCard,
			CardLastFour: "4242",
			Status:       domain.PaymentStatusCompleted,
		},
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Total:        subtotal.Add(shipping).Add(tax),
		Status:       domain.StatusPending,
		DeliveryDate: createdAt.Add(5 * 24 * time.Hour),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func TestRepositoryCreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	order := testOrder("test-order-1", time.Now().UTC())

	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("failed to retrieve order: %v", err)
	}

	if retrieved.ID != order.ID {
		t.Errorf("expected ID %s, got %s", order.ID, retrieved.ID)
	}
	if retrieved.OrderNumber != order.OrderNumber {
		t.Errorf("expected order number %s, got %s", order.OrderNumber, retrieved.OrderNumber)
	}
	if retrieved.CustomerEmail != order.CustomerEmail {
		t.Errorf("expected email %s, got %s", order.CustomerEmail, retrieved.CustomerEmail)
	}
	if !retrieved.Total.Equal(order.Total) {
		t.Errorf("expected total %s, got %s", order.Total, retrieved.Total)
	}
	if !retrieved.Tax.Equal(order.Tax) {
		t.Errorf("expected tax %s, got %s", order.Tax, retrieved.Tax)
	}
	if retrieved.Status != order.Status {
		t.Errorf("expected status %s, got %s", order.Status, retrieved.Status)
	}
	if retrieved.Shipping != order.Shipping {
		t.Errorf("expected shipping info %+v, got %+v", order.Shipping, retrieved.Shipping)
	}
	if retrieved.Payment != order.Payment {
		t.Errorf("expected payment info %+v, got %+v", order.Payment, retrieved.Payment)
	}

	if len(retrieved.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(retrieved.Items))
	}
	// Items must come back in the order they were placed in.
	if retrieved.Items[0].ProductID != "prod-1" || retrieved.Items[1].ProductID != "prod-2" {
		t.Errorf("items returned out of order: %+v", retrieved.Items)
	}
	if !retrieved.Items[0].UnitPrice.Equal(order.Items[0].UnitPrice) {
		t.Errorf("expected unit price %s, got %s", order.Items[0].UnitPrice, retrieved.Items[0].UnitPrice)
	}
}

func TestRepositoryGetByID_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "nonexistent-id")
	if err != ports.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryList(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	base := time.Now().UTC()

	first := testOrder("order-1", base)
	second := testOrder("order-2", base.Add(1*time.Second))
	second.CustomerEmail = "other@example.com"
	second.Shipping.Email = "other@example.com"
	second.Status = domain.StatusCompleted
	third := testOrder("order-3", base.Add(2*time.Second))

	for _, order := range []domain.Order{first, second, third} {
		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("failed to create order: %v", err)
		}
	}

	t.Run("list all orders", func(t *testing.T) {
		result, err := repo.List(ctx, ports.ListFilter{})
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}

		if len(result) != 3 {
			t.Errorf("expected 3 orders, got %d", len(result))
		}

		if result[0].ID != "order-3" {
			t.Errorf("expected first order to be order-3 (newest), got %s", result[0].ID)
		}
	})

	t.Run("filter by status", func(t *testing.T) {
		status := domain.StatusPending
		result, err := repo.List(ctx, ports.ListFilter{Status: &status})
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}

		if len(result) != 2 {
			t.Errorf("expected 2 pending orders, got %d", len(result))
		}

		for _, order := range result {
			if order.Status != domain.StatusPending {
				t.Errorf("expected status pending, got %s", order.Status)
			}
		}
	})

	t.Run("filter by customer email", func(t *testing.T) {
		result, err := repo.List(ctx, ports.ListFilter{CustomerEmail: "OTHER@example.com"})
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}

		if len(result) != 1 {
			t.Fatalf("expected 1 order for customer, got %d", len(result))
		}
		if result[0].ID != "order-2" {
			t.Errorf("expected order-2, got %s", result[0].ID)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := repo.List(ctx, ports.ListFilter{Page: 1, PageSize: 2})
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}

		if len(result) != 2 {
			t.Errorf("expected 2 orders (page 1), got %d", len(result))
		}

		result, err = repo.List(ctx, ports.ListFilter{Page: 2, PageSize: 2})
		if err != nil {
			t.Fatalf("failed to list orders: %v", err)
		}

		if len(result) != 1 {
			t.Errorf("expected 1 order (page 2), got %d", len(result))
		}
	})
}

func TestRepositoryUpdateStatus(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	order := testOrder("test-order-update", time.Now().UTC().Add(-time.Minute))

	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	if err := repo.UpdateStatus(ctx, order.ID, domain.StatusProcessing); err != nil {
		t.Fatalf("failed to update status: %v", err)
	}

	updated, err := repo.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("failed to retrieve order: %v", err)
	}

	if updated.Status != domain.StatusProcessing {
		t.Errorf("expected status processing, got %s", updated.Status)
	}

	if !updated.UpdatedAt.After(order.UpdatedAt) {
		t.Error("expected updated_at to be updated")
	}
}

func TestRepositoryUpdateStatus_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewRepository(pool)
	ctx := context.Background()

	err := repo.UpdateStatus(ctx, "nonexistent-id", domain.StatusCompleted)
	if err != ports.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
