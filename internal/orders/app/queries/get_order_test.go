package queries_test

import (
	"context"
	"testing"

	"github.com/shopease/storefront/internal/orders/app/queries"
	"github.com/shopease/storefront/internal/orders/domain"
	"github.com/shopease/storefront/internal/orders/ports"
)

type mockRepository struct {
	getByIDFn func(ctx context.Context, id string) (*domain.Order, error)
}

func (m *mockRepository) Create(ctx context.Context, order domain.Order) error { return nil }

func (m *mockRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ports.ErrNotFound
}

func (m *mockRepository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	return nil, nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	return nil
}

func TestGetOrderQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		orderID string
		wantErr bool
	}{
		{name: "valid id", orderID: "abc123", wantErr: false},
		{name: "empty id", orderID: "", wantErr: true},
		{name: "whitespace id", orderID: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := queries.GetOrderQuery{OrderID: tt.orderID}
			err := query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetOrderQueryHandler(t *testing.T) {
	want := &domain.Order{ID: "abc123", OrderNumber: "#ORD-10001"}
	repo := &mockRepository{
		getByIDFn: func(_ context.Context, id string) (*domain.Order, error) {
			if id == "abc123" {
				return want, nil
			}
			return nil, ports.ErrNotFound
		},
	}
	handler := queries.NewGetOrderQueryHandler(repo)

	order, err := handler.Handle(context.Background(), queries.GetOrderQuery{OrderID: "abc123"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if order.ID != "abc123" {
		t.Errorf("order id = %q, want abc123", order.ID)
	}

	if _, err := handler.Handle(context.Background(), queries.GetOrderQuery{OrderID: "missing"}); err == nil {
		t.Error("expected error for missing order")
	}

	if _, err := handler.Handle(context.Background(), queries.GetOrderQuery{}); err == nil {
		t.Error("expected validation error for empty id")
	}
}
