package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopease/storefront/internal/orders/domain"
	"github.com/shopease/storefront/internal/orders/ports"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, order domain.Order) error {
	shipping, err := json.Marshal(order.Shipping)
	if err != nil {
		return fmt.Errorf("marshal shipping info: %w", err)
	}
	payment, err := json.Marshal(order.Payment)
	if err != nil {
		return fmt.Errorf("marshal payment info: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO orders (
			id, order_number, customer_email, shipping_info, payment_info,
			subtotal, shipping_cost, tax, total, status, delivery_date,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = tx.Exec(ctx, query,
		order.ID,
		order.OrderNumber,
		order.CustomerEmail,
		shipping,
		payment,
		order.Subtotal,
		order.ShippingCost,
		order.Tax,
		order.Total,
		order.Status,
		order.DeliveryDate,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, image, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, item := range order.Items {
		if _, err := tx.Exec(ctx, itemQuery,
			order.ID,
			item.ProductID,
			item.Name,
			item.UnitPrice,
			item.Quantity,
			item.Image,
			i,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, order_number, customer_email, shipping_info, payment_info,
		       subtotal, shipping_cost, tax, total, status, delivery_date,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	order, err := r.scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]domain.Order, error) {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	query := `
		SELECT id, order_number, customer_email, shipping_info, payment_info,
		       subtotal, shipping_cost, tax, total, status, delivery_date,
		       created_at, updated_at
		FROM orders
		WHERE ($1::text IS NULL OR status = $1)
		  AND ($2::text IS NULL OR lower(customer_email) = lower($2))
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	var statusFilter *string
	if filter.Status != nil {
		s := string(*filter.Status)
		statusFilter = &s
	}

	var emailFilter *string
	if filter.CustomerEmail != "" {
		e := filter.CustomerEmail
		emailFilter = &e
	}

	offset := (page - 1) * pageSize

	rows, err := r.pool.Query(ctx, query, statusFilter, emailFilter, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	return nil
}

func (r *Repository) scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var shipping, payment []byte

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.CustomerEmail,
		&shipping,
		&payment,
		&order.Subtotal,
		&order.ShippingCost,
		&order.Tax,
		&order.Total,
		&order.Status,
		&order.DeliveryDate,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(shipping, &order.Shipping); err != nil {
		return nil, fmt.Errorf("unmarshal shipping info: %w", err)
	}
	if err := json.Unmarshal(payment, &order.Payment); err != nil {
		return nil, fmt.Errorf("unmarshal payment info: %w", err)
	}

	return &order, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID string) ([]domain.Item, error) {
	query := `
		SELECT product_id, name, unit_price, quantity, image
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(
			&item.ProductID,
			&item.Name,
			&item.UnitPrice,
			&item.Quantity,
			&item.Image,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}
