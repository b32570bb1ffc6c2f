package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/store"
)

var _ store.OrderStore = (*OrderStore)(nil)

type OrderStore struct {
	db *DB
}

func NewOrderStore(db *DB) *OrderStore {
	return &OrderStore{db: db}
}

const orderColumns = `id, customer_id, items, total, status, payment_method, shipping_address, order_date`

func (s *OrderStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	o, err := scanOrder(s.db.sql.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get order %q: %w", id, err)
	}
	return o, nil
}

func (s *OrderStore) Insert(ctx context.Context, orders ...domain.Order) error {
	q := `INSERT INTO orders (` + orderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, o := range orders {
		items, err := json.Marshal(o.Items)
		if err != nil {
			return fmt.Errorf("sqlite: marshal items for order %q: %w", o.ID, err)
		}
		addr, err := json.Marshal(o.ShippingAddress)
		if err != nil {
			return fmt.Errorf("sqlite: marshal address for order %q: %w", o.ID, err)
		}
		if _, err := s.db.sql.ExecContext(ctx, q,
			o.ID, o.CustomerID, string(items), o.Total, string(o.Status),
			o.PaymentMethod, string(addr), formatTime(o.OrderDate),
		); err != nil {
			return fmt.Errorf("sqlite: insert order %q: %w", o.ID, err)
		}
	}
	return nil
}

func (s *OrderStore) List(ctx context.Context) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders`
	return s.queryOrders(ctx, q)
}

func (s *OrderStore) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = ?`
	return s.queryOrders(ctx, q, customerID)
}

func (s *OrderStore) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var n int
	err := s.db.sql.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE customer_id = ?`, customerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count orders for %q: %w", customerID, err)
	}
	return n, nil
}

func (s *OrderStore) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Order, error) {
	// The fixed-width TEXT timestamps compare lexicographically in
	// chronological order.
	q := `SELECT ` + orderColumns + ` FROM orders WHERE order_date >= ? AND order_date <= ?`
	return s.queryOrders(ctx, q, formatTime(start), formatTime(end))
}

func (s *OrderStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.sql.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("sqlite: delete orders: %w", err)
	}
	return nil
}

func (s *OrderStore) queryOrders(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := s.db.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: query orders: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var items, addr, status, orderDate string

	if err := row.Scan(&o.ID, &o.CustomerID, &items, &o.Total, &status,
		&o.PaymentMethod, &addr, &orderDate); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal([]byte(addr), &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("unmarshal shipping address: %w", err)
	}
	o.Status = domain.OrderStatus(status)

	var err error
	o.OrderDate, err = parseTime(orderDate)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
