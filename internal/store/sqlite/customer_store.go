package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/store"
)

var _ store.CustomerStore = (*CustomerStore)(nil)

type CustomerStore struct {
	db *DB
}

func NewCustomerStore(db *DB) *CustomerStore {
	return &CustomerStore{db: db}
}

func (s *CustomerStore) Get(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `
		SELECT id, name, email, address, phone, registration_date
		FROM   customers
		WHERE  id = ?`

	c, err := scanCustomer(s.db.sql.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get customer %q: %w", id, err)
	}
	return c, nil
}

func (s *CustomerStore) List(ctx context.Context) ([]domain.Customer, error) {
	const q = `
		SELECT id, name, email, address, phone, registration_date
		FROM   customers
		ORDER  BY id`

	rows, err := s.db.sql.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list customers: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *CustomerStore) Insert(ctx context.Context, customers ...domain.Customer) error {
	const q = `
		INSERT INTO customers (id, name, email, address, phone, registration_date)
		VALUES (?, ?, ?, ?, ?, ?)`

	for _, c := range customers {
		addr, err := json.Marshal(c.Address)
		if err != nil {
			return fmt.Errorf("sqlite: marshal address for customer %q: %w", c.ID, err)
		}
		if _, err := s.db.sql.ExecContext(ctx, q,
			c.ID, c.Name, c.Email, string(addr), c.Phone, formatTime(c.RegistrationDate),
		); err != nil {
			return fmt.Errorf("sqlite: insert customer %q: %w", c.ID, err)
		}
	}
	return nil
}

func (s *CustomerStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.sql.ExecContext(ctx, `DELETE FROM customers`); err != nil {
		return fmt.Errorf("sqlite: delete customers: %w", err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	var addr, regDate string

	if err := row.Scan(&c.ID, &c.Name, &c.Email, &addr, &c.Phone, &regDate); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(addr), &c.Address); err != nil {
		return nil, fmt.Errorf("unmarshal address: %w", err)
	}

	var err error
	c.RegistrationDate, err = parseTime(regDate)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
