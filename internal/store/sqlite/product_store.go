package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/store"
)

var _ store.ProductStore = (*ProductStore)(nil)

type ProductStore struct {
	db *DB
}

func NewProductStore(db *DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) Get(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
		SELECT id, name, description, price, category, stock, sku, image_url
		FROM   products
		WHERE  id = ?`

	p, err := scanProduct(s.db.sql.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get product %q: %w", id, err)
	}
	return p, nil
}

func (s *ProductStore) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
		SELECT id, name, description, price, category, stock, sku, image_url
		FROM   products
		ORDER  BY id`

	rows, err := s.db.sql.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list products: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *ProductStore) Insert(ctx context.Context, products ...domain.Product) error {
	const q = `
		INSERT INTO products (id, name, description, price, category, stock, sku, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	for _, p := range products {
		if _, err := s.db.sql.ExecContext(ctx, q,
			p.ID, p.Name, p.Description, p.Price, p.Category, p.Stock, p.SKU, p.ImageURL,
		); err != nil {
			return fmt.Errorf("sqlite: insert product %q: %w", p.ID, err)
		}
	}
	return nil
}

func (s *ProductStore) DecrementStock(ctx context.Context, id string, qty int) error {
	const q = `UPDATE products SET stock = stock - ? WHERE id = ?`

	res, err := s.db.sql.ExecContext(ctx, q, qty, id)
	if err != nil {
		return fmt.Errorf("sqlite: decrement stock for %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: decrement stock for %q: %w", id, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ProductStore) DeleteAll(ctx context.Context) error {
	if _, err := s.db.sql.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("sqlite: delete products: %w", err)
	}
	return nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Stock, &p.SKU, &p.ImageURL); err != nil {
		return nil, err
	}
	return &p, nil
}
