// Package store declares the persistence ports the engine and the checkout
// workflow depend on. Implementations live in the memory and sqlite
// subpackages; callers translate ErrNotFound into the domain error naming
// the missing resource.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
)

// ErrNotFound is returned by Get lookups when no record matches the id.
var ErrNotFound = errors.New("store: not found")

type CustomerStore interface {
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Insert(ctx context.Context, customers ...domain.Customer) error
	DeleteAll(ctx context.Context) error
}

type ProductStore interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Insert(ctx context.Context, products ...domain.Product) error

	// DecrementStock subtracts qty from the product's stock. It is a plain
	// decrement, not a compare-and-set: the stock check happens separately
	// in the checkout workflow.
	DecrementStock(ctx context.Context, id string, qty int) error

	DeleteAll(ctx context.Context) error
}

type OrderStore interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	Insert(ctx context.Context, orders ...domain.Order) error
	List(ctx context.Context) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	CountByCustomer(ctx context.Context, customerID string) (int, error)

	// ListBetween returns orders whose date falls in [start, end] inclusive.
	ListBetween(ctx context.Context, start, end time.Time) ([]domain.Order, error)

	DeleteAll(ctx context.Context) error
}
