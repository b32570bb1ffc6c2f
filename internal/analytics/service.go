// Package analytics implements the read-only aggregation queries over the
// customer, product and order collections. Every operation is deterministic
// given store state; caching happens a layer up, in the coordinator.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/pipeline"
	"github.com/jcmexdev/ecommerce-analytics/internal/store"
)

type Service struct {
	customers store.CustomerStore
	products  store.ProductStore
	orders    store.OrderStore
}

func NewService(customers store.CustomerStore, products store.ProductStore, orders store.OrderStore) *Service {
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
	}
}

// getCustomer translates the store sentinel into the domain error the
// transport layer maps to a 404.
func (s *Service) getCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &domain.NotFoundError{Resource: "customer", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load customer %q: %w", id, err)
	}
	return c, nil
}

// productIndex loads the product collection once and indexes it by id, so
// joins over order items are a map lookup instead of a store round trip per
// item.
func (s *Service) productIndex(ctx context.Context) (map[string]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	idx := make(map[string]domain.Product, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx, nil
}

// resolveOrder expands an order's product references from the index. A
// dangling reference resolves to a product holding only the id, mirroring
// how the source data treats referential integrity (fields match existing
// ids at write time, nothing more).
func resolveOrder(o domain.Order, customer domain.Customer, products map[string]domain.Product) ResolvedOrder {
	items := pipeline.Map(o.Items, func(it domain.OrderItem) ResolvedOrderItem {
		p, ok := products[it.ProductID]
		if !ok {
			p = domain.Product{ID: it.ProductID}
		}
		return ResolvedOrderItem{Product: p, Quantity: it.Quantity, Price: it.UnitPrice}
	})
	return ResolvedOrder{
		ID:              o.ID,
		Customer:        customer,
		Items:           items,
		Total:           o.Total,
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: o.ShippingAddress,
		OrderDate:       o.OrderDate,
	}
}

// byDateDesc orders newest first, ids breaking exact-timestamp ties so
// results are stable across runs.
func byDateDesc(a, b domain.Order) bool {
	if !a.OrderDate.Equal(b.OrderDate) {
		return a.OrderDate.After(b.OrderDate)
	}
	return a.ID < b.ID
}

// parseDate accepts RFC3339 timestamps and bare YYYY-MM-DD days, the two
// forms the dataset and API clients use.
func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), true, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, &domain.InvalidInputError{Msg: fmt.Sprintf("invalid date format %q", s)}
}

// ListCustomers returns the customer collection. Not cached, matching the
// source behaviour.
func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return pipeline.SortBy(customers, func(a, b domain.Customer) bool { return a.ID < b.ID }), nil
}

// GetOrder returns a single order with customer and product references
// expanded.
func (s *Service) GetOrder(ctx context.Context, id string) (*ResolvedOrder, error) {
	o, err := s.orders.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &domain.NotFoundError{Resource: "order", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load order %q: %w", id, err)
	}

	customer, err := s.getCustomer(ctx, o.CustomerID)
	if err != nil {
		return nil, err
	}
	products, err := s.productIndex(ctx)
	if err != nil {
		return nil, err
	}

	resolved := resolveOrder(*o, *customer, products)
	return &resolved, nil
}
