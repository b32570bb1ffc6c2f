package analytics

import (
	"context"
	"fmt"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/pipeline"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// CustomerOrders returns the page-th window (1-indexed) of a customer's
// order history, newest first, with pagination metadata. Out-of-range
// page/limit values fall back to the defaults.
func (s *Service) CustomerOrders(ctx context.Context, customerID string, page, limit int) (*OrderPage, error) {
	customer, err := s.getCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	total, err := s.orders.CountByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("count orders for customer %q: %w", customerID, err)
	}
	totalPages := (total + limit - 1) / limit

	orders, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders for customer %q: %w", customerID, err)
	}
	products, err := s.productIndex(ctx)
	if err != nil {
		return nil, err
	}

	sorted := pipeline.SortBy(orders, byDateDesc)

	window := []domain.Order{}
	if skip := (page - 1) * limit; skip < len(sorted) {
		window = pipeline.Head(sorted[skip:], limit)
	}

	return &OrderPage{
		Orders: pipeline.Map(window, func(o domain.Order) ResolvedOrder {
			return resolveOrder(o, *customer, products)
		}),
		TotalOrders:     total,
		TotalPages:      totalPages,
		CurrentPage:     page,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}, nil
}
