package analytics

import (
	"context"
	"fmt"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/pipeline"
)

const recentOrderCount = 5

// CustomerSpending aggregates a customer's full order history: totals,
// average order value, the five most recent orders with product details,
// and spend broken down by product category.
func (s *Service) CustomerSpending(ctx context.Context, customerID string) (*CustomerSpending, error) {
	customer, err := s.getCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders for customer %q: %w", customerID, err)
	}

	// A customer with no orders is a valid, zeroed result, not an error.
	if len(orders) == 0 {
		return &CustomerSpending{
			Customer:            *customer,
			RecentOrders:        []ResolvedOrder{},
			PurchasesByCategory: []CategorySpending{},
		}, nil
	}

	products, err := s.productIndex(ctx)
	if err != nil {
		return nil, err
	}

	var totalSpent float64
	for _, o := range orders {
		totalSpent += o.Total
	}
	orderCount := len(orders)

	recent := pipeline.Head(pipeline.SortBy(orders, byDateDesc), recentOrderCount)
	recentOrders := pipeline.Map(recent, func(o domain.Order) ResolvedOrder {
		return resolveOrder(o, *customer, products)
	})

	byCategory := pipeline.Map(categoryTotals(orders, products), func(c categoryAmount) CategorySpending {
		pct := 0.0
		if totalSpent > 0 {
			pct = c.amount / totalSpent * 100
		}
		return CategorySpending{Category: c.category, Amount: c.amount, Percentage: pct}
	})

	return &CustomerSpending{
		Customer:            *customer,
		TotalSpent:          totalSpent,
		OrderCount:          orderCount,
		AverageOrderValue:   totalSpent / float64(orderCount),
		RecentOrders:        recentOrders,
		PurchasesByCategory: byCategory,
	}, nil
}

type categoryAmount struct {
	category string
	amount   float64
}

// categoryTotals unwinds order items, joins product categories and sums
// item subtotals per category, highest first.
func categoryTotals(orders []domain.Order, products map[string]domain.Product) []categoryAmount {
	items := pipeline.Unwind(orders, func(o domain.Order) []domain.OrderItem { return o.Items })

	grouped := pipeline.GroupBy(items,
		func(it domain.OrderItem) string { return products[it.ProductID].Category },
		func(sum float64, it domain.OrderItem) float64 { return sum + it.Subtotal() },
	)

	out := make([]categoryAmount, 0, len(grouped))
	for category, amount := range grouped {
		out = append(out, categoryAmount{category: category, amount: amount})
	}
	return pipeline.SortBy(out, func(a, b categoryAmount) bool {
		if a.amount != b.amount {
			return a.amount > b.amount
		}
		return a.category < b.category
	})
}
