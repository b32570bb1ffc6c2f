package analytics

import (
	"context"
	"fmt"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/pipeline"
)

// TopSellingProducts ranks products by units sold across all orders,
// truncated to limit. Ties in totalSold break by product id ascending so
// the ranking is deterministic and monotonic as limit grows.
func (s *Service) TopSellingProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit < 1 {
		return nil, &domain.InvalidInputError{Msg: fmt.Sprintf("limit must be >= 1, got %d", limit)}
	}

	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	products, err := s.productIndex(ctx)
	if err != nil {
		return nil, err
	}

	return topProductsFrom(orders, products, limit), nil
}

type orderItemRef struct {
	orderID string
	item    domain.OrderItem
}

type productAgg struct {
	sold     int
	revenue  float64
	orderIDs map[string]struct{}
}

// topProductsFrom is the shared grouping behind TopSellingProducts and the
// top-products slice of SalesAnalytics.
func topProductsFrom(orders []domain.Order, products map[string]domain.Product, limit int) []TopProduct {
	refs := pipeline.Unwind(orders, func(o domain.Order) []orderItemRef {
		return pipeline.Map(o.Items, func(it domain.OrderItem) orderItemRef {
			return orderItemRef{orderID: o.ID, item: it}
		})
	})

	grouped := pipeline.GroupBy(refs,
		func(r orderItemRef) string { return r.item.ProductID },
		func(agg *productAgg, r orderItemRef) *productAgg {
			if agg == nil {
				agg = &productAgg{orderIDs: make(map[string]struct{})}
			}
			agg.sold += r.item.Quantity
			agg.revenue += r.item.Subtotal()
			agg.orderIDs[r.orderID] = struct{}{}
			return agg
		},
	)

	out := make([]TopProduct, 0, len(grouped))
	for productID, agg := range grouped {
		p, ok := products[productID]
		if !ok {
			p = domain.Product{ID: productID}
		}
		out = append(out, TopProduct{
			Product:    p,
			TotalSold:  agg.sold,
			Revenue:    agg.revenue,
			OrderCount: len(agg.orderIDs),
		})
	}

	out = pipeline.SortBy(out, func(a, b TopProduct) bool {
		if a.TotalSold != b.TotalSold {
			return a.TotalSold > b.TotalSold
		}
		return a.Product.ID < b.Product.ID
	})
	return pipeline.Head(out, limit)
}
