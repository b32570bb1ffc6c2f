package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
	"github.com/jcmexdev/ecommerce-analytics/internal/pipeline"
)

const salesTopProductCount = 5

// SalesAnalytics aggregates orders in [startDate, endDate] inclusive into
// overall totals, per-day sales, per-category sales and the top five
// products by quantity. The four views are computed concurrently.
func (s *Service) SalesAnalytics(ctx context.Context, startDate, endDate string) (*SalesAnalytics, error) {
	start, _, err := parseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, bareDay, err := parseDate(endDate)
	if err != nil {
		return nil, err
	}
	if bareDay {
		// A bare end day means "through that whole day".
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	orders, err := s.orders.ListBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list orders between %s and %s: %w", startDate, endDate, err)
	}
	products, err := s.productIndex(ctx)
	if err != nil {
		return nil, err
	}

	result := &SalesAnalytics{
		SalesByDay:      []DailySales{},
		SalesByCategory: []CategorySales{},
		TopProducts:     []TopProduct{},
	}

	// The data is already loaded; the sub-aggregations are pure in-memory
	// transforms that cannot fail, so the group only joins the fan-out.
	// No derived context: there is nothing left to cancel.
	var g errgroup.Group

	g.Go(func() error {
		for _, o := range orders {
			result.TotalSales += o.Total
		}
		result.OrderCount = len(orders)
		if result.OrderCount > 0 {
			result.AverageOrderValue = result.TotalSales / float64(result.OrderCount)
		}
		return nil
	})

	g.Go(func() error {
		result.SalesByDay = salesByDay(orders)
		return nil
	})

	var categories []categoryAmount
	g.Go(func() error {
		categories = categoryTotals(orders, products)
		return nil
	})

	g.Go(func() error {
		result.TopProducts = topProductsFrom(orders, products, salesTopProductCount)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Percentages need the overall total, so they are derived after the
	// fan-out joins.
	result.SalesByCategory = pipeline.Map(categories, func(c categoryAmount) CategorySales {
		pct := 0.0
		if result.TotalSales > 0 {
			pct = c.amount / result.TotalSales * 100
		}
		return CategorySales{Category: c.category, Sales: c.amount, Percentage: pct}
	})

	return result, nil
}

type daySales struct {
	sales float64
	count int
}

func salesByDay(orders []domain.Order) []DailySales {
	grouped := pipeline.GroupBy(orders,
		func(o domain.Order) string { return o.OrderDate.UTC().Format("2006-01-02") },
		func(d daySales, o domain.Order) daySales {
			d.sales += o.Total
			d.count++
			return d
		},
	)

	out := make([]DailySales, 0, len(grouped))
	for date, d := range grouped {
		out = append(out, DailySales{Date: date, Sales: d.sales, OrderCount: d.count})
	}
	return pipeline.SortBy(out, func(a, b DailySales) bool { return a.Date < b.Date })
}
