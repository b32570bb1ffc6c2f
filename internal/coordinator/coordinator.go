// Package coordinator layers cache-aside caching over the analytics engine.
//
// Reads check the cache first and compute on miss; order placement calls
// InvalidateForOrder afterwards. The store stays the source of truth: a
// cache outage degrades performance, never correctness, so every cache
// failure here is absorbed and logged instead of surfaced.
package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jcmexdev/ecommerce-analytics/internal/analytics"
	"github.com/jcmexdev/ecommerce-analytics/internal/cache"
	"github.com/jcmexdev/ecommerce-analytics/internal/domain"
)

// DefaultTTL applies uniformly to every cached query type.
const DefaultTTL = time.Hour

type Coordinator struct {
	engine *analytics.Service
	cache  cache.Cache
	ttl    time.Duration
}

func New(engine *analytics.Service, c cache.Cache, ttl time.Duration) *Coordinator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Coordinator{engine: engine, cache: c, ttl: ttl}
}

func (c *Coordinator) CustomerSpending(ctx context.Context, customerID string) (*analytics.CustomerSpending, error) {
	return readThrough(ctx, c, cache.CustomerSpendingKey(customerID),
		func(ctx context.Context) (*analytics.CustomerSpending, error) {
			return c.engine.CustomerSpending(ctx, customerID)
		})
}

func (c *Coordinator) TopSellingProducts(ctx context.Context, limit int) ([]analytics.TopProduct, error) {
	if limit < 1 {
		// Validate before touching the cache so bad input never mints a key.
		return nil, &domain.InvalidInputError{Msg: "limit must be >= 1"}
	}
	return readThrough(ctx, c, cache.TopProductsKey(limit),
		func(ctx context.Context) ([]analytics.TopProduct, error) {
			return c.engine.TopSellingProducts(ctx, limit)
		})
}

func (c *Coordinator) SalesAnalytics(ctx context.Context, startDate, endDate string) (*analytics.SalesAnalytics, error) {
	return readThrough(ctx, c, cache.SalesAnalyticsKey(startDate, endDate),
		func(ctx context.Context) (*analytics.SalesAnalytics, error) {
			return c.engine.SalesAnalytics(ctx, startDate, endDate)
		})
}

// CustomerOrders is deliberately not cached: its pagination metadata makes
// every page/limit combination a distinct, rarely-reused entry.
func (c *Coordinator) CustomerOrders(ctx context.Context, customerID string, page, limit int) (*analytics.OrderPage, error) {
	return c.engine.CustomerOrders(ctx, customerID, page, limit)
}

func (c *Coordinator) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return c.engine.ListCustomers(ctx)
}

func (c *Coordinator) GetOrder(ctx context.Context, id string) (*analytics.ResolvedOrder, error) {
	return c.engine.GetOrder(ctx, id)
}

// InvalidateForOrder runs the write-path invalidation set after an order
// commit: the customer's spending entry exactly, and every top-products and
// sales-analytics variant, since a new order can shift any limit or date
// range. Coarse but correct — evicting an unaffected key is fine, serving a
// stale aggregate is not. Failures are logged; the order already committed.
func (c *Coordinator) InvalidateForOrder(ctx context.Context, customerID string) {
	if err := c.cache.DeleteExact(ctx, cache.CustomerSpendingKey(customerID)); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "customer_id", customerID, "error", err)
	}
	for _, prefix := range []string{cache.TopProductsPrefix, cache.SalesAnalyticsPrefix} {
		if err := c.cache.DeleteByPrefix(ctx, prefix); err != nil {
			slog.WarnContext(ctx, "cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
}

// readThrough is the cache-aside read path: on hit return the cached
// payload unchanged, on miss (including any cache failure) compute through
// the engine and store the result best-effort.
func readThrough[T any](ctx context.Context, c *Coordinator, key string, compute func(context.Context) (T, error)) (T, error) {
	var zero T

	payload, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(payload, &v); err == nil {
			return v, nil
		}
		slog.WarnContext(ctx, "discarding undecodable cache entry", "key", key, "error", err)
	case !errors.Is(err, cache.ErrMiss):
		slog.WarnContext(ctx, "cache read failed, treating as miss", "key", key, "error", err)
	}

	v, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	if payload, err := json.Marshal(v); err != nil {
		slog.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
	} else if err := c.cache.Set(ctx, key, payload, c.ttl); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return v, nil
}
