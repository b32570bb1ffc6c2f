package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client), mr
}

func TestRedisCacheSetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte(`{"a":1}`), time.Hour))

	got, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)
}

func TestRedisCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCacheDeleteExact(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v"), time.Hour))
	require.NoError(t, c.DeleteExact(ctx, "k1"))

	_, err := c.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrMiss)

	// Deleting an absent key is fine.
	assert.NoError(t, c.DeleteExact(ctx, "k1"))
}

func TestRedisCacheDeleteByPrefix(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "top_products:5", []byte("a"), time.Hour))
	require.NoError(t, c.Set(ctx, "top_products:10", []byte("b"), time.Hour))
	require.NoError(t, c.Set(ctx, "customer_spending:c1", []byte("c"), time.Hour))

	require.NoError(t, c.DeleteByPrefix(ctx, "top_products:"))

	_, err := c.Get(ctx, "top_products:5")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = c.Get(ctx, "top_products:10")
	assert.ErrorIs(t, err, ErrMiss)

	// Other keys are untouched.
	got, err := c.Get(ctx, "customer_spending:c1")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), got)

	// No matching keys is a no-op, not an error.
	assert.NoError(t, c.DeleteByPrefix(ctx, "sales_analytics:"))
}

func TestRedisCacheBackendDownIsNotAMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := NewRedisCache(client)
	mr.Close()

	_, err := c.Get(context.Background(), "k1")
	require.Error(t, err)
	// The outage surfaces as a distinct error; the coordinator decides to
	// treat it as a miss, the cache layer itself does not lie about it.
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestKeyDerivation(t *testing.T) {
	assert.Equal(t, "customer_spending:C1", CustomerSpendingKey("C1"))
	assert.Equal(t, "top_products:10", TopProductsKey(10))
	assert.Equal(t, "sales_analytics:2024-01-01_2024-02-01", SalesAnalyticsKey("2024-01-01", "2024-02-01"))

	// Raw parameter strings, never re-serialized.
	assert.Equal(t, "sales_analytics:2024-01-01T00:00:00Z_2024-02-01T00:00:00Z",
		SalesAnalyticsKey("2024-01-01T00:00:00Z", "2024-02-01T00:00:00Z"))
}
