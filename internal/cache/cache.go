// Package cache wraps the key-value backend the coordinator caches
// aggregation results in. Entries are derived, disposable projections: any
// of them can be discarded and recomputed without correctness loss.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

type Cache interface {
	// Get returns the payload stored under key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores payload under key with a relative TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// DeleteExact removes a single key. Deleting an absent key is not an error.
	DeleteExact(ctx context.Context, key string) error

	// DeleteByPrefix removes every key starting with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
}
