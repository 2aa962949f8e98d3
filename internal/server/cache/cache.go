// Package cache memoizes catalog query results in Redis. Concurrent misses
// for the same key are collapsed into one computation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// Store is the byte-level backend; *redis.Client satisfies it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Flush(ctx context.Context) (int64, error)
}

type QueryCache struct {
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	gen     atomic.Uint64
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func New(store Store, ttl time.Duration, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "query-cache"),
	}
}

// Key builds the cache key of a query kind and its arguments. Arguments are
// case-folded because every cached query matches case-insensitively.
func Key(kind string, args ...string) string {
	raw := kind + "\x00" + strings.ToLower(strings.Join(args, "\x00"))
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s:%x", kind, sum[:16])
}

// GetOrCompute returns the cached value for key, or computes, stores and
// returns it. hit reports whether the value came from the cache. Backend
// failures degrade to computing the value; only compute errors are
// returned. A result whose computation overlapped an Invalidate is returned
// but not stored. A nil cache always computes.
func GetOrCompute[T any](ctx context.Context, c *QueryCache, key string, compute func() (T, error)) (value T, hit bool, err error) {
	if c == nil {
		value, err = compute()
		return value, false, err
	}
	if v, ok := lookup[T](ctx, c, key); ok {
		return v, true, nil
	}
	gen := c.gen.Load()
	res, err, _ := c.group.Do(fmt.Sprintf("%d/%s", gen, key), func() (any, error) {
		if v, ok := lookup[T](ctx, c, key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		if c.gen.Load() != gen {
			c.logger.Debug("dropping result computed across invalidation", "key", key)
			return v, nil
		}
		c.put(ctx, key, v)
		return v, nil
	})
	if err != nil {
		return value, false, err
	}
	return res.(T), false, nil
}

func lookup[T any](ctx context.Context, c *QueryCache, key string) (T, bool) {
	var v T
	data, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache get failed", "key", key, "error", err)
	}
	if !found || err != nil {
		c.metrics.CacheMissesTotal.Inc()
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("cache entry undecodable", "key", key, "error", err)
		c.metrics.CacheMissesTotal.Inc()
		return v, false
	}
	c.metrics.CacheHitsTotal.Inc()
	return v, true
}

func (c *QueryCache) put(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// Invalidate drops every cached result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	c.gen.Add(1)
	deleted, err := c.store.Flush(ctx)
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Info("query cache invalidated", "keys_deleted", deleted)
	return nil
}
