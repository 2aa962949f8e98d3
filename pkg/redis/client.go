// Package redis wraps go-redis/v9 for the catalog query cache. Every key is
// stored under a namespace prefix so a flush never touches foreign keys.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Client is a namespaced go-redis client.
type Client struct {
	rdb       *redis.Client
	namespace string
}

// NewClient connects and verifies the connection with a PING.
func NewClient(cfg config.RedisConfig, namespace string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return &Client{rdb: rdb, namespace: namespace}, nil
}

func (c *Client) key(k string) string {
	return c.namespace + ":" + k
}

// Get returns the value for k. A missing key is reported as found == false
// with a nil error.
func (c *Client) Get(ctx context.Context, k string) (value []byte, found bool, err error) {
	value, err = c.rdb.Get(ctx, c.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under k for ttl.
func (c *Client) Set(ctx context.Context, k string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(k), value, ttl).Err()
}

// Flush deletes every key of the namespace and returns how many were removed.
func (c *Client) Flush(ctx context.Context) (int64, error) {
	var deleted int64
	pattern := c.key("*")
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("deleting key %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scanning %s: %w", pattern, err)
	}
	return deleted, nil
}

// Ping reports whether Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
