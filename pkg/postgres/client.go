// Package postgres opens the lib/pq connection pool used for catalog
// snapshots and runs work inside transactions.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/config"
	_ "github.com/lib/pq"
)

type Client struct {
	DB *sql.DB
}

// New opens the pool and pings the server within ctx.
func New(ctx context.Context, cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &Client{DB: db}, nil
}

// FromDB wraps an already opened pool.
func FromDB(db *sql.DB) *Client {
	return &Client{DB: db}
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// InTx runs fn in a transaction, committing when fn returns nil and rolling
// back otherwise.
func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
