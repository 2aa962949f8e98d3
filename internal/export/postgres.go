package export

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/collection"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/index"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/record"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/resilience"
	"github.com/lib/pq"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS games (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	cover     TEXT NOT NULL DEFAULT '',
	engine    TEXT NOT NULL DEFAULT '',
	setup     TEXT NOT NULL DEFAULT '',
	runtime   TEXT NOT NULL DEFAULT '',
	store     TEXT[] NOT NULL DEFAULT '{}',
	hints     TEXT NOT NULL DEFAULT '',
	genres    TEXT[] NOT NULL DEFAULT '{}',
	tags      TEXT[] NOT NULL DEFAULT '{}',
	year      TEXT NOT NULL DEFAULT '',
	developer TEXT NOT NULL DEFAULT '',
	publisher TEXT NOT NULL DEFAULT '',
	version   TEXT NOT NULL DEFAULT '',
	status    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS tags (
	id    INTEGER PRIMARY KEY,
	name  TEXT NOT NULL UNIQUE,
	games INTEGER[] NOT NULL
);
CREATE TABLE IF NOT EXISTS genres (
	id    INTEGER PRIMARY KEY,
	name  TEXT NOT NULL UNIQUE,
	games INTEGER[] NOT NULL
);`

const insertGame = `INSERT INTO games
	(id, name, cover, engine, setup, runtime, store, hints, genres, tags, year, developer, publisher, version, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

// txRunner is satisfied by *postgres.Client.
type txRunner interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Postgres replaces the games, tags and genres tables with a catalog
// snapshot in a single transaction, so readers see the old or the new
// catalog and never a mix.
type Postgres struct {
	db      txRunner
	timeout time.Duration
	retry   resilience.RetryConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewPostgres(db txRunner, timeout time.Duration, m *metrics.Metrics) *Postgres {
	return &Postgres{
		db:      db,
		timeout: timeout,
		retry:   resilience.RetryConfig{MaxAttempts: 3, InitialDelay: 500 * time.Millisecond},
		metrics: m,
		logger:  slog.Default().With("component", "pg-export"),
	}
}

// Export writes c. A failed attempt rolls back entirely and is retried.
func (p *Postgres) Export(ctx context.Context, c *catalog.Catalog) error {
	start := time.Now()
	err := resilience.Retry(ctx, "postgres export", p.retry, func(ctx context.Context) error {
		return resilience.WithTimeout(ctx, p.timeout, "postgres export", func(ctx context.Context) error {
			return p.db.InTx(ctx, func(tx *sql.Tx) error {
				return writeSnapshot(ctx, tx, c)
			})
		})
	})
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.metrics.ExportsTotal.WithLabelValues("postgres", status).Inc()
	if err != nil {
		return err
	}
	p.logger.Info("catalog exported",
		"games", c.GameCount(),
		"tags", c.TagCount(),
		"genres", c.GenreCount(),
		"duration", time.Since(start),
	)
	return nil
}

func writeSnapshot(ctx context.Context, tx *sql.Tx, c *catalog.Catalog) error {
	if _, err := tx.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `TRUNCATE games, tags, genres`); err != nil {
		return fmt.Errorf("truncating tables: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertGame)
	if err != nil {
		return fmt.Errorf("preparing game insert: %w", err)
	}
	defer stmt.Close()
	for g := range c.Games().All() {
		if _, err := stmt.ExecContext(ctx, gameRow(g)...); err != nil {
			return fmt.Errorf("inserting game %d %q: %w", g.ID, g.Name, err)
		}
	}
	if err := writeItems(ctx, tx, "tags", c.Tags()); err != nil {
		return err
	}
	return writeItems(ctx, tx, "genres", c.Genres())
}

func writeItems(ctx context.Context, tx *sql.Tx, table string, items *collection.Collection[*index.Item]) error {
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (id, name, games) VALUES ($1, $2, $3)`, table))
	if err != nil {
		return fmt.Errorf("preparing %s insert: %w", table, err)
	}
	defer stmt.Close()
	for item := range items.All() {
		if _, err := stmt.ExecContext(ctx, itemRow(item)...); err != nil {
			return fmt.Errorf("inserting %s %q: %w", table, item.Name, err)
		}
	}
	return nil
}

func gameRow(g *record.Game) []any {
	return []any{
		g.ID, g.Name, g.Cover, g.Engine, g.Setup, g.Runtime,
		pq.Array(nonNil(g.Store)), g.Hints,
		pq.Array(nonNil(g.Genres)), pq.Array(nonNil(g.Tags)),
		g.Year, g.Developer, g.Publisher, g.Version, g.Status,
	}
}

func itemRow(item *index.Item) []any {
	games := make([]int64, len(item.Games))
	for i, id := range item.Games {
		games[i] = int64(id)
	}
	return []any{item.ID, item.Name, pq.Array(games)}
}

// nonNil keeps NOT NULL array columns satisfied; pq encodes a nil slice as
// NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
