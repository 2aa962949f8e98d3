// Package server holds the running catalog of the HTTP service and replaces
// it on reload.
package server

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/events"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/metrics"
	"github.com/google/uuid"
)

// Invalidator drops results computed from a previous catalog.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Notifier tells other replicas about a reload.
type Notifier interface {
	CatalogReloaded(ctx context.Context, ev events.Reloaded) error
}

// Service owns the current catalog. Readers get an immutable snapshot;
// reloads build a new catalog and swap it in atomically, keeping the old one
// when the new load fails.
type Service struct {
	path     string
	strict   bool
	origin   string
	current  atomic.Pointer[catalog.Catalog]
	reloadMu sync.Mutex
	metrics  *metrics.Metrics
	cache    Invalidator
	notifier Notifier
	logger   *slog.Logger
}

type Option func(*Service)

func WithCache(c Invalidator) Option {
	return func(s *Service) { s.cache = c }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithOrigin names this replica in reload events; defaults to the host name
// with a random suffix.
func WithOrigin(origin string) Option {
	return func(s *Service) { s.origin = origin }
}

func NewService(cfg config.CatalogConfig, m *metrics.Metrics, opts ...Option) *Service {
	s := &Service{
		path:    cfg.Path,
		strict:  cfg.Strict,
		metrics: m,
		logger:  slog.Default().With("component", "catalog-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.origin == "" {
		host, _ := os.Hostname()
		s.origin = host + "-" + uuid.NewString()[:8]
	}
	return s
}

// Origin is the replica name used in reload events.
func (s *Service) Origin() string { return s.origin }

// Path is the database file served.
func (s *Service) Path() string { return s.path }

// Catalog returns the current snapshot, or ErrCatalogUnavailable before the
// first successful load.
func (s *Service) Catalog() (*catalog.Catalog, error) {
	c := s.current.Load()
	if c == nil {
		return nil, apperrors.New(apperrors.ErrCatalogUnavailable, "no catalog loaded yet")
	}
	return c, nil
}

// Reload loads the database again, swaps it in and notifies peers.
func (s *Service) Reload(ctx context.Context) (*catalog.Catalog, error) {
	return s.reload(ctx, true)
}

// ReloadFromPeer is Reload without the notification, for reacting to another
// replica's event.
func (s *Service) ReloadFromPeer(ctx context.Context) error {
	_, err := s.reload(ctx, false)
	return err
}

func (s *Service) reload(ctx context.Context, notify bool) (*catalog.Catalog, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	opts := []catalog.Option{catalog.WithLogger(s.logger)}
	if !s.strict {
		opts = append(opts, catalog.WithSkipInvalid())
	}
	start := time.Now()
	c, err := catalog.LoadFile(s.path, opts...)
	s.metrics.CatalogLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.CatalogLoadsTotal.WithLabelValues("error").Inc()
		s.logger.Error("catalog load failed", "path", s.path, "error", err)
		return nil, err
	}
	s.metrics.CatalogLoadsTotal.WithLabelValues("ok").Inc()
	s.metrics.CatalogEntries.WithLabelValues("games").Set(float64(c.GameCount()))
	s.metrics.CatalogEntries.WithLabelValues("tags").Set(float64(c.TagCount()))
	s.metrics.CatalogEntries.WithLabelValues("genres").Set(float64(c.GenreCount()))
	s.metrics.CatalogSkippedLines.Set(float64(c.Skipped()))

	s.current.Store(c)
	s.logger.Info("catalog loaded",
		"path", s.path,
		"games", c.GameCount(),
		"tags", c.TagCount(),
		"genres", c.GenreCount(),
		"skipped", c.Skipped(),
		"duration", time.Since(start),
	)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn("cache invalidation after reload failed", "error", err)
		}
	}
	if notify && s.notifier != nil {
		ev := events.Reloaded{
			Origin:   s.origin,
			Path:     s.path,
			Games:    c.GameCount(),
			Tags:     c.TagCount(),
			Genres:   c.GenreCount(),
			Skipped:  c.Skipped(),
			LoadedAt: c.LoadedAt(),
		}
		if err := s.notifier.CatalogReloaded(ctx, ev); err != nil {
			s.logger.Warn("reload notification failed", "error", err)
		}
	}
	return c, nil
}

// Observe records one query of kind with its outcome.
func (s *Service) Observe(kind string, start time.Time, err error, empty bool) {
	result := "hit"
	switch {
	case err != nil:
		result = "error"
	case empty:
		result = "empty"
	}
	s.metrics.QueriesTotal.WithLabelValues(kind, result).Inc()
	s.metrics.QueryLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
