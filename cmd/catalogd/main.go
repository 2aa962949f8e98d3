// Command catalogd serves a game database over HTTP and reloads it when the
// file changes, on SIGHUP, or when another replica announces a reload.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/events"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/server"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/server/cache"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/server/handler"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/redis"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg); err != nil {
		slog.Error("catalogd failed", "error", err)
		os.Exit(1)
	}
	slog.Info("catalogd stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port, nil)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(shutdownCtx)
		}()
	}

	var (
		opts        []server.Option
		queryCache  *cache.QueryCache
		redisClient *pkgredis.Client
	)
	if cfg.Redis.Enabled {
		client, err := pkgredis.NewClient(cfg.Redis, "gamedb")
		if err != nil {
			slog.Warn("redis unavailable, query caching disabled", "error", err)
		} else {
			redisClient = client
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis.CacheTTL, m)
			opts = append(opts, server.WithCache(queryCache))
			slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.CatalogReloaded)
		defer producer.Close()
		opts = append(opts, server.WithNotifier(events.NewPublisher(producer)))
	}

	svc := server.NewService(cfg.Catalog, m, opts...)
	if _, err := svc.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}

	checker := health.NewChecker()
	checker.Require("catalog", func(ctx context.Context) health.ComponentHealth {
		c, err := svc.Catalog()
		if err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d games", c.GameCount())}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusUp, Message: "disabled"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	mux := http.NewServeMux()
	handler.New(svc, queryCache, cfg.Search.DefaultLimit, cfg.Search.MaxResults).Routes(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var limiter *middleware.Limiter
	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.RequestTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	if rl := cfg.Server.RateLimit; rl.Enabled {
		limiter = middleware.NewLimiter(rl.Requests, rl.Window, rl.Burst)
		chain = middleware.RateLimit(limiter)(chain)
	}
	chain = middleware.CORS(cfg.Server.CORSOrigins)(chain)
	chain = middleware.RequestID(chain)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("catalogd listening", "addr", httpServer.Addr, "catalog", svc.Path())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				slog.Info("SIGHUP received, reloading catalog")
				svc.Reload(gctx)
			}
		}
	})
	if cfg.Catalog.Watch {
		g.Go(func() error {
			return svc.Watch(gctx, cfg.Catalog.ReloadDebounce)
		})
	}
	if cfg.Kafka.Enabled {
		group := cfg.Kafka.ConsumerGroup + "-" + svc.Origin()
		consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.CatalogReloaded, group,
			events.ReloadHandler(svc.Origin(), svc.ReloadFromPeer))
		g.Go(func() error {
			return consumer.Run(gctx)
		})
	}
	if limiter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if n := limiter.Prune(2 * cfg.Server.RateLimit.Window); n > 0 {
						slog.Debug("pruned idle rate limit buckets", "count", n)
					}
				}
			}
		})
	}
	return g.Wait()
}
