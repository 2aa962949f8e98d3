// Command gamedb inspects and converts a game database file.
//
// Usage:
//
//	gamedb [flags] json [-compact] [-collection games|tags|genres] <db>
//	gamedb [flags] search [-limit n] <db> <attribute> <needle>
//	gamedb [flags] fmt <db>
//	gamedb [flags] stats <db>
//	gamedb [flags] tags|genres <db>
//	gamedb [flags] export-pg [-config file] <db>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/collection"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/export"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/postgres"
	"github.com/prometheus/client_golang/prometheus"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "gamedb: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("gamedb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	lenient := fs.Bool("lenient", false, "skip invalid lines instead of failing")
	logLevel := fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "pretty", "log format (pretty, text, json)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: gamedb [flags] json|search|fmt|stats|tags|genres|export-pg ...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	slog.SetDefault(slog.New(logger.NewHandler(stderr, *logLevel, *logFormat)))

	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}
	var opts []catalog.Option
	if *lenient {
		opts = append(opts, catalog.WithSkipInvalid())
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "json":
		return cmdJSON(rest, opts, stdout, stderr)
	case "search":
		return cmdSearch(rest, opts, stdout, stderr)
	case "fmt":
		return withCatalog(cmd, rest, 0, opts, stderr, func(c *catalog.Catalog, _ []string) error {
			return export.WriteFlat(stdout, c.Games().All())
		})
	case "stats":
		return withCatalog(cmd, rest, 0, opts, stderr, func(c *catalog.Catalog, _ []string) error {
			fmt.Fprintf(stdout, "games\t%d\ntags\t%d\ngenres\t%d\nskipped\t%d\n",
				c.GameCount(), c.TagCount(), c.GenreCount(), c.Skipped())
			return nil
		})
	case "tags", "genres":
		return withCatalog(cmd, rest, 0, opts, stderr, func(c *catalog.Catalog, _ []string) error {
			names := c.TagNames()
			if cmd == "genres" {
				names = c.GenreNames()
			}
			for _, n := range names {
				fmt.Fprintln(stdout, n)
			}
			return nil
		})
	case "export-pg":
		return cmdExportPG(ctx, rest, opts, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return errUsage
	}
}

// withCatalog loads the database named by the first argument and hands the
// remaining extra arguments to fn.
func withCatalog(name string, args []string, extra int, opts []catalog.Option, stderr io.Writer, fn func(*catalog.Catalog, []string) error) error {
	if len(args) != 1+extra {
		fmt.Fprintf(stderr, "%s: expected %d argument(s), got %d\n", name, 1+extra, len(args))
		return errUsage
	}
	c, err := catalog.LoadFile(args[0], opts...)
	if err != nil {
		return err
	}
	return fn(c, args[1:])
}

func cmdJSON(args []string, opts []catalog.Option, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(stderr)
	compact := fs.Bool("compact", false, "disable indentation")
	which := fs.String("collection", "games", "collection to dump: games, tags or genres")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return withCatalog("json", fs.Args(), 0, opts, stderr, func(c *catalog.Catalog, _ []string) error {
		switch *which {
		case "games":
			return export.WriteJSON(stdout, c.Games(), !*compact)
		case "tags":
			return export.WriteJSON(stdout, c.Tags(), !*compact)
		case "genres":
			return export.WriteJSON(stdout, c.Genres(), !*compact)
		default:
			return apperrors.Newf(apperrors.ErrInvalidInput, "unknown collection %q", *which)
		}
	})
}

func cmdSearch(args []string, opts []catalog.Option, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(stderr)
	limit := fs.Int("limit", 0, "maximum number of games to print (0 for all)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return withCatalog("search", fs.Args(), 2, opts, stderr, func(c *catalog.Catalog, rest []string) error {
		games, err := c.GamesWhere(rest[0], rest[1])
		if err != nil {
			return err
		}
		if *limit > 0 && len(games) > *limit {
			games = games[:*limit]
		}
		return export.WriteJSON(stdout, collection.FromSlice(games), true)
	})
}

func cmdExportPG(ctx context.Context, args []string, opts []catalog.Option, stderr io.Writer) error {
	fs := flag.NewFlagSet("export-pg", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	return withCatalog("export-pg", fs.Args(), 0, opts, stderr, func(c *catalog.Catalog, _ []string) error {
		client, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer client.Close()
		m := metrics.NewWithRegistry(prometheus.NewRegistry())
		return export.NewPostgres(client, cfg.Postgres.ExportTimeout, m).Export(ctx, c)
	})
}
