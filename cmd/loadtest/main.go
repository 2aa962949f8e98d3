// Command loadtest drives a running catalogd with a mix of catalog queries
// and reports throughput and latency per query kind.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog"
)

// Target is one request of the workload.
type Target struct {
	Kind string
	Path string
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of catalogd")
	concurrency := flag.Int("concurrency", 10, "number of concurrent workers")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	dbPath := flag.String("db", "", "database file to derive queries from (optional)")
	flag.Parse()

	targets := defaultTargets()
	if *dbPath != "" {
		c, err := catalog.LoadFile(*dbPath, catalog.WithSkipInvalid())
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading %s: %v\n", *dbPath, err)
			os.Exit(1)
		}
		targets = Targets(c)
	}

	fmt.Println("=== Catalog Load Test ===")
	fmt.Printf("Target:      %s\n", *baseURL)
	fmt.Printf("Concurrency: %d\n", *concurrency)
	fmt.Printf("Duration:    %s\n", *duration)
	fmt.Printf("Requests:    %d distinct\n\n", len(targets))

	stats := Run(context.Background(), *baseURL, targets, *concurrency, *duration)
	stats.Report(os.Stdout, *duration)
	if stats.total == 0 {
		fmt.Println("\nWARNING: no requests completed. Is catalogd running?")
		os.Exit(1)
	}
}

func defaultTargets() []Target {
	return []Target{
		{"search", "/api/v1/games/search?attr=engine&q=unity"},
		{"search", "/api/v1/games/search?attr=tags&q=indie"},
		{"search", "/api/v1/games/search?attr=dev&q=games"},
		{"tag", "/api/v1/tags/indie/games"},
		{"genre", "/api/v1/genres/RPG/games"},
		{"game", "/api/v1/games/1"},
		{"stats", "/api/v1/stats"},
	}
}

// Targets builds a workload covering every tag and genre of c, a sample of
// games and engine searches.
func Targets(c *catalog.Catalog) []Target {
	var out []Target
	for _, name := range c.TagNames() {
		out = append(out, Target{"tag", "/api/v1/tags/" + url.PathEscape(name) + "/games"})
	}
	for _, name := range c.GenreNames() {
		out = append(out, Target{"genre", "/api/v1/genres/" + url.PathEscape(name) + "/games"})
	}
	engines := make(map[string]bool)
	step := max(c.GameCount()/100, 1)
	for id := 1; id <= c.GameCount(); id += step {
		out = append(out, Target{"game", "/api/v1/games/" + strconv.Itoa(id)})
		g, _ := c.GameByID(id)
		if g.Engine != "" && !engines[g.Engine] {
			engines[g.Engine] = true
			out = append(out, Target{"search", "/api/v1/games/search?attr=engine&q=" + url.QueryEscape(g.Engine)})
		}
	}
	return append(out, Target{"stats", "/api/v1/stats"})
}

// Run cycles every worker through targets until d elapses.
func Run(ctx context.Context, baseURL string, targets []Target, workers int, d time.Duration) *Stats {
	stats := NewStats()
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        workers * 2,
			MaxIdleConnsPerHost: workers * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := w; ctx.Err() == nil; i++ {
				t := targets[i%len(targets)]
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+t.Path, nil)
				if err != nil {
					stats.Record(t.Kind, 0, 0, err)
					return
				}
				start := time.Now()
				resp, err := client.Do(req)
				elapsed := time.Since(start)
				if err != nil {
					if ctx.Err() == nil {
						stats.Record(t.Kind, elapsed, 0, err)
					}
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				stats.Record(t.Kind, elapsed, resp.StatusCode, nil)
			}
		}()
	}
	wg.Wait()
	return stats
}
