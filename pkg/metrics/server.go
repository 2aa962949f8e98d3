package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServeMux returns the scrape mux for gatherer; nil means the default
// registry.
func NewServeMux(gatherer prometheus.Gatherer) *http.ServeMux {
	handler := Handler()
	if gatherer != nil {
		handler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><h1>gamedb metrics</h1><p><a href="/metrics">/metrics</a></p></body></html>`)
	})
	return mux
}

// StartServer serves metrics on port in the background and returns its
// shutdown function.
func StartServer(port int, gatherer prometheus.Gatherer) (shutdown func(context.Context) error) {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      NewServeMux(gatherer),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("metrics server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()

	return server.Shutdown
}
