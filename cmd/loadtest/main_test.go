package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog"
)

func TestPercentile(t *testing.T) {
	l := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		p    float64
		want time.Duration
	}{
		{0, 1}, {50, 5}, {90, 9}, {99, 10}, {100, 10},
	}
	for _, tt := range tests {
		if got := percentile(l, tt.p); got != tt.want {
			t.Errorf("percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if percentile(nil, 50) != 0 {
		t.Error("empty input")
	}
}

func TestTargets(t *testing.T) {
	c, err := catalog.LoadFile("../../internal/catalog/testdata/games.db")
	if err != nil {
		t.Fatal(err)
	}
	kinds := make(map[string]int)
	for _, tg := range Targets(c) {
		kinds[tg.Kind]++
	}
	if kinds["tag"] != 3 || kinds["genre"] != 4 || kinds["game"] != 4 || kinds["stats"] != 1 {
		t.Errorf("kinds = %v", kinds)
	}
	// XNA, Microsoft xna framework, Unity.
	if kinds["search"] != 3 {
		t.Errorf("engine searches = %d", kinds["search"])
	}
}

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	stats := Run(context.Background(), srv.URL, []Target{{"game", "/ok"}, {"game", "/missing"}}, 2, 50*time.Millisecond)
	if stats.total == 0 || stats.errors != 0 {
		t.Fatalf("total = %d, errors = %d", stats.total, stats.errors)
	}
	var buf bytes.Buffer
	stats.Report(&buf, 50*time.Millisecond)
	if !strings.Contains(buf.String(), "404:") || !strings.Contains(buf.String(), "200:") {
		t.Errorf("report:\n%s", buf.String())
	}
}
