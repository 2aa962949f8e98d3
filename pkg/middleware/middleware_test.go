package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" {
		t.Fatal("no request id in context")
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("header %q != context %q", rec.Header().Get(RequestIDHeader), seen)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123" {
		t.Errorf("request id = %q", seen)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/api/v1/games/12":         "/api/v1/games/{id}",
		"/api/v1/games/search":     "/api/v1/games/search",
		"/api/v1/games":            "/api/v1/games",
		"/api/v1/tags":             "/api/v1/tags",
		"/api/v1/tags/indie/games": "/api/v1/tags/{name}/games",
		"/api/v1/genres/RPG/games": "/api/v1/genres/{name}/games",
		"/health/ready":            "/health/ready",
	}
	for in, want := range tests {
		if got := normalizePath(in); got != want {
			t.Errorf("normalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMetricsRecordsStatus(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	h := Metrics(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/games/7", nil))
	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/games/{id}", "404"))
	if got != 1 {
		t.Errorf("http_requests_total = %v", got)
	}
}

func TestTimeout(t *testing.T) {
	h := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestTimeoutPassThrough(t *testing.T) {
	h := Timeout(time.Second)(http.HandlerFunc(ok))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://ports.example"})(http.HandlerFunc(ok))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/games", nil)
	req.Header.Set("Origin", "https://ports.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://ports.example" {
		t.Errorf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("foreign origin must not be allowed")
	}
}

func TestRateLimit(t *testing.T) {
	l := NewLimiter(1, time.Hour, 2)
	h := RateLimit(l)(http.HandlerFunc(ok))

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health probe limited: %d", rec.Code)
	}
}

func TestLimiterPrune(t *testing.T) {
	now := time.Unix(1000, 0)
	l := NewLimiter(10, time.Second, 10)
	l.now = func() time.Time { return now }
	l.Allow("a")
	now = now.Add(time.Hour)
	l.Allow("b")
	if n := l.Prune(time.Minute); n != 1 {
		t.Errorf("pruned %d", n)
	}
}
