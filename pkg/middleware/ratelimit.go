package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per client address.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter allows requests per window with the given burst per client.
func NewLimiter(requests int, window time.Duration, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		limit:   rate.Limit(float64(requests) / window.Seconds()),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow consumes one token for key.
func (l *Limiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()
	return b.limiter.AllowN(now, 1)
}

// Prune drops buckets idle for longer than idle.
func (l *Limiter) Prune(idle time.Duration) int {
	cutoff := l.now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			n++
		}
	}
	return n
}

// retryAfter is the whole number of seconds until the next token.
func (l *Limiter) retryAfter() string {
	secs := 1
	if l.limit > 0 {
		secs = max(int(1/float64(l.limit)+0.999), 1)
	}
	return strconv.Itoa(secs)
}

// RateLimit rejects clients that exhaust their bucket with 429. Health
// probes are never limited.
func RateLimit(l *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/health") {
				next.ServeHTTP(w, r)
				return
			}
			if !l.Allow(clientAddr(r)) {
				w.Header().Set("Retry-After", l.retryAfter())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limit exceeded"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
