package main

import (
	"fmt"
	"io"
	"math"
	"slices"
	"sync"
	"time"
)

// Stats accumulates request outcomes from all workers.
type Stats struct {
	mu        sync.Mutex
	total     int
	errors    int
	latencies map[string][]time.Duration
	codes     map[int]int
}

func NewStats() *Stats {
	return &Stats{
		latencies: make(map[string][]time.Duration),
		codes:     make(map[int]int),
	}
}

// Record stores one request of kind. A transport error has status 0.
func (s *Stats) Record(kind string, d time.Duration, status int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if err != nil {
		s.errors++
		return
	}
	// 404 is an expected answer for generated lookups.
	if status >= 500 || status == 429 {
		s.errors++
	}
	s.codes[status]++
	s.latencies[kind] = append(s.latencies[kind], d)
}

// Report prints totals and per-kind latency percentiles.
func (s *Stats) Report(w io.Writer, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintln(w, "=== Results ===")
	fmt.Fprintf(w, "Total Requests:  %d\n", s.total)
	fmt.Fprintf(w, "Errors:          %d\n", s.errors)
	if s.total > 0 {
		fmt.Fprintf(w, "Error Rate:      %.2f%%\n", float64(s.errors)/float64(s.total)*100)
		fmt.Fprintf(w, "Requests/sec:    %.2f\n", float64(s.total)/elapsed.Seconds())
	}

	kinds := make([]string, 0, len(s.latencies))
	for k := range s.latencies {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Latency ===")
	fmt.Fprintf(w, "%-8s %8s %10s %10s %10s %10s\n", "kind", "count", "p50", "p90", "p99", "max")
	for _, k := range kinds {
		l := slices.Clone(s.latencies[k])
		slices.Sort(l)
		fmt.Fprintf(w, "%-8s %8d %10s %10s %10s %10s\n", k, len(l),
			percentile(l, 50), percentile(l, 90), percentile(l, 99), l[len(l)-1])
	}

	codes := make([]int, 0, len(s.codes))
	for c := range s.codes {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Status Codes ===")
	for _, c := range codes {
		fmt.Fprintf(w, "  %d: %d\n", c, s.codes[c])
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	return sorted[min(max(idx, 0), len(sorted)-1)]
}
