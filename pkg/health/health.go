// Package health runs registered component checks concurrently and serves
// liveness and readiness probes. A failing optional component only degrades
// the report; a failing required one takes it down.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status is the health state of a component or of the whole service.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Check probes one component.
type Check func(ctx context.Context) ComponentHealth

// ComponentHealth is the result of one check.
type ComponentHealth struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Report aggregates every check.
type Report struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	Timestamp  string                     `json:"timestamp"`
}

type registration struct {
	check    Check
	required bool
}

// Checker holds the registered checks.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]registration
}

func NewChecker() *Checker {
	return &Checker{checks: make(map[string]registration)}
}

// Require registers a check whose failure marks the service down.
func (c *Checker) Require(name string, check Check) {
	c.register(name, check, true)
}

// Register registers an optional check; a down result only degrades the
// service.
func (c *Checker) Register(name string, check Check) {
	c.register(name, check, false)
}

func (c *Checker) register(name string, check Check, required bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = registration{check: check, required: required}
}

// Run executes all checks concurrently.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := make(map[string]registration, len(c.checks))
	for name, reg := range c.checks {
		checks[name] = reg
	}
	c.mu.RUnlock()

	report := Report{
		Status:     StatusUp,
		Components: make(map[string]ComponentHealth, len(checks)),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, reg := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			result := reg.check(ctx)
			result.Latency = time.Since(start).Round(time.Microsecond).String()
			mu.Lock()
			defer mu.Unlock()
			report.Components[name] = result
			switch {
			case result.Status == StatusUp:
			case reg.required && result.Status == StatusDown:
				report.Status = StatusDown
			case report.Status != StatusDown:
				report.Status = StatusDegraded
			}
		}()
	}
	wg.Wait()
	return report
}

// LiveHandler answers liveness probes.
func (c *Checker) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
	}
}

// ReadyHandler answers readiness probes: 503 only when the service is down.
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		report := c.Run(ctx)
		status := http.StatusOK
		if report.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
