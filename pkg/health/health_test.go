package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func fixed(s Status) Check {
	return func(context.Context) ComponentHealth {
		return ComponentHealth{Status: s}
	}
}

func TestRunAggregates(t *testing.T) {
	tests := []struct {
		name     string
		required Status
		optional Status
		want     Status
	}{
		{"all up", StatusUp, StatusUp, StatusUp},
		{"optional down", StatusUp, StatusDown, StatusDegraded},
		{"required degraded", StatusDegraded, StatusUp, StatusDegraded},
		{"required down", StatusDown, StatusUp, StatusDown},
		{"both down", StatusDown, StatusDown, StatusDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			c.Require("catalog", fixed(tt.required))
			c.Register("redis", fixed(tt.optional))
			r := c.Run(context.Background())
			if r.Status != tt.want {
				t.Errorf("status = %s, want %s", r.Status, tt.want)
			}
			if len(r.Components) != 2 {
				t.Errorf("components = %v", r.Components)
			}
		})
	}
}

func TestReadyHandler(t *testing.T) {
	c := NewChecker()
	c.Require("catalog", fixed(StatusUp))
	c.Register("redis", fixed(StatusDown))

	rec := httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("degraded service should stay ready, got %d", rec.Code)
	}
	var r Report
	if err := json.NewDecoder(rec.Body).Decode(&r); err != nil {
		t.Fatal(err)
	}
	if r.Status != StatusDegraded {
		t.Errorf("status = %s", r.Status)
	}

	c.Require("catalog", fixed(StatusDown))
	rec = httptest.NewRecorder()
	c.ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewChecker().LiveHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
