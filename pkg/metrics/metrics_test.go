package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	m.CatalogLoadsTotal.WithLabelValues("ok").Inc()
	m.CatalogEntries.WithLabelValues("games").Set(42)

	if got := testutil.ToFloat64(m.CatalogLoadsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("catalog_loads_total{ok} = %v", got)
	}
	if got := testutil.ToFloat64(m.CatalogEntries.WithLabelValues("games")); got != 42 {
		t.Errorf("catalog_entries{games} = %v", got)
	}
}

func TestServeMuxExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	m.CatalogEntries.WithLabelValues("tags").Set(7)

	srv := httptest.NewServer(NewServeMux(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `catalog_entries{collection="tags"} 7`) {
		t.Errorf("metrics output missing gauge:\n%s", body)
	}
}
