package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(true)

	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()
	m.Retry()
	m.Unauthorized()
	m.ObserveRequest("GET", "200", 10*time.Millisecond)
	m.ObserveRequest("GET", "timeout", time.Second)

	if got := testutil.ToFloat64(m.cacheHitsTotal); got != 2 {
		t.Errorf("Expected 2 cache hits, got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheMissesTotal); got != 1 {
		t.Errorf("Expected 1 cache miss, got %v", got)
	}
	if got := testutil.ToFloat64(m.retriesTotal); got != 1 {
		t.Errorf("Expected 1 retry, got %v", got)
	}
	if got := testutil.ToFloat64(m.unauthorizedTotal); got != 1 {
		t.Errorf("Expected 1 unauthorized, got %v", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "timeout")); got != 1 {
		t.Errorf("Expected 1 timed out request, got %v", got)
	}
}

func TestMetrics_DisabledIsNoop(t *testing.T) {
	m := New(false)
	m.CacheHit()
	m.Retry()
	m.ObserveRequest("GET", "200", time.Millisecond)

	var nilMetrics *Metrics
	nilMetrics.CacheMiss()
	nilMetrics.Unauthorized()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 from disabled handler, got %d", rec.Code)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := New(true)
	m.CacheHit()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "campaign_watch_cache_hits_total 1") {
		t.Errorf("Expected cache hit counter in output, got:\n%s", body)
	}
}
