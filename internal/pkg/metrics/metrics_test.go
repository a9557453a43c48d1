package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRender(t *testing.T) {
	m := New()

	m.ObserveRender("line", OutcomeSuccess, 20*time.Millisecond)
	m.ObserveRender("line", OutcomeSuccess, 30*time.Millisecond)
	m.ObserveRender("other", OutcomeRenderFailed, time.Millisecond)

	if got := testutil.ToFloat64(m.renders.WithLabelValues("line", OutcomeSuccess)); got != 2 {
		t.Errorf("expected 2 line successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.renders.WithLabelValues("other", OutcomeRenderFailed)); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
}

func TestSweepCounters(t *testing.T) {
	m := New()

	m.AddSwept(3)
	m.AddSwept(0)
	m.IncSweepErrors()

	if got := testutil.ToFloat64(m.imagesSwept); got != 3 {
		t.Errorf("expected 3 swept, got %v", got)
	}
	if got := testutil.ToFloat64(m.sweepErrors); got != 1 {
		t.Errorf("expected 1 sweep error, got %v", got)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveRender("line", OutcomeSuccess, time.Second)
	m.AddSwept(1)
	m.IncSweepErrors()
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRender("pie", OutcomeSuccess, time.Millisecond)

	rec := httptest.NewRecorder()
	promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `chartsrv_renders_total{kind="pie",outcome="success"} 1`) {
		t.Errorf("expected render counter in exposition, got: %s", rec.Body.String())
	}
}
