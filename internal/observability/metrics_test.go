package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.IncChapterOutcome("succeeded")
	m.ObserveJob("x", "succeeded", time.Second)
	if m.Registry() != nil {
		t.Fatalf("nil metrics should have no registry")
	}
}

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.IncChapterOutcome("succeeded")
	m.IncChapterOutcome("succeeded")
	m.IncChapterOutcome("parse_error")
	m.ObserveAPI("GET", "/api/plans", "200", 5*time.Millisecond)

	if got := testutil.ToFloat64(m.chapterOutcomes.WithLabelValues("succeeded")); got != 2 {
		t.Fatalf("succeeded chapters: want 2 got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		"tutorialhub_coursegen_chapters_total",
		"tutorialhub_api_requests_total",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q", want)
		}
	}
}
