package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

const namespace = "tutorialhub"

// Metrics groups every collector the service exports. A nil *Metrics is valid
// and turns each Observe/Inc call into a no-op.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec

	generationPasses   *prometheus.CounterVec
	generationDuration prometheus.Histogram
	chapterOutcomes    *prometheus.CounterVec

	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec

	videoLookups *prometheus.CounterVec
	payments     *prometheus.CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide metrics once. Disabled metrics return nil.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics(prometheus.NewRegistry())
		if log != nil {
			log.Info("prometheus metrics initialized")
		}
	})
	return instance
}

func Current() *Metrics {
	return instance
}

// NewMetrics registers all collectors on reg, including Go and process collectors.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		apiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request latency in seconds by method/route/status.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		apiInflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "inflight_requests",
			Help:      "In-flight API requests.",
		}),
		llmRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "LLM requests by provider/operation/status.",
		}, []string{"provider", "operation", "status"}),
		llmLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "LLM request latency in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		}, []string{"provider", "operation"}),
		generationPasses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coursegen",
			Name:      "passes_total",
			Help:      "Content generation passes by outcome.",
		}, []string{"outcome"}),
		generationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "coursegen",
			Name:      "pass_duration_seconds",
			Help:      "Wall time of a content generation pass.",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 9),
		}),
		chapterOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coursegen",
			Name:      "chapters_total",
			Help:      "Chapters processed by outcome.",
		}, []string{"outcome"}),
		jobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Job handler runs by job type and status.",
		}, []string{"job_type", "status"}),
		jobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "run_duration_seconds",
			Help:      "Job handler duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"job_type"}),
		videoLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "video",
			Name:      "lookups_total",
			Help:      "Video searches by result (found, not_found, error).",
		}, []string{"result"}),
		payments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "events_total",
			Help:      "Billing events by kind and status.",
		}, []string{"kind", "status"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveLLMRequest(provider, operation, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(provider, operation, status).Inc()
	m.llmLatency.WithLabelValues(provider, operation).Observe(dur.Seconds())
}

func (m *Metrics) ObserveGenerationPass(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.generationPasses.WithLabelValues(outcome).Inc()
	m.generationDuration.Observe(dur.Seconds())
}

func (m *Metrics) IncChapterOutcome(outcome string) {
	if m == nil {
		return
	}
	m.chapterOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveJob(jobType, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(jobType, status).Inc()
	m.jobDuration.WithLabelValues(jobType).Observe(dur.Seconds())
}

func (m *Metrics) IncVideoLookup(result string) {
	if m == nil {
		return
	}
	m.videoLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) IncBillingEvent(kind, status string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(kind, status).Inc()
}
