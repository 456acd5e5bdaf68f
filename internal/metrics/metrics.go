package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for the symptom checker.
//
// Each instance owns its registry, so several can coexist in one process.
// A nil *Metrics is valid and records nothing.
//
// Metrics:
//   - checker_sessions_created_total - Sessions started
//   - checker_sessions_swept_total - Expired sessions removed by the sweeper
//   - checker_matches_total - Match runs completed
//   - checker_match_conditions - Histogram of conditions returned per match
//   - checker_match_duration_seconds - Histogram of match latency
//   - checker_reports_generated_total - Reports persisted
//   - checker_search_throttled_total - Symptom searches rejected by the debounce
//   - checker_http_requests_total{method,route,status} - HTTP requests served
//   - checker_http_request_duration_seconds{method,route} - HTTP latency
type Metrics struct {
	Registry *prometheus.Registry

	SessionsCreatedTotal  prometheus.Counter
	SessionsSweptTotal    prometheus.Counter
	MatchesTotal          prometheus.Counter
	MatchConditions       prometheus.Histogram
	MatchDuration         prometheus.Histogram
	ReportsGeneratedTotal prometheus.Counter
	SearchThrottledTotal  prometheus.Counter

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates a registry with process collectors and the checker metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		SessionsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "checker_sessions_created_total",
			Help: "Total number of symptom checker sessions started",
		}),
		SessionsSweptTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "checker_sessions_swept_total",
			Help: "Total number of expired sessions removed by the sweeper",
		}),
		MatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "checker_matches_total",
			Help: "Total number of condition match runs",
		}),
		MatchConditions: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "checker_match_conditions",
			Help:    "Number of conditions returned per match run",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),
		MatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "checker_match_duration_seconds",
			Help:    "Duration of match runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}),
		ReportsGeneratedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "checker_reports_generated_total",
			Help: "Total number of reports generated",
		}),
		SearchThrottledTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "checker_search_throttled_total",
			Help: "Total number of symptom searches rejected by the debounce",
		}),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checker_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "checker_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *Metrics) RecordSessionCreated() {
	if m == nil {
		return
	}
	m.SessionsCreatedTotal.Inc()
}

func (m *Metrics) RecordSessionsSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.SessionsSweptTotal.Add(float64(n))
}

// RecordMatch records a completed match run and how many conditions it ranked.
func (m *Metrics) RecordMatch(d time.Duration, conditions int) {
	if m == nil {
		return
	}
	m.MatchesTotal.Inc()
	m.MatchConditions.Observe(float64(conditions))
	m.MatchDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordReportGenerated() {
	if m == nil {
		return
	}
	m.ReportsGeneratedTotal.Inc()
}

func (m *Metrics) RecordSearchThrottled() {
	if m == nil {
		return
	}
	m.SearchThrottledTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by the matched route
// template, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
