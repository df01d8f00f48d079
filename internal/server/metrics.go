package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	extractions *prometheus.CounterVec
	generations *prometheus.CounterVec
	cache       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docquiz_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docquiz_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"route"}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docquiz_extractions_total",
			Help: "Document text extractions by format and outcome.",
		}, []string{"format", "outcome"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docquiz_quiz_generations_total",
			Help: "Quiz generation attempts by outcome.",
		}, []string{"outcome"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docquiz_quiz_cache_total",
			Help: "Quiz response cache lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.requests, m.duration, m.extractions, m.generations, m.cache)
	return m
}

func (m *Metrics) observeRequest(route, method string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeExtraction(format, outcome string) {
	m.extractions.WithLabelValues(format, outcome).Inc()
}

func (m *Metrics) observeGeneration(outcome string) {
	m.generations.WithLabelValues(outcome).Inc()
}

// ObserveCache counts a quiz cache lookup. It matches quiz.ServiceOptions.OnCache.
func (m *Metrics) ObserveCache(result string) {
	m.cache.WithLabelValues(result).Inc()
}
