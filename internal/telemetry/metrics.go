package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the fortune service.
type Metrics struct {
	RequestTotal        *prometheus.CounterVec
	RequestDurationMs   *prometheus.HistogramVec
	QuotaDeniedTotal    *prometheus.CounterVec
	CacheHitTotal       *prometheus.CounterVec
	InjectionBlockTotal *prometheus.CounterVec
	AIFailureTotal      *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fortune_request_total",
			Help: "Total number of fortune requests processed.",
		}, []string{"theme", "source", "status", "tier"}),

		RequestDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fortune_request_duration_ms",
			Help:    "Request duration in milliseconds (including AI latency).",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"source"}),

		QuotaDeniedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fortune_quota_denied_total",
			Help: "Total requests served without AI because the quota was exhausted.",
		}, []string{"tier"}),

		CacheHitTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fortune_cache_hit_total",
			Help: "Total requests answered from the result cache.",
		}, []string{"theme"}),

		InjectionBlockTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fortune_injection_block_total",
			Help: "Total requests rejected by prompt injection detection.",
		}, []string{"rule"}),

		AIFailureTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fortune_ai_failure_total",
			Help: "Total AI generation attempts that fell through to another source.",
		}, []string{"reason"}),
	}
}

// RecordRequest records metrics for a completed request.
func (m *Metrics) RecordRequest(labels RequestLabels) {
	m.RequestTotal.WithLabelValues(
		labels.Theme, labels.Source, labels.Status, labels.Tier,
	).Inc()

	m.RequestDurationMs.WithLabelValues(
		labels.Source,
	).Observe(labels.DurationMs)
}

// RecordQuotaDenied records a request that exceeded its tier ceiling.
func (m *Metrics) RecordQuotaDenied(tier string) {
	m.QuotaDeniedTotal.WithLabelValues(tier).Inc()
}

// RecordCacheHit records a request served from the result cache.
func (m *Metrics) RecordCacheHit(theme string) {
	m.CacheHitTotal.WithLabelValues(theme).Inc()
}

// RecordInjectionBlock records a request rejected by an injection rule.
func (m *Metrics) RecordInjectionBlock(rule string) {
	m.InjectionBlockTotal.WithLabelValues(rule).Inc()
}

// RecordAIFailure records an AI attempt that fell back to another source.
func (m *Metrics) RecordAIFailure(reason string) {
	m.AIFailureTotal.WithLabelValues(reason).Inc()
}

// RequestLabels holds the label values for recording a request.
type RequestLabels struct {
	Theme      string
	Source     string
	Status     string
	Tier       string
	DurationMs float64
}
