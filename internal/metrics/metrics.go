// Package metrics exposes validation and oracle counters on a private
// Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"botlint/internal/finding"
)

// Oracle call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeUnavailable = "unavailable"
)

// Recorder records botlint metrics. A nil *Recorder is a valid no-op.
type Recorder struct {
	registry       *prometheus.Registry
	validations    prometheus.Counter
	findings       *prometheus.CounterVec
	oracleCalls    *prometheus.CounterVec
	oracleDuration *prometheus.HistogramVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "botlint_validations_total",
			Help: "Number of documents validated.",
		}),
		findings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botlint_findings_total",
			Help: "Findings produced, by kind.",
		}, []string{"kind"}),
		oracleCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "botlint_oracle_calls_total",
			Help: "Oracle calls, by operation and outcome.",
		}, []string{"op", "outcome"}),
		oracleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "botlint_oracle_call_duration_seconds",
			Help:    "Oracle call latency, by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
	r.registry.MustRegister(r.validations, r.findings, r.oracleCalls, r.oracleDuration)
	return r
}

// ObserveValidation counts one validation run and its findings.
func (r *Recorder) ObserveValidation(findings []finding.Finding) {
	if r == nil {
		return
	}
	r.validations.Inc()
	for kind, n := range finding.CountByKind(findings) {
		r.findings.WithLabelValues(string(kind)).Add(float64(n))
	}
}

// ObserveOracleCall records one oracle call.
func (r *Recorder) ObserveOracleCall(op, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.oracleCalls.WithLabelValues(op, outcome).Inc()
	if outcome != OutcomeUnavailable {
		r.oracleDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
}

// Registry returns the underlying registry, or nil.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
