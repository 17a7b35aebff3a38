package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/future-hause/hause-gateway/internal/types"
)

// Metrics holds all Prometheus metrics for the hause gateway.
type Metrics struct {
	RouteTotal        *prometheus.CounterVec
	OutcomeTotal      *prometheus.CounterVec
	DraftTotal        *prometheus.CounterVec
	DraftDurationMs   *prometheus.HistogramVec
	RiskFlagTotal     *prometheus.CounterVec
	GateActionTotal   *prometheus.CounterVec
	IntelIngestTotal  *prometheus.CounterVec
	RateLimitHitTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RouteTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hause_route_total",
			Help: "Total routing decisions by classified dimensions.",
		}, []string{"intent", "risk", "permanence"}),

		OutcomeTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hause_outcome_total",
			Help: "Total orchestrated inputs by terminal outcome.",
		}, []string{"outcome"}),

		DraftTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hause_draft_total",
			Help: "Total adapter invocations by backend and result status.",
		}, []string{"backend", "status"}),

		DraftDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hause_draft_duration_ms",
			Help:    "Adapter call duration in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 15000, 30000},
		}, []string{"backend"}),

		RiskFlagTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hause_risk_flag_total",
			Help: "Total risk flags attached to draft results.",
		}, []string{"backend", "flag"}),

		GateActionTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hause_gate_action_total",
			Help: "Total gate evaluations by gate and action taken.",
		}, []string{"gate", "action"}),

		IntelIngestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hause_intel_ingest_total",
			Help: "Total intel ingest attempts by source type and status.",
		}, []string{"source_type", "status"}),

		RateLimitHitTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hause_rate_limit_hit_total",
			Help: "Total requests denied by the request rate limiter.",
		}, []string{"bucket"}),
	}
}

// RecordRoute records one routing decision.
func (m *Metrics) RecordRoute(d types.RoutingDecision) {
	m.RouteTotal.WithLabelValues(
		string(d.Intent), string(d.Risk), string(d.Permanence),
	).Inc()
}

// RecordOutcome records the terminal outcome of one orchestrated input.
func (m *Metrics) RecordOutcome(outcome string) {
	m.OutcomeTotal.WithLabelValues(outcome).Inc()
}

// RecordDraft records one adapter invocation and its reported flags.
func (m *Metrics) RecordDraft(backend string, result types.DraftResult) {
	status := "ok"
	if result.Failed() {
		status = "failed"
	}
	m.DraftTotal.WithLabelValues(backend, status).Inc()
	m.DraftDurationMs.WithLabelValues(backend).Observe(float64(result.LatencyMs))
	for _, flag := range result.RiskFlags {
		m.RiskFlagTotal.WithLabelValues(backend, string(flag)).Inc()
	}
}

// RecordGateAction records a gate evaluation outcome.
func (m *Metrics) RecordGateAction(gate, action string) {
	m.GateActionTotal.WithLabelValues(gate, action).Inc()
}

// RecordIntelIngest records an intel ingest attempt.
func (m *Metrics) RecordIntelIngest(sourceType, status string) {
	m.IntelIngestTotal.WithLabelValues(sourceType, status).Inc()
}

// RecordRateLimitHit records a denied request.
func (m *Metrics) RecordRateLimitHit(bucket string) {
	m.RateLimitHitTotal.WithLabelValues(bucket).Inc()
}
