package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/future-hause/hause-gateway/internal/types"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	if m.RouteTotal == nil {
		t.Error("RouteTotal should not be nil")
	}
	if m.OutcomeTotal == nil {
		t.Error("OutcomeTotal should not be nil")
	}
	if m.DraftTotal == nil {
		t.Error("DraftTotal should not be nil")
	}
	if m.DraftDurationMs == nil {
		t.Error("DraftDurationMs should not be nil")
	}
	if m.RiskFlagTotal == nil {
		t.Error("RiskFlagTotal should not be nil")
	}
	if m.GateActionTotal == nil {
		t.Error("GateActionTotal should not be nil")
	}
	if m.IntelIngestTotal == nil {
		t.Error("IntelIngestTotal should not be nil")
	}
	if m.RateLimitHitTotal == nil {
		t.Error("RateLimitHitTotal should not be nil")
	}
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("failed to get metric: %v", err)
	}
	var metric dto.Metric
	counter.Write(&metric)
	return *metric.Counter.Value
}

func TestRecordRoute(t *testing.T) {
	// Use fresh vectors to avoid polluting the default registry
	routeTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_hause_route_total",
		Help: "Test counter",
	}, []string{"intent", "risk", "permanence"})

	m := &Metrics{RouteTotal: routeTotal}
	m.RecordRoute(types.RoutingDecision{
		Intent:     types.IntentDraftRequest,
		Risk:       types.RiskMedium,
		Permanence: types.PermanenceDraftOnly,
	})

	if got := counterValue(t, routeTotal, "draft_request", "medium", "draft_only"); got != 1 {
		t.Errorf("expected route count 1, got %v", got)
	}
}

func TestRecordDraft(t *testing.T) {
	draftTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_hause_draft_total",
		Help: "Test counter",
	}, []string{"backend", "status"})

	durationMs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "test_hause_draft_duration_ms",
		Help:    "Test histogram",
		Buckets: []float64{100, 500, 1000},
	}, []string{"backend"})

	flagTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_hause_risk_flag_total",
		Help: "Test counter",
	}, []string{"backend", "flag"})

	m := &Metrics{
		DraftTotal:      draftTotal,
		DraftDurationMs: durationMs,
		RiskFlagTotal:   flagTotal,
	}

	m.RecordDraft("local", types.DraftResult{
		Confidence: 0.0,
		Model:      "llama3.1:latest",
		LatencyMs:  15000,
		RiskFlags:  []types.RiskFlag{types.FlagModelTimeout},
	})

	if got := counterValue(t, draftTotal, "local", "failed"); got != 1 {
		t.Errorf("expected failed draft count 1, got %v", got)
	}
	if got := counterValue(t, flagTotal, "local", "model_timeout"); got != 1 {
		t.Errorf("expected model_timeout flag count 1, got %v", got)
	}

	m.RecordDraft("local", types.DraftResult{
		DraftText:  "a draft",
		Confidence: 0.6,
		LatencyMs:  120,
	})

	if got := counterValue(t, draftTotal, "local", "ok"); got != 1 {
		t.Errorf("expected ok draft count 1, got %v", got)
	}
}

func TestRecordGateAction(t *testing.T) {
	gateTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_hause_gate_action",
		Help: "Test",
	}, []string{"gate", "action"})

	m := &Metrics{GateActionTotal: gateTotal}
	m.RecordGateAction("secrets", "block")

	if got := counterValue(t, gateTotal, "secrets", "block"); got != 1 {
		t.Errorf("expected gate action count 1, got %v", got)
	}
}
