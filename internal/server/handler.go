// Package server exposes the HTTP surface: routing, drafting, intel
// ingestion, the draft work log, the action log, and advisories.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/future-hause/hause-gateway/internal/classify"
	"github.com/future-hause/hause-gateway/internal/config"
	"github.com/future-hause/hause-gateway/internal/draft"
	"github.com/future-hause/hause-gateway/internal/gate"
	"github.com/future-hause/hause-gateway/internal/httputil"
	"github.com/future-hause/hause-gateway/internal/intel"
	"github.com/future-hause/hause-gateway/internal/orchestrate"
	"github.com/future-hause/hause-gateway/internal/ratelimit"
	"github.com/future-hause/hause-gateway/internal/telemetry"
	"github.com/future-hause/hause-gateway/internal/types"
)

// Store is the persistence surface the handlers depend on.
type Store interface {
	CreateDraft(ctx context.Context, d types.DraftWork) (types.DraftWork, error)
	GetDraft(ctx context.Context, id string) (types.DraftWork, error)
	ListDrafts(ctx context.Context, status types.DraftStatus, limit int) ([]types.DraftWork, error)
	AttachReview(ctx context.Context, r types.DraftReview) (types.DraftReview, error)
	ListReviews(ctx context.Context, draftID string) ([]types.DraftReview, error)
	DecideDraft(ctx context.Context, draftID string, decision types.DraftStatus) (types.DraftWork, error)
	AppendAction(ctx context.Context, e types.ActionEntry) (types.ActionEntry, error)
	ListActions(ctx context.Context, limit int) ([]types.ActionEntry, error)
	ListSignals(ctx context.Context, category string, limit int) ([]types.Signal, error)
	ListAdvisories(ctx context.Context, status string, limit int) ([]types.Advisory, error)
	UpdateAdvisoryStatus(ctx context.Context, id, status string) error
}

// Handler holds dependencies for the HTTP handlers.
type Handler struct {
	store     Store
	orch      *orchestrate.Orchestrator
	gates     *gate.Chain
	ingestor  *intel.Ingestor
	extractor *intel.Extractor
	health    *draft.HealthTracker
	budget    *ratelimit.DraftBudget
	cfg       func() *config.Config
	metrics   *telemetry.Metrics
}

func NewHandler(
	store Store,
	orch *orchestrate.Orchestrator,
	gates *gate.Chain,
	ingestor *intel.Ingestor,
	extractor *intel.Extractor,
	health *draft.HealthTracker,
	budget *ratelimit.DraftBudget,
	cfg func() *config.Config,
	metrics *telemetry.Metrics,
) *Handler {
	return &Handler{
		store:     store,
		orch:      orch,
		gates:     gates,
		ingestor:  ingestor,
		extractor: extractor,
		health:    health,
		budget:    budget,
		cfg:       cfg,
		metrics:   metrics,
	}
}

func (h *Handler) mode(w http.ResponseWriter, reqID string) (types.RuntimeMode, bool) {
	mode, err := h.cfg().Runtime.ParsedMode()
	if err != nil {
		httputil.WriteInternalError(w, reqID, "Runtime mode misconfigured")
		return "", false
	}
	return mode, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Route handles POST /api/route: classification only, no model calls.
func (h *Handler) Route(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}

	decision := classify.Route(body.Text)
	if h.metrics != nil {
		h.metrics.RecordRoute(decision)
	}
	writeJSON(w, http.StatusOK, decision)
}

// Draft handles POST /api/draft: classify, gate, orchestrate, and persist
// the result for human review when a draft was generated.
func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var in orchestrate.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}

	mode, ok := h.mode(w, reqID)
	if !ok {
		return
	}

	decision := classify.Route(in.Text)
	if h.metrics != nil {
		h.metrics.RecordRoute(decision)
	}

	if h.gates != nil && decision.AllowDraft {
		results, blocked := h.gates.Run(r.Context(), gate.Input{
			Text:     in.Text,
			Decision: decision,
			Mode:     mode,
			Source:   "draft",
		})
		if blocked != nil {
			slog.Warn("draft blocked by gate",
				"request_id", reqID,
				"gate", blocked.GateName,
				"detections", blocked.Detections,
			)
			if h.metrics != nil {
				h.metrics.RecordGateAction(blocked.GateName, string(blocked.Action))
			}
			httputil.WriteGateBlockedError(w, reqID, blocked.Message)
			return
		}
		for _, gr := range results {
			if gr.Action == gate.ActionFlag && h.metrics != nil {
				h.metrics.RecordGateAction(gr.GateName, "flag")
			}
		}
	}

	resp := h.orch.Handle(r.Context(), mode, in)
	if h.metrics != nil {
		h.metrics.RecordOutcome(string(resp.Outcome))
		if resp.Draft != nil {
			h.metrics.RecordDraft(resp.Backend, *resp.Draft)
		}
	}

	out := draftResponse{Response: resp}
	if resp.Outcome == orchestrate.OutcomeDraftGenerated && !resp.Draft.Failed() && h.store != nil {
		stored, err := h.store.CreateDraft(r.Context(), types.DraftWork{
			CreatedBy:    "agent",
			MessageID:    reqID,
			RouterIntent: string(resp.Decision.Intent),
			Body:         resp.Draft.DraftText,
			Format:       "text",
			Tags:         flagTags(resp.Draft.RiskFlags),
		})
		if err != nil {
			slog.Error("failed to persist draft", "request_id", reqID, "error", err)
			writeStoreError(w, reqID, "Draft generated but could not be stored", err)
			return
		}
		out.DraftID = stored.DraftID
	}

	writeJSON(w, http.StatusOK, out)
}

type draftResponse struct {
	orchestrate.Response
	DraftID string `json:"draft_id,omitempty"`
}

func flagTags(flags []types.RiskFlag) []string {
	tags := make([]string, 0, len(flags))
	for _, f := range flags {
		tags = append(tags, string(f))
	}
	return tags
}

// Backends handles GET /api/backends: runtime mode, per-backend health,
// and remote budget usage. Observational only.
func (h *Handler) Backends(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	mode, ok := h.mode(w, reqID)
	if !ok {
		return
	}

	out := map[string]any{
		"mode": mode,
	}
	if h.health != nil {
		out["backends"] = h.health.Report()
	}
	if h.budget != nil {
		used, err := h.budget.Used(r.Context())
		if err == nil {
			out["remote_drafts_today"] = used
			out["remote_draft_daily_cap"] = h.budget.Cap()
		}
	}
	writeJSON(w, http.StatusOK, out)
}
