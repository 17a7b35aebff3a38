package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/future-hause/hause-gateway/internal/classify"
	"github.com/future-hause/hause-gateway/internal/gate"
	"github.com/future-hause/hause-gateway/internal/httputil"
	"github.com/future-hause/hause-gateway/internal/intel"
	"github.com/future-hause/hause-gateway/internal/types"
)

// IngestIntel handles POST /api/intel. Validation always runs; whether a
// valid payload is stored depends on the ingest_enabled config switch.
func (h *Handler) IngestIntel(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var payload types.IntelPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}

	if h.gates != nil {
		mode, ok := h.mode(w, reqID)
		if !ok {
			return
		}
		// Intel content never becomes a draft, but it passes through the
		// same gates as draft text. Classifying it here gives policies
		// real intent and risk fields instead of empty strings.
		_, blocked := h.gates.Run(r.Context(), gate.Input{
			Text:     payload.Content,
			Decision: classify.Route(payload.Content),
			Mode:     mode,
			Source:   "intel",
		})
		if blocked != nil {
			if h.metrics != nil {
				h.metrics.RecordGateAction(blocked.GateName, string(blocked.Action))
			}
			httputil.WriteGateBlockedError(w, reqID, blocked.Message)
			return
		}
	}

	result, err := h.ingestor.Ingest(payload)
	if err != nil {
		slog.Error("intel ingest failed", "request_id", reqID, "error", err)
		httputil.WriteInternalError(w, reqID, "Failed to store intel payload")
		return
	}
	if h.metrics != nil {
		h.metrics.RecordIntelIngest(payload.SourceType, result.Status)
	}

	status := http.StatusOK
	if result.Status == "rejected" {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

// ListSignals handles GET /api/intel with an optional ?category= filter.
func (h *Handler) ListSignals(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	signals, err := h.store.ListSignals(r.Context(), r.URL.Query().Get("category"), parseLimit(r))
	if err != nil {
		writeStoreError(w, reqID, "Failed to list signals", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"signals": signals,
		"count":   len(signals),
		"sources": intel.ListSources(),
	})
}

// RunExtraction handles POST /api/run-signal-extraction: a human explicitly
// triggering a signal extraction pass.
func (h *Handler) RunExtraction(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	report, err := h.extractor.Run(r.Context())
	if err != nil {
		slog.Error("signal extraction failed", "request_id", reqID, "error", err)
		httputil.WriteInternalError(w, reqID, "Signal extraction failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
