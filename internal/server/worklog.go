package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/future-hause/hause-gateway/internal/httputil"
	"github.com/future-hause/hause-gateway/internal/store"
	"github.com/future-hause/hause-gateway/internal/types"
)

// writeStoreError maps a store failure onto the response: a missing
// database pool answers 503, anything else stays an opaque 500.
func writeStoreError(w http.ResponseWriter, reqID, msg string, err error) {
	if errors.Is(err, store.ErrUnavailable) {
		httputil.WriteServiceUnavailableError(w, reqID, "Database unavailable")
		return
	}
	httputil.WriteInternalError(w, reqID, msg)
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ListDrafts handles GET /api/drafts with an optional ?status= filter.
func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	status := types.DraftStatus(r.URL.Query().Get("status"))
	drafts, err := h.store.ListDrafts(r.Context(), status, parseLimit(r))
	if err != nil {
		writeStoreError(w, reqID, "Failed to list drafts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts, "count": len(drafts)})
}

// GetDraft handles GET /api/drafts/{id}, returning the draft with its
// attached reviews.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	id := chi.URLParam(r, "id")

	d, err := h.store.GetDraft(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFoundError(w, reqID, "Draft not found: "+id)
		return
	}
	if err != nil {
		writeStoreError(w, reqID, "Failed to load draft", err)
		return
	}

	reviews, err := h.store.ListReviews(r.Context(), id)
	if err != nil {
		writeStoreError(w, reqID, "Failed to load reviews", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"draft": d, "reviews": reviews})
}

// AttachReview handles POST /api/drafts/review. Reviews are read-only
// findings; a medium or high severity finding flags the draft.
func (h *Handler) AttachReview(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var rev types.DraftReview
	if err := json.NewDecoder(r.Body).Decode(&rev); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}
	if rev.DraftID == "" {
		httputil.WriteBadRequestError(w, reqID, "draft_id is required")
		return
	}

	stored, err := h.store.AttachReview(r.Context(), rev)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFoundError(w, reqID, "Draft not found: "+rev.DraftID)
		return
	}
	if errors.Is(err, store.ErrInvalidTransition) {
		httputil.WriteConflictError(w, reqID, "Draft is already decided; reviews can no longer be attached")
		return
	}
	if err != nil {
		writeStoreError(w, reqID, "Failed to attach review", err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// DecideDraft handles POST /api/drafts/decision. Approval and rejection are
// human-only operations; a draft must have been reviewed first.
func (h *Handler) DecideDraft(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var body struct {
		DraftID  string `json:"draft_id"`
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}
	if body.DraftID == "" {
		httputil.WriteBadRequestError(w, reqID, "draft_id is required")
		return
	}

	decision := types.DraftStatus(body.Decision)
	if decision != types.StatusApproved && decision != types.StatusRejected {
		httputil.WriteBadRequestError(w, reqID, "decision must be approved or rejected")
		return
	}

	d, err := h.store.DecideDraft(r.Context(), body.DraftID, decision)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFoundError(w, reqID, "Draft not found: "+body.DraftID)
		return
	}
	if errors.Is(err, store.ErrInvalidTransition) {
		httputil.WriteConflictError(w, reqID, "Draft cannot be decided in its current status")
		return
	}
	if err != nil {
		writeStoreError(w, reqID, "Failed to decide draft", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// AppendAction handles POST /api/action: a human recording something they
// did. The entry is append-only.
func (h *Handler) AppendAction(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var entry types.ActionEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}
	if entry.Action == "" {
		httputil.WriteBadRequestError(w, reqID, "action is required")
		return
	}

	stored, err := h.store.AppendAction(r.Context(), entry)
	if err != nil {
		writeStoreError(w, reqID, "Failed to record action", err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// ListActions handles GET /api/action-log, newest first.
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	entries, err := h.store.ListActions(r.Context(), parseLimit(r))
	if err != nil {
		writeStoreError(w, reqID, "Failed to list actions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"actions": entries, "count": len(entries)})
}

// ListAdvisories handles GET /api/advisories with an optional ?status= filter.
func (h *Handler) ListAdvisories(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	advisories, err := h.store.ListAdvisories(r.Context(), r.URL.Query().Get("status"), parseLimit(r))
	if err != nil {
		writeStoreError(w, reqID, "Failed to list advisories", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"advisories": advisories, "count": len(advisories)})
}

// UpdateAdvisory handles POST /api/advisory-update. Advisories only move
// between open, resolved, and dismissed; they never trigger anything.
func (h *Handler) UpdateAdvisory(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var body struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}
	if body.ID == "" {
		httputil.WriteBadRequestError(w, reqID, "id is required")
		return
	}
	switch body.Status {
	case "open", "resolved", "dismissed":
	default:
		httputil.WriteBadRequestError(w, reqID, "status must be open, resolved, or dismissed")
		return
	}

	err := h.store.UpdateAdvisoryStatus(r.Context(), body.ID, body.Status)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFoundError(w, reqID, "Advisory not found: "+body.ID)
		return
	}
	if err != nil {
		writeStoreError(w, reqID, "Failed to update advisory", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": body.ID, "status": body.Status})
}
