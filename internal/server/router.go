package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes assembles the API router. Rate limiting is applied by the caller
// so tests can mount the routes without Redis.
func (h *Handler) Routes(extra ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(middleware.Recoverer)
	for _, mw := range extra {
		r.Use(mw)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/route", h.Route)
		r.Post("/draft", h.Draft)
		r.Get("/backends", h.Backends)

		r.Get("/drafts", h.ListDrafts)
		r.Get("/drafts/{id}", h.GetDraft)
		r.Post("/drafts/review", h.AttachReview)
		r.Post("/drafts/decision", h.DecideDraft)

		r.Post("/action", h.AppendAction)
		r.Get("/action-log", h.ListActions)

		r.Post("/intel", h.IngestIntel)
		r.Get("/intel", h.ListSignals)
		r.Post("/run-signal-extraction", h.RunExtraction)

		r.Get("/advisories", h.ListAdvisories)
		r.Post("/advisory-update", h.UpdateAdvisory)
	})

	return r
}

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID assigns each request an ID, echoing a client-supplied
// X-Request-ID when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func generateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}
