package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware_AllowsRequest(t *testing.T) {
	limiter := NewLimiter(nil)
	mw := Middleware(limiter, 100, nil)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/draft", nil)
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-1")

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	if h := rec.Header().Get(headerRateLimitRequests); h != "100" {
		t.Errorf("expected X-RateLimit-Limit-Requests=100, got %s", h)
	}
	if h := rec.Header().Get(headerRateLimitRemainingRequests); h == "" {
		t.Error("expected X-RateLimit-Remaining-Requests header")
	}
	if h := rec.Header().Get(headerRateLimitReset); h == "" {
		t.Error("expected X-RateLimit-Reset-Requests header")
	}
}

func TestMiddleware_DefaultRPM(t *testing.T) {
	limiter := NewLimiter(nil)
	mw := Middleware(limiter, 0, nil)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/draft", nil)
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-2")

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if h := rec.Header().Get(headerRateLimitRequests); h != "120" {
		t.Errorf("expected default RPM=120, got %s", h)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/route", nil)
	req.RemoteAddr = "127.0.0.1:54321"
	if ip := clientIP(req); ip != "127.0.0.1" {
		t.Errorf("expected 127.0.0.1, got %s", ip)
	}

	req.RemoteAddr = "bare-host"
	if ip := clientIP(req); ip != "bare-host" {
		t.Errorf("expected passthrough for unparseable addr, got %s", ip)
	}
}

func TestMiddleware_RateLimitHeaders_Present(t *testing.T) {
	limiter := NewLimiter(nil)
	mw := Middleware(limiter, 60, nil)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/backends", nil)
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-4")

	handler.ServeHTTP(rec, req)

	headers := []string{headerRateLimitRequests, headerRateLimitRemainingRequests, headerRateLimitReset}
	for _, h := range headers {
		if rec.Header().Get(h) == "" {
			t.Errorf("missing header: %s", h)
		}
	}
}
