package draft

import (
	"sync"
	"time"
)

// BackendState summarizes a backend's recent behavior. The tracker is
// observational only: it never gates a call and never selects a different
// backend. Backend selection is decided by the runtime mode alone.
type BackendState string

const (
	BackendOK       BackendState = "ok"
	BackendDegraded BackendState = "degraded"
	BackendFailing  BackendState = "failing"
)

const (
	failingThreshold = 3
	degradedWindow   = 5 * time.Minute
)

// BackendStatus is a point-in-time report for one backend.
type BackendStatus struct {
	State               BackendState `json:"state"`
	TotalCalls          int64        `json:"total_calls"`
	TotalFailures       int64        `json:"total_failures"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	LastFailure         *time.Time   `json:"last_failure,omitempty"`
}

type backendRecord struct {
	total       int64
	failures    int64
	consecutive int
	lastFailure time.Time
}

// HealthTracker records per-backend call outcomes for reporting.
type HealthTracker struct {
	mu       sync.RWMutex
	backends map[string]*backendRecord
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{backends: make(map[string]*backendRecord)}
}

func (t *HealthTracker) RecordSuccess(backend string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := t.record(backend)
	rec.total++
	rec.consecutive = 0
}

func (t *HealthTracker) RecordFailure(backend string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := t.record(backend)
	rec.total++
	rec.failures++
	rec.consecutive++
	rec.lastFailure = time.Now()
}

// record returns (or lazily creates) the entry for a backend.
// Must be called with mu held.
func (t *HealthTracker) record(backend string) *backendRecord {
	rec, ok := t.backends[backend]
	if !ok {
		rec = &backendRecord{}
		t.backends[backend] = rec
	}
	return rec
}

// Report returns the current status of every observed backend.
func (t *HealthTracker) Report() map[string]BackendStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]BackendStatus, len(t.backends))
	for name, rec := range t.backends {
		status := BackendStatus{
			State:               BackendOK,
			TotalCalls:          rec.total,
			TotalFailures:       rec.failures,
			ConsecutiveFailures: rec.consecutive,
		}
		if !rec.lastFailure.IsZero() {
			lf := rec.lastFailure
			status.LastFailure = &lf
			if time.Since(lf) < degradedWindow {
				status.State = BackendDegraded
			}
		}
		if rec.consecutive >= failingThreshold {
			status.State = BackendFailing
		}
		out[name] = status
	}
	return out
}
