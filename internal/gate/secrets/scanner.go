// Package secrets scans text for credentials before it can reach a model
// backend or the intel store. Ingested intel is untrusted input; a pasted
// credential must never end up persisted or in a prompt.
package secrets

import (
	"context"
	"fmt"

	"github.com/future-hause/hause-gateway/internal/gate"
)

// Detection represents a detected secret in text.
type Detection struct {
	PatternName string // e.g. "AWS Access Key"
	Start       int    // byte offset
	End         int    // byte offset
}

// Scanner scans text for secrets using pre-compiled regex patterns.
type Scanner struct {
	patterns []Pattern
	enabled  func() bool
}

// NewScanner creates a scanner with the default secret patterns. The
// enabled callback is re-read per check so config reloads take effect.
func NewScanner(enabled func() bool) *Scanner {
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &Scanner{patterns: DefaultPatterns(), enabled: enabled}
}

func (s *Scanner) Name() string  { return "secrets" }
func (s *Scanner) Enabled() bool { return s.enabled() }

// Scan checks a single text string for secrets and returns all detections.
func (s *Scanner) Scan(text string) []Detection {
	var detections []Detection
	for _, p := range s.patterns {
		locs := p.Regex.FindAllStringIndex(text, -1)
		for _, loc := range locs {
			detections = append(detections, Detection{
				PatternName: p.Name,
				Start:       loc[0],
				End:         loc[1],
			})
		}
	}
	return detections
}

// Check implements gate.Gate. Any detection blocks; the offending bytes are
// never echoed back.
func (s *Scanner) Check(_ context.Context, in gate.Input) gate.Result {
	detections := s.Scan(in.Text)
	if len(detections) == 0 {
		return gate.Result{Action: gate.ActionPass, GateName: "secrets"}
	}
	return gate.Result{
		Action:     gate.ActionBlock,
		GateName:   "secrets",
		Message:    fmt.Sprintf("Blocked: %s detected in input", detections[0].PatternName),
		Detections: len(detections),
	}
}
