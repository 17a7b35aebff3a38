package types

import "time"

// IntelPayload is a raw intel submission before validation. Nothing in a
// payload reaches the signal store until it passes validation and ingestion
// is explicitly enabled.
type IntelPayload struct {
	SourceType string `json:"source_type"`
	Project    string `json:"project"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// Signal is a perception signal extracted from collected data.
type Signal struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Category   string    `json:"category"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Confidence float64   `json:"confidence"`
	DetectedAt time.Time `json:"detected_at"`
}
