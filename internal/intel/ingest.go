package intel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/future-hause/hause-gateway/internal/config"
	"github.com/future-hause/hause-gateway/internal/types"
)

// IngestResult is the outcome of one ingest attempt.
type IngestResult struct {
	Status           string         `json:"status"`
	Reason           string         `json:"reason,omitempty"`
	Errors           []string       `json:"errors,omitempty"`
	ValidatedPayload map[string]any `json:"validated_payload,omitempty"`
}

// Ingestor accepts raw intel payloads. Ingestion is blocked by default:
// valid payloads are acknowledged but discarded until the config enables
// the path, at which point they land as raw files for extraction.
type Ingestor struct {
	cfg func() config.IntelConfig
}

func NewIngestor(cfg func() config.IntelConfig) *Ingestor {
	return &Ingestor{cfg: cfg}
}

// Ingest validates the payload and, when ingestion is enabled, appends it
// to the raw data file for its source type.
func (i *Ingestor) Ingest(p types.IntelPayload) (IngestResult, error) {
	validation := Validate(p)
	if !validation.Valid() {
		return IngestResult{
			Status: "rejected",
			Reason: "Validation failed",
			Errors: validation.Errors,
		}, nil
	}

	summary := map[string]any{
		"source_type":    p.SourceType,
		"project":        p.Project,
		"content_length": len(p.Content),
		"has_timestamp":  p.Timestamp != "",
	}

	cfg := i.cfg()
	if !cfg.IngestEnabled {
		return IngestResult{
			Status:           "blocked",
			Reason:           "Ingestion not yet enabled",
			ValidatedPayload: summary,
		}, nil
	}

	if err := i.appendRaw(cfg.RawDataPath, p); err != nil {
		return IngestResult{}, fmt.Errorf("store raw intel: %w", err)
	}

	return IngestResult{
		Status:           "accepted",
		ValidatedPayload: summary,
	}, nil
}

// appendRaw writes the payload as one JSON line in the source's raw file.
func (i *Ingestor) appendRaw(dir string, p types.IntelPayload) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if p.Timestamp == "" {
		p.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	path := filepath.Join(dir, p.SourceType+".jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	line, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = f.Write(append(line, '\n'))
	return err
}
