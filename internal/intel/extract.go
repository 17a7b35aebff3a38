package intel

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/future-hause/hause-gateway/internal/types"
)

// SignalStore is the subset of the store used by extraction.
type SignalStore interface {
	InsertSignal(ctx context.Context, sig types.Signal) (types.Signal, bool, error)
	CreateAdvisory(ctx context.Context, a types.Advisory) (types.Advisory, bool, error)
}

// Extractor converts collected raw data into perception signals and one
// advisory per new signal. Deterministic: no model calls, no network.
type Extractor struct {
	rawPath string
	store   SignalStore
	logger  *slog.Logger
}

func NewExtractor(rawPath string, store SignalStore, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{rawPath: rawPath, store: store, logger: logger}
}

// ExtractionReport summarizes one extraction run.
type ExtractionReport struct {
	SignalsCreated   int            `json:"signals_created"`
	AdvisoriesOpened int            `json:"advisories_opened"`
	Duplicates       int            `json:"duplicates"`
	Signals          []types.Signal `json:"signals"`
}

// Run reads raw collected data, converts it into signals, and opens an
// advisory for every new signal. With no raw data it falls back to stub
// signals so the pipeline can be exercised before collectors exist.
// Inserts deduplicate on content, so re-running is idempotent.
func (e *Extractor) Run(ctx context.Context) (ExtractionReport, error) {
	candidates := e.loadRaw()
	if len(candidates) == 0 {
		candidates = stubSignals()
	}

	var report ExtractionReport
	for _, sig := range candidates {
		stored, created, err := e.store.InsertSignal(ctx, sig)
		if err != nil {
			return report, fmt.Errorf("insert signal: %w", err)
		}
		if !created {
			report.Duplicates++
			continue
		}
		report.SignalsCreated++
		report.Signals = append(report.Signals, stored)

		advisory := types.Advisory{
			SourceSignalID: stored.ID,
			Type:           "intel_alert",
			Title:          stored.Title,
			Recommendation: "Review and determine if KB update is required.",
			Priority:       "normal",
		}
		if _, opened, err := e.store.CreateAdvisory(ctx, advisory); err != nil {
			return report, fmt.Errorf("create advisory: %w", err)
		} else if opened {
			report.AdvisoriesOpened++
		}
	}

	e.logger.Info("signal extraction complete",
		"signals_created", report.SignalsCreated,
		"advisories_opened", report.AdvisoriesOpened,
		"duplicates", report.Duplicates)
	return report, nil
}

// loadRaw reads every raw jsonl file written by the ingestor and converts
// each payload into a signal candidate.
func (e *Extractor) loadRaw() []types.Signal {
	var out []types.Signal
	for _, source := range ListSources() {
		path := filepath.Join(e.rawPath, source+".jsonl")
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			var p types.IntelPayload
			if err := json.Unmarshal(scanner.Bytes(), &p); err != nil {
				e.logger.Warn("skipping malformed raw line", "source", source)
				continue
			}
			out = append(out, payloadToSignal(p))
		}
		f.Close()
	}
	return out
}

func payloadToSignal(p types.IntelPayload) types.Signal {
	title := p.Content
	if len(title) > 80 {
		title = title[:80]
	}
	return types.Signal{
		Source:     p.SourceType,
		Category:   "discussion",
		Title:      title,
		Content:    p.Content,
		Confidence: 0.5,
		DetectedAt: time.Now().UTC(),
	}
}

// stubSignals returns deterministic signals for local development, used
// when no raw data exists yet.
func stubSignals() []types.Signal {
	now := time.Now().UTC()
	return []types.Signal{
		{
			Source:     "reddit",
			Category:   "discussion",
			Title:      "Apollo BTC setup questions",
			Content:    "Users asking about optimal PSU and cooling configuration for Apollo BTC miners.",
			Confidence: 0.7,
			DetectedAt: now,
		},
		{
			Source:     "reddit",
			Category:   "discussion",
			Title:      "Firmware update issues reported",
			Content:    "Multiple users reporting difficulty applying latest firmware update on Apollo II.",
			Confidence: 0.8,
			DetectedAt: now,
		},
		{
			Source:     "reddit",
			Category:   "announcement",
			Title:      "FutureBit announces new mining pool partnership",
			Content:    "Official announcement of partnership with mining pool for optimized hashrate distribution.",
			Confidence: 0.9,
			DetectedAt: now,
		},
	}
}
