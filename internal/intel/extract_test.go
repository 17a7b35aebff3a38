package intel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/future-hause/hause-gateway/internal/types"
)

// fakeStore deduplicates on content like the real store.
type fakeStore struct {
	signals    []types.Signal
	advisories []types.Advisory
	seen       map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: map[string]bool{}}
}

func (f *fakeStore) InsertSignal(_ context.Context, sig types.Signal) (types.Signal, bool, error) {
	key := sig.Source + "\x00" + sig.Content
	if f.seen[key] {
		return sig, false, nil
	}
	f.seen[key] = true
	if sig.ID == "" {
		sig.ID = uuid.NewString()
	}
	f.signals = append(f.signals, sig)
	return sig, true, nil
}

func (f *fakeStore) CreateAdvisory(_ context.Context, a types.Advisory) (types.Advisory, bool, error) {
	for _, existing := range f.advisories {
		if existing.SourceSignalID == a.SourceSignalID {
			return a, false, nil
		}
	}
	f.advisories = append(f.advisories, a)
	return a, true, nil
}

func TestExtractor_StubFallback(t *testing.T) {
	st := newFakeStore()
	e := NewExtractor(t.TempDir(), st, nil)

	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.SignalsCreated != 3 {
		t.Errorf("expected 3 stub signals, got %d", report.SignalsCreated)
	}
	if report.AdvisoriesOpened != 3 {
		t.Errorf("expected one advisory per signal, got %d", report.AdvisoriesOpened)
	}
	for _, a := range st.advisories {
		if a.Type != "intel_alert" {
			t.Errorf("expected intel_alert advisory, got %s", a.Type)
		}
		if a.SourceSignalID == "" {
			t.Error("advisory must reference its source signal")
		}
	}
}

func TestExtractor_Idempotent(t *testing.T) {
	st := newFakeStore()
	e := NewExtractor(t.TempDir(), st, nil)

	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.SignalsCreated != 0 {
		t.Errorf("expected 0 new signals on re-run, got %d", report.SignalsCreated)
	}
	if report.Duplicates != 3 {
		t.Errorf("expected 3 duplicates on re-run, got %d", report.Duplicates)
	}
	if len(st.signals) != 3 {
		t.Errorf("expected 3 stored signals total, got %d", len(st.signals))
	}
}

func TestExtractor_ReadsRawData(t *testing.T) {
	dir := t.TempDir()
	raw := `{"source_type":"freshdesk","project":"freshdesk-ai","content":"Three tickets about CSV importer failures this week."}` + "\n"
	if err := os.WriteFile(filepath.Join(dir, "freshdesk.jsonl"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	st := newFakeStore()
	e := NewExtractor(dir, st, nil)

	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.SignalsCreated != 1 {
		t.Fatalf("expected 1 signal from raw data, got %d", report.SignalsCreated)
	}
	sig := st.signals[0]
	if sig.Source != "freshdesk" {
		t.Errorf("expected freshdesk source, got %s", sig.Source)
	}
	if sig.Content != "Three tickets about CSV importer failures this week." {
		t.Errorf("unexpected content: %s", sig.Content)
	}
}

func TestExtractor_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	raw := "not json\n" + `{"source_type":"notes","project":"other","content":"valid line"}` + "\n"
	if err := os.WriteFile(filepath.Join(dir, "notes.jsonl"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	st := newFakeStore()
	e := NewExtractor(dir, st, nil)

	report, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.SignalsCreated != 1 {
		t.Errorf("expected 1 signal, got %d", report.SignalsCreated)
	}
}

func TestPayloadToSignal_TruncatesTitle(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	sig := payloadToSignal(types.IntelPayload{SourceType: "manual", Content: string(long)})
	if len(sig.Title) != 80 {
		t.Errorf("expected 80-char title, got %d", len(sig.Title))
	}
	if len(sig.Content) != 200 {
		t.Error("content must not be truncated")
	}
}
