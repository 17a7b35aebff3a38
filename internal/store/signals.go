package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/future-hause/hause-gateway/internal/types"
)

// InsertSignal stores an extracted signal. Signals are deduplicated on a
// content hash so re-running extraction over the same raw data is
// idempotent. Returns false when the signal already existed.
func (s *Store) InsertSignal(ctx context.Context, sig types.Signal) (types.Signal, bool, error) {
	if err := s.ready(); err != nil {
		return types.Signal{}, false, err
	}
	if sig.ID == "" {
		sig.ID = uuid.NewString()
	}
	hash := signalHash(sig)

	tag, err := s.db.Exec(ctx, `
		INSERT INTO signals (id, source, category, title, content, confidence, content_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (content_hash) DO NOTHING
	`, sig.ID, sig.Source, sig.Category, sig.Title, sig.Content, sig.Confidence, hash)
	if err != nil {
		return types.Signal{}, false, fmt.Errorf("insert signal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sig, false, nil
	}
	return sig, true, nil
}

// ListSignals returns recent signals, newest first, optionally filtered by
// category.
func (s *Store) ListSignals(ctx context.Context, category string, limit int) ([]types.Signal, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, source, category, title, content, confidence, detected_at
		FROM signals ORDER BY detected_at DESC LIMIT $1
	`
	args := []any{limit}
	if category != "" {
		query = `
			SELECT id, source, category, title, content, confidence, detected_at
			FROM signals WHERE category = $1 ORDER BY detected_at DESC LIMIT $2
		`
		args = []any{category, limit}
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var out []types.Signal
	for rows.Next() {
		var sig types.Signal
		if err := rows.Scan(&sig.ID, &sig.Source, &sig.Category, &sig.Title, &sig.Content, &sig.Confidence, &sig.DetectedAt); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

// signalHash identifies a signal by source, category, and content.
func signalHash(sig types.Signal) string {
	h := sha256.Sum256([]byte(sig.Source + "\x00" + sig.Category + "\x00" + sig.Content))
	return hex.EncodeToString(h[:])
}
