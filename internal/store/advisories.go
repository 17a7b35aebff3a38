package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/future-hause/hause-gateway/internal/types"
)

// CreateAdvisory stores a generated advisory in status open. One advisory
// per source signal: re-generation over the same signal is a no-op and
// returns false.
func (s *Store) CreateAdvisory(ctx context.Context, a types.Advisory) (types.Advisory, bool, error) {
	if err := s.ready(); err != nil {
		return types.Advisory{}, false, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = "open"
	}
	if a.Priority == "" {
		a.Priority = "normal"
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO advisories (id, source_signal_id, type, title, recommendation, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (source_signal_id) DO NOTHING
	`, a.ID, a.SourceSignalID, a.Type, a.Title, a.Recommendation, a.Status, a.Priority)
	if err != nil {
		return types.Advisory{}, false, fmt.Errorf("insert advisory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return a, false, nil
	}
	return a, true, nil
}

// ListAdvisories returns advisories, newest first, optionally filtered by
// status.
func (s *Store) ListAdvisories(ctx context.Context, status string, limit int) ([]types.Advisory, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, source_signal_id, type, title, recommendation, status, priority, created_at
		FROM advisories ORDER BY created_at DESC LIMIT $1
	`
	args := []any{limit}
	if status != "" {
		query = `
			SELECT id, source_signal_id, type, title, recommendation, status, priority, created_at
			FROM advisories WHERE status = $1 ORDER BY created_at DESC LIMIT $2
		`
		args = []any{status, limit}
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query advisories: %w", err)
	}
	defer rows.Close()

	var out []types.Advisory
	for rows.Next() {
		var a types.Advisory
		if err := rows.Scan(&a.ID, &a.SourceSignalID, &a.Type, &a.Title, &a.Recommendation, &a.Status, &a.Priority, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan advisory: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateAdvisoryStatus moves an advisory between open, resolved, and
// dismissed. Status changes are human actions.
func (s *Store) UpdateAdvisoryStatus(ctx context.Context, id, status string) error {
	if err := s.ready(); err != nil {
		return err
	}
	switch status {
	case "open", "resolved", "dismissed":
	default:
		return fmt.Errorf("invalid advisory status: %q", status)
	}

	tag, err := s.db.Exec(ctx, `UPDATE advisories SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update advisory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
