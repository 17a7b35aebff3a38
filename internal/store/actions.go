package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/future-hause/hause-gateway/internal/types"
)

// AppendAction writes one entry to the append-only action log. There is no
// update or delete path: the log only grows, and only humans trigger writes.
func (s *Store) AppendAction(ctx context.Context, e types.ActionEntry) (types.ActionEntry, error) {
	if err := s.ready(); err != nil {
		return types.ActionEntry{}, err
	}
	if e.Action == "" {
		return types.ActionEntry{}, fmt.Errorf("action is required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ActionType == "" {
		e.ActionType = "general"
	}

	meta, err := json.Marshal(e.Metadata)
	if err != nil {
		return types.ActionEntry{}, fmt.Errorf("marshal metadata: %w", err)
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO action_log (id, action, action_type, rationale, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, e.ID, e.Action, e.ActionType, e.Rationale, meta).Scan(&e.Timestamp)
	if err != nil {
		return types.ActionEntry{}, fmt.Errorf("insert action: %w", err)
	}
	return e, nil
}

// ListActions returns the most recent action log entries, newest first.
func (s *Store) ListActions(ctx context.Context, limit int) ([]types.ActionEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, action, action_type, rationale, metadata, created_at
		FROM action_log ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query action log: %w", err)
	}
	defer rows.Close()

	var out []types.ActionEntry
	for rows.Next() {
		var e types.ActionEntry
		var meta []byte
		if err := rows.Scan(&e.ID, &e.Action, &e.ActionType, &e.Rationale, &meta, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		if len(meta) > 0 {
			json.Unmarshal(meta, &e.Metadata)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
