package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/future-hause/hause-gateway/internal/types"
)

// CreateDraft inserts a new draft in status drafted.
func (s *Store) CreateDraft(ctx context.Context, d types.DraftWork) (types.DraftWork, error) {
	if err := s.ready(); err != nil {
		return types.DraftWork{}, err
	}
	if d.DraftID == "" {
		d.DraftID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = types.StatusDrafted
	}
	if d.Format == "" {
		d.Format = "text"
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO drafts (id, created_by, message_id, router_intent, body, format, status, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, d.DraftID, d.CreatedBy, d.MessageID, d.RouterIntent, d.Body, d.Format, d.Status, d.Tags,
	).Scan(&d.CreatedAt)
	if err != nil {
		return types.DraftWork{}, fmt.Errorf("insert draft: %w", err)
	}
	return d, nil
}

// GetDraft returns one draft by id.
func (s *Store) GetDraft(ctx context.Context, id string) (types.DraftWork, error) {
	if err := s.ready(); err != nil {
		return types.DraftWork{}, err
	}
	var d types.DraftWork
	err := s.db.QueryRow(ctx, `
		SELECT id, created_at, created_by, message_id, router_intent, body, format, status, tags
		FROM drafts WHERE id = $1
	`, id).Scan(
		&d.DraftID, &d.CreatedAt, &d.CreatedBy, &d.MessageID,
		&d.RouterIntent, &d.Body, &d.Format, &d.Status, &d.Tags,
	)
	if isNoRows(err) {
		return types.DraftWork{}, ErrNotFound
	}
	if err != nil {
		return types.DraftWork{}, fmt.Errorf("query draft: %w", err)
	}
	return d, nil
}

// ListDrafts returns drafts, newest first, optionally filtered by status.
func (s *Store) ListDrafts(ctx context.Context, status types.DraftStatus, limit int) ([]types.DraftWork, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rows pgx.Rows
	var err error
	if status == "" {
		rows, err = s.db.Query(ctx, `
			SELECT id, created_at, created_by, message_id, router_intent, body, format, status, tags
			FROM drafts ORDER BY created_at DESC LIMIT $1
		`, limit)
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT id, created_at, created_by, message_id, router_intent, body, format, status, tags
			FROM drafts WHERE status = $1 ORDER BY created_at DESC LIMIT $2
		`, status, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query drafts: %w", err)
	}
	defer rows.Close()

	var out []types.DraftWork
	for rows.Next() {
		var d types.DraftWork
		if err := rows.Scan(
			&d.DraftID, &d.CreatedAt, &d.CreatedBy, &d.MessageID,
			&d.RouterIntent, &d.Body, &d.Format, &d.Status, &d.Tags,
		); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// AttachReview stores a review finding. A medium or high severity finding
// flags the draft; otherwise a drafted draft moves to under_review.
func (s *Store) AttachReview(ctx context.Context, r types.DraftReview) (types.DraftReview, error) {
	draft, err := s.GetDraft(ctx, r.DraftID)
	if err != nil {
		return types.DraftReview{}, err
	}
	if draft.Status.Terminal() {
		return types.DraftReview{}, fmt.Errorf("%w: draft %s is already %s", ErrInvalidTransition, draft.DraftID, draft.Status)
	}

	if r.ReviewID == "" {
		r.ReviewID = uuid.NewString()
	}

	next := types.StatusUnderReview
	if r.Severity == "medium" || r.Severity == "high" {
		next = types.StatusFlagged
	}
	// A flagged draft stays flagged even if a later finding is low severity.
	if draft.Status == types.StatusFlagged && next == types.StatusUnderReview {
		next = types.StatusFlagged
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return types.DraftReview{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO draft_reviews (id, draft_id, reviewer, review_type, severity, notes, refs)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, r.ReviewID, r.DraftID, r.Reviewer, r.ReviewType, r.Severity, r.Notes, r.References,
	).Scan(&r.CreatedAt)
	if err != nil {
		return types.DraftReview{}, fmt.Errorf("insert review: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE drafts SET status = $1 WHERE id = $2`, next, r.DraftID); err != nil {
		return types.DraftReview{}, fmt.Errorf("update draft status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return types.DraftReview{}, fmt.Errorf("commit review: %w", err)
	}
	return r, nil
}

// ListReviews returns all reviews attached to a draft, oldest first.
func (s *Store) ListReviews(ctx context.Context, draftID string) ([]types.DraftReview, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, draft_id, reviewer, review_type, severity, notes, refs, created_at
		FROM draft_reviews WHERE draft_id = $1 ORDER BY created_at ASC
	`, draftID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var out []types.DraftReview
	for rows.Next() {
		var r types.DraftReview
		if err := rows.Scan(
			&r.ReviewID, &r.DraftID, &r.Reviewer, &r.ReviewType,
			&r.Severity, &r.Notes, &r.References, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DecideDraft moves a reviewed draft to approved or rejected. The decision
// is a human action: a draft that never went through review cannot be
// decided.
func (s *Store) DecideDraft(ctx context.Context, draftID string, decision types.DraftStatus) (types.DraftWork, error) {
	if decision != types.StatusApproved && decision != types.StatusRejected {
		return types.DraftWork{}, fmt.Errorf("%w: decision must be approved or rejected", ErrInvalidTransition)
	}

	draft, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return types.DraftWork{}, err
	}
	if !draft.Status.Decidable() {
		return types.DraftWork{}, fmt.Errorf("%w: draft %s is %s, must be reviewed first", ErrInvalidTransition, draftID, draft.Status)
	}

	if _, err := s.db.Exec(ctx, `UPDATE drafts SET status = $1 WHERE id = $2`, decision, draftID); err != nil {
		return types.DraftWork{}, fmt.Errorf("decide draft: %w", err)
	}
	draft.Status = decision
	return draft, nil
}
