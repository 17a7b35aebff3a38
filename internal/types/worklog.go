package types

import "time"

// DraftStatus is the lifecycle state of a stored draft. All transitions out
// of drafted are human-triggered.
type DraftStatus string

const (
	StatusDrafted     DraftStatus = "drafted"
	StatusUnderReview DraftStatus = "under_review"
	StatusFlagged     DraftStatus = "flagged"
	StatusApproved    DraftStatus = "approved"
	StatusRejected    DraftStatus = "rejected"
)

func ParseDraftStatus(s string) (DraftStatus, bool) {
	switch DraftStatus(s) {
	case StatusDrafted, StatusUnderReview, StatusFlagged, StatusApproved, StatusRejected:
		return DraftStatus(s), true
	default:
		return "", false
	}
}

// Decidable reports whether a draft in this state may be approved or
// rejected. A draft must pass through review first.
func (s DraftStatus) Decidable() bool {
	return s == StatusUnderReview || s == StatusFlagged
}

// Terminal reports whether the state admits no further transitions.
func (s DraftStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// DraftWork is a draft held for human review. Drafts are non-authoritative:
// nothing downstream may treat one as a record until a human approves it.
type DraftWork struct {
	DraftID      string      `json:"draft_id"`
	CreatedAt    time.Time   `json:"created_at"`
	CreatedBy    string      `json:"created_by"`
	MessageID    string      `json:"message_id"`
	RouterIntent string      `json:"router_intent"`
	Body         string      `json:"body"`
	Format       string      `json:"format"`
	Status       DraftStatus `json:"status"`
	Tags         []string    `json:"tags"`
}

// DraftReview is a read-only finding attached to a draft. A medium or high
// severity finding flags the draft.
type DraftReview struct {
	ReviewID   string    `json:"review_id"`
	DraftID    string    `json:"draft_id"`
	Reviewer   string    `json:"reviewer"`
	ReviewType string    `json:"review_type"`
	Severity   string    `json:"severity"`
	Notes      string    `json:"notes"`
	References []string  `json:"references,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActionEntry is one entry in the append-only audit log. Entries are written
// exclusively by human-triggered actions.
type ActionEntry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	ActionType string         `json:"action_type"`
	Timestamp  time.Time      `json:"timestamp"`
	Rationale  string         `json:"rationale"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Advisory is a deterministic suggestion generated from a perception signal.
type Advisory struct {
	ID             string    `json:"id"`
	SourceSignalID string    `json:"source_signal_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Recommendation string    `json:"recommendation"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	CreatedAt      time.Time `json:"created_at"`
}
