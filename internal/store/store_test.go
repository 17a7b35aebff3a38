package store

import (
	"context"
	"errors"
	"testing"

	"github.com/future-hause/hause-gateway/internal/types"
)

// The server starts even when the database is down, so every operation on
// a pool-less store must come back as ErrUnavailable rather than a panic.
func TestStore_NoPool_ReturnsUnavailable(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"CreateDraft", func() error {
			_, err := s.CreateDraft(ctx, types.DraftWork{Body: "x"})
			return err
		}},
		{"GetDraft", func() error {
			_, err := s.GetDraft(ctx, "some-id")
			return err
		}},
		{"ListDrafts", func() error {
			_, err := s.ListDrafts(ctx, "", 10)
			return err
		}},
		{"AttachReview", func() error {
			_, err := s.AttachReview(ctx, types.DraftReview{DraftID: "some-id"})
			return err
		}},
		{"ListReviews", func() error {
			_, err := s.ListReviews(ctx, "some-id")
			return err
		}},
		{"DecideDraft", func() error {
			_, err := s.DecideDraft(ctx, "some-id", types.StatusApproved)
			return err
		}},
		{"AppendAction", func() error {
			_, err := s.AppendAction(ctx, types.ActionEntry{Action: "x"})
			return err
		}},
		{"ListActions", func() error {
			_, err := s.ListActions(ctx, 10)
			return err
		}},
		{"InsertSignal", func() error {
			_, _, err := s.InsertSignal(ctx, types.Signal{Source: "notes", Content: "x"})
			return err
		}},
		{"ListSignals", func() error {
			_, err := s.ListSignals(ctx, "", 10)
			return err
		}},
		{"CreateAdvisory", func() error {
			_, _, err := s.CreateAdvisory(ctx, types.Advisory{SourceSignalID: "sig-1"})
			return err
		}},
		{"ListAdvisories", func() error {
			_, err := s.ListAdvisories(ctx, "", 10)
			return err
		}},
		{"UpdateAdvisoryStatus", func() error {
			return s.UpdateAdvisoryStatus(ctx, "adv-1", "resolved")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("%s = %v, want ErrUnavailable", tt.name, err)
			}
		})
	}
}

func TestStore_NilStore_ReturnsUnavailable(t *testing.T) {
	var s *Store
	if _, err := s.GetDraft(context.Background(), "some-id"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("nil store GetDraft = %v, want ErrUnavailable", err)
	}
}
