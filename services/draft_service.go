package services

import (
	"context"
	"fmt"
	"log"

	"penpal_server/models"
	"penpal_server/store"

	"github.com/google/uuid"
)

// DraftService handles draft bookkeeping, including the reconciliation
// that closes stale drafts once their letter has actually been sent.
type DraftService struct {
	Drafts store.DraftStore
	Clock  Clock
}

// SaveDraft creates or updates a draft for its author.
func (s *DraftService) SaveDraft(ctx context.Context, draft models.Draft) (*models.Draft, error) {
	if draft.AuthorID == "" {
		return nil, fmt.Errorf("draft requires an author: %w", models.ErrValidationFailed)
	}

	now := Timestamp(s.Clock.Now())
	if draft.DraftID == "" {
		draft.DraftID = uuid.New().String()
		draft.CreatedAt = now
	} else {
		existing, err := s.Drafts.GetDraft(ctx, draft.DraftID)
		if err != nil {
			return nil, err
		}
		if existing.AuthorID != draft.AuthorID {
			return nil, fmt.Errorf("draft %s belongs to another author: %w", draft.DraftID, models.ErrForbidden)
		}
		draft.CreatedAt = existing.CreatedAt
	}
	draft.UpdatedAt = now
	if draft.Kind == "" {
		draft.Kind = models.LetterKindDelivery
	}

	if err := s.Drafts.PutDraft(ctx, draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// GetDrafts returns a user's drafts, newest first.
func (s *DraftService) GetDrafts(ctx context.Context, authorID string) ([]models.Draft, error) {
	return s.Drafts.ListDraftsByAuthor(ctx, authorID)
}

// ReconcileOnSend marks drafts matching the just-sent letter as completed.
// Best effort: a reconciliation failure is logged, never surfaced, so it
// can never fail the send path.
func (s *DraftService) ReconcileOnSend(ctx context.Context, authorID, recipientID, replyTo string) {
	now := Timestamp(s.Clock.Now())
	completed, err := s.Drafts.CompleteDrafts(ctx, authorID, recipientID, replyTo, now)
	if err != nil {
		log.Printf("⚠️ Draft reconciliation failed for author %s: %v", authorID, err)
		return
	}
	if completed > 0 {
		log.Printf("✅ Completed %d draft(s) for author %s", completed, authorID)
	}
}
