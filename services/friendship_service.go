package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"penpal_server/models"
	"penpal_server/store"
)

// FriendshipService is the single aggregation point for the one-per-pair
// friendship records. Both the letter lifecycle and the friend request
// workflow funnel their relationship updates through here.
type FriendshipService struct {
	Friendships store.FriendshipStore
	Clock       Clock
}

// UpdateActivity records one exchanged letter between two users: it
// increments letterCount and stamps the activity summary atomically,
// creating the friendship (initiated by userA) when none exists yet.
// letterCount is the sole source of truth for exchanged-letter totals; it
// is never recomputed by scanning letters.
func (s *FriendshipService) UpdateActivity(ctx context.Context, userA, userB string, activityType models.ActivityType, letterID string) (*models.Friendship, error) {
	pairKey := models.PairKey(userA, userB)
	now := Timestamp(s.Clock.Now())

	updated, err := s.Friendships.RecordActivity(ctx, pairKey, activityType, letterID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record activity for %s: %w", pairKey, err)
	}

	if !updated {
		friendship := s.newFriendship(userA, userB, activityType, letterID, now)
		err := s.Friendships.CreateFriendship(ctx, friendship)
		if err == nil {
			log.Printf("✅ Friendship created: %s (initiated by %s)", pairKey, userA)
			return &friendship, nil
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		// Lost the creation race, fall through to the increment path.
		if _, err := s.Friendships.RecordActivity(ctx, pairKey, activityType, letterID, now); err != nil {
			return nil, fmt.Errorf("failed to record activity for %s: %w", pairKey, err)
		}
	}

	return s.Friendships.GetFriendship(ctx, pairKey)
}

// EstablishFriendship creates the pair record explicitly, failing with
// ErrConflict when one already exists. Used by first-letter acceptance,
// where a second accept must not produce a second record.
func (s *FriendshipService) EstablishFriendship(ctx context.Context, initiator, other string, activityType models.ActivityType, letterID string) (*models.Friendship, error) {
	now := Timestamp(s.Clock.Now())
	friendship := s.newFriendship(initiator, other, activityType, letterID, now)
	if err := s.Friendships.CreateFriendship(ctx, friendship); err != nil {
		return nil, err
	}
	log.Printf("✅ Friendship created: %s (initiated by %s)", friendship.PairKey, initiator)
	return &friendship, nil
}

func (s *FriendshipService) newFriendship(initiator, other string, activityType models.ActivityType, letterID, now string) models.Friendship {
	user1, user2 := initiator, other
	if user1 > user2 {
		user1, user2 = user2, user1
	}
	return models.Friendship{
		PairKey:          models.PairKey(initiator, other),
		User1ID:          user1,
		User2ID:          user2,
		InitiatedBy:      initiator,
		Status:           models.FriendshipStatusAccepted,
		LetterCount:      1,
		LastActivity:     now,
		LastActivityType: activityType,
		LastLetterID:     letterID,
		CreatedAt:        now,
	}
}

// AreFriends reports whether a friendship record connects the two users.
func (s *FriendshipService) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	_, err := s.Friendships.GetFriendship(ctx, models.PairKey(userA, userB))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// TouchDelivered stamps the delivery on the pair's activity summary
// without counting a new letter; the send already counted it.
func (s *FriendshipService) TouchDelivered(ctx context.Context, userA, userB, letterID string) error {
	pairKey := models.PairKey(userA, userB)
	now := Timestamp(s.Clock.Now())
	_, err := s.Friendships.TouchActivity(ctx, pairKey, models.ActivityTypeDelivered, letterID, now)
	return err
}

// ListForUser returns a user's friendships with their activity summaries.
func (s *FriendshipService) ListForUser(ctx context.Context, userID string) ([]models.Friendship, error) {
	return s.Friendships.ListFriendshipsForUser(ctx, userID)
}

// Archive hides a friendship for one of its members. History is preserved.
func (s *FriendshipService) Archive(ctx context.Context, pairKey, requestingUser string) error {
	friendship, err := s.Friendships.GetFriendship(ctx, pairKey)
	if err != nil {
		return err
	}
	if !friendship.Involves(requestingUser) {
		return fmt.Errorf("user %s is not part of friendship %s: %w", requestingUser, pairKey, models.ErrForbidden)
	}
	return s.Friendships.ArchiveFriendship(ctx, pairKey)
}
