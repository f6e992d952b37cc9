package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"penpal_server/models"
	"penpal_server/store"

	"github.com/google/uuid"
)

// MinRequestContentLength is the shortest introduction letter accepted on
// a friend request. Empty or one-line requests are rejected outright.
const MinRequestContentLength = 20

// FriendRequestService implements the explicit introduction flow, the
// formal counterpart to the implicit first-letter path in LetterService.
// Both flows exist on purpose and stay separate.
type FriendRequestService struct {
	Requests    store.FriendRequestStore
	Letters     store.LetterStore
	Transits    store.InTransitLetterStore
	Users       store.UserDirectory
	Friendships *FriendshipService
	Clock       Clock
	Delay       DelayService
}

// SendFriendRequest creates a pending request plus its introduction letter
// and transit snapshot. Rejected when the pair is already connected by a
// friendship or another pending request, in either direction.
func (s *FriendRequestService) SendFriendRequest(ctx context.Context, senderID, recipientID, subject, content string) (*models.FriendRequest, *models.InTransitLetter, error) {
	if senderID == "" || recipientID == "" {
		return nil, nil, fmt.Errorf("sender and recipient are required: %w", models.ErrValidationFailed)
	}
	if senderID == recipientID {
		return nil, nil, fmt.Errorf("cannot send a friend request to yourself: %w", models.ErrValidationFailed)
	}
	if len(content) < MinRequestContentLength {
		return nil, nil, fmt.Errorf("introduction must be at least %d characters: %w", MinRequestContentLength, models.ErrValidationFailed)
	}

	sender, err := s.Users.GetUser(ctx, senderID)
	if err != nil {
		return nil, nil, err
	}
	if !sender.ProfileComplete {
		return nil, nil, fmt.Errorf("sender profile is incomplete: %w", models.ErrValidationFailed)
	}
	recipient, err := s.Users.GetUser(ctx, recipientID)
	if err != nil {
		return nil, nil, err
	}

	pairKey := models.PairKey(senderID, recipientID)

	areFriends, err := s.Friendships.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return nil, nil, err
	}
	if areFriends {
		return nil, nil, fmt.Errorf("users %s are already friends: %w", pairKey, models.ErrConflict)
	}

	existing, err := s.Requests.FindActivePair(ctx, pairKey)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, fmt.Errorf("a pending request already connects %s: %w", pairKey, models.ErrConflict)
	}

	now := s.Clock.Now()
	delay, delayText := s.Delay.Estimate(sender.Country, recipient.Country, 0)

	letter := models.Letter{
		LetterID:              uuid.New().String(),
		SenderID:              senderID,
		RecipientID:           recipientID,
		Subject:               subject,
		Content:               content,
		Status:                models.LetterStatusSent,
		Kind:                  models.LetterKindFriend,
		FriendRequestResponse: models.FirstLetterResponseNone,
		ScheduledDeliveryAt:   Timestamp(now.Add(delay)),
		CreatedAt:             Timestamp(now),
	}
	if err := s.Letters.PutLetter(ctx, letter); err != nil {
		return nil, nil, fmt.Errorf("failed to create introduction letter: %w", err)
	}

	request := models.FriendRequest{
		RequestID:   uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		LetterID:    letter.LetterID,
		PairKey:     pairKey,
		Status:      models.FriendRequestStatusPending,
		CreatedAt:   letter.CreatedAt,
	}
	if err := s.Requests.PutRequest(ctx, request); err != nil {
		return nil, nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	transit := models.InTransitLetter{
		LetterID:         letter.LetterID,
		RequestID:        request.RequestID,
		SenderCountry:    sender.Country,
		RecipientCountry: recipient.Country,
		DelayMinutes:     int(delay / time.Minute),
		DelayText:        delayText,
		DeliverAt:        letter.ScheduledDeliveryAt,
		CreatedAt:        letter.CreatedAt,
	}
	if err := s.Transits.PutTransit(ctx, transit); err != nil {
		return nil, nil, fmt.Errorf("failed to create transit snapshot: %w", err)
	}

	log.Printf("📨 Friend request %s: %s -> %s, arriving in %s", request.RequestID, senderID, recipientID, delayText)
	return &request, &transit, nil
}

// AcceptFriendRequest resolves a delivered pending request in favor of a
// friendship. The linked introduction letter is marked read.
func (s *FriendRequestService) AcceptFriendRequest(ctx context.Context, requestID, requestingUser string) (*models.Friendship, *models.Letter, error) {
	request, err := s.Requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if request.RecipientID != requestingUser {
		return nil, nil, fmt.Errorf("user %s is not the recipient of request %s: %w", requestingUser, requestID, models.ErrForbidden)
	}
	if request.Status != models.FriendRequestStatusPending {
		return nil, nil, fmt.Errorf("request %s is %s, not pending: %w", requestID, request.Status, models.ErrInvalidState)
	}
	if !request.IsDelivered {
		return nil, nil, fmt.Errorf("request %s is still in transit: %w", requestID, models.ErrInvalidState)
	}

	resolved, err := s.Requests.SetRequestStatus(ctx, requestID, models.FriendRequestStatusAccepted)
	if err != nil {
		return nil, nil, err
	}
	if !resolved {
		return nil, nil, fmt.Errorf("request %s was already resolved: %w", requestID, models.ErrInvalidState)
	}

	now := Timestamp(s.Clock.Now())
	// The introduction letter was delivered with the request; reading it
	// is part of accepting.
	if _, err := s.Letters.MarkLetterRead(ctx, request.LetterID, now); err != nil {
		return nil, nil, err
	}

	friendship, err := s.Friendships.UpdateActivity(ctx, request.SenderID, request.RecipientID, models.ActivityTypeReceived, request.LetterID)
	if err != nil {
		return nil, nil, err
	}

	letter, err := s.Letters.GetLetter(ctx, request.LetterID)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("🤝 Friend request %s accepted by %s", requestID, requestingUser)
	return friendship, letter, nil
}

// RejectFriendRequest resolves a delivered pending request without
// creating or altering any friendship. The introduction letter is
// archived.
func (s *FriendRequestService) RejectFriendRequest(ctx context.Context, requestID, requestingUser string) error {
	request, err := s.Requests.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.RecipientID != requestingUser {
		return fmt.Errorf("user %s is not the recipient of request %s: %w", requestingUser, requestID, models.ErrForbidden)
	}
	if request.Status != models.FriendRequestStatusPending {
		return fmt.Errorf("request %s is %s, not pending: %w", requestID, request.Status, models.ErrInvalidState)
	}

	resolved, err := s.Requests.SetRequestStatus(ctx, requestID, models.FriendRequestStatusRejected)
	if err != nil {
		return err
	}
	if !resolved {
		return fmt.Errorf("request %s was already resolved: %w", requestID, models.ErrInvalidState)
	}

	if err := s.Letters.ArchiveLetter(ctx, request.LetterID, Timestamp(s.Clock.Now())); err != nil {
		log.Printf("⚠️ Failed to archive introduction letter %s: %v", request.LetterID, err)
	}

	log.Printf("🚫 Friend request %s rejected by %s", requestID, requestingUser)
	return nil
}

// GetPendingRequests returns delivered, unresolved requests for a user.
func (s *FriendRequestService) GetPendingRequests(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	return s.Requests.ListPendingForRecipient(ctx, userID)
}

// GetSentRequests returns the requests a user has sent, any status.
func (s *FriendRequestService) GetSentRequests(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	return s.Requests.ListSentBySender(ctx, userID)
}
