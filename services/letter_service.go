package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"penpal_server/models"
	"penpal_server/store"

	"github.com/google/uuid"
)

// LetterService owns the letter lifecycle: creation, the monotonic status
// state machine, reply eligibility, and the friendship updates each
// transition triggers.
type LetterService struct {
	Letters     store.LetterStore
	Transits    store.InTransitLetterStore
	Users       store.UserDirectory
	Friendships *FriendshipService
	Drafts      *DraftService
	Delay       DelayService
	Clock       Clock
}

// SendLetter creates a new letter in transit. The first letter between two
// unconnected users carries a pending accept/reject decision for its
// recipient; letters between friends count toward the friendship
// immediately.
func (s *LetterService) SendLetter(ctx context.Context, senderID, recipientID, subject, content, attachmentKey string, delayOverride time.Duration) (*models.Letter, error) {
	if senderID == "" || recipientID == "" || content == "" {
		return nil, fmt.Errorf("sender, recipient and content are required: %w", models.ErrValidationFailed)
	}
	if senderID == recipientID {
		return nil, fmt.Errorf("cannot send a letter to yourself: %w", models.ErrValidationFailed)
	}

	sender, err := s.Users.GetUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if !sender.ProfileComplete {
		return nil, fmt.Errorf("sender profile is incomplete: %w", models.ErrValidationFailed)
	}
	recipient, err := s.Users.GetUser(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	areFriends, err := s.Friendships.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	delay, delayText := s.Delay.Estimate(sender.Country, recipient.Country, delayOverride)

	letter := models.Letter{
		LetterID:              uuid.New().String(),
		SenderID:              senderID,
		RecipientID:           recipientID,
		Subject:               subject,
		Content:               content,
		Status:                models.LetterStatusSent,
		Kind:                  models.LetterKindDelivery,
		IsFirstLetter:         !areFriends,
		FriendRequestResponse: models.FirstLetterResponseNone,
		AttachmentKey:         attachmentKey,
		ScheduledDeliveryAt:   Timestamp(now.Add(delay)),
		CreatedAt:             Timestamp(now),
	}
	if letter.IsFirstLetter {
		letter.FriendRequestResponse = models.FirstLetterResponsePending
	}

	if err := s.Letters.PutLetter(ctx, letter); err != nil {
		return nil, fmt.Errorf("failed to create letter: %w", err)
	}

	transit := models.InTransitLetter{
		LetterID:         letter.LetterID,
		SenderCountry:    sender.Country,
		RecipientCountry: recipient.Country,
		DelayMinutes:     int(delay / time.Minute),
		DelayText:        delayText,
		DeliverAt:        letter.ScheduledDeliveryAt,
		CreatedAt:        letter.CreatedAt,
	}
	if err := s.Transits.PutTransit(ctx, transit); err != nil {
		return nil, fmt.Errorf("failed to create transit snapshot: %w", err)
	}

	if !letter.IsFirstLetter {
		if _, err := s.Friendships.UpdateActivity(ctx, senderID, recipientID, models.ActivityTypeSent, letter.LetterID); err != nil {
			return nil, err
		}
	}

	s.Drafts.ReconcileOnSend(ctx, senderID, recipientID, "")

	log.Printf("📮 Letter %s: %s -> %s, arriving in %s", letter.LetterID, senderID, recipientID, delayText)
	return &letter, nil
}

// ReplyToLetter creates an immediate reply to a read letter. Replies skip
// transit so a back-and-forth stays readable, and a reply between two
// not-yet-connected users is what creates their friendship.
func (s *LetterService) ReplyToLetter(ctx context.Context, senderID, originalLetterID, subject, content string) (*models.Letter, error) {
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", models.ErrValidationFailed)
	}

	original, err := s.Letters.GetLetter(ctx, originalLetterID)
	if err != nil {
		return nil, err
	}
	if original.RecipientID != senderID {
		return nil, fmt.Errorf("only the recipient may reply to letter %s: %w", originalLetterID, models.ErrForbidden)
	}
	if !original.CanReplyBy(senderID) {
		return nil, fmt.Errorf("letter %s is %s, not read: %w", originalLetterID, original.Status, models.ErrInvalidState)
	}

	now := Timestamp(s.Clock.Now())
	reply := models.Letter{
		LetterID:              uuid.New().String(),
		SenderID:              senderID,
		RecipientID:           original.SenderID,
		Subject:               subject,
		Content:               content,
		Status:                models.LetterStatusDelivered,
		Kind:                  models.LetterKindReply,
		FriendRequestResponse: models.FirstLetterResponseNone,
		ReplyTo:               originalLetterID,
		DeliveredAt:           now,
		CreatedAt:             now,
	}

	if err := s.Letters.PutLetter(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	if _, err := s.Friendships.UpdateActivity(ctx, senderID, reply.RecipientID, models.ActivityTypeReplied, reply.LetterID); err != nil {
		return nil, err
	}

	s.Drafts.ReconcileOnSend(ctx, senderID, reply.RecipientID, originalLetterID)

	log.Printf("↩️ Reply %s: %s -> %s (to letter %s)", reply.LetterID, senderID, reply.RecipientID, originalLetterID)
	return &reply, nil
}

// MarkAsRead moves a delivered letter to read. Reading an already-read
// letter is a no-op; a letter still in transit or archived cannot be read.
func (s *LetterService) MarkAsRead(ctx context.Context, letterID, requestingUser string) error {
	letter, err := s.Letters.GetLetter(ctx, letterID)
	if err != nil {
		return err
	}
	if !letter.CanBeReadBy(requestingUser) {
		return fmt.Errorf("user %s is not the recipient of letter %s: %w", requestingUser, letterID, models.ErrForbidden)
	}

	switch letter.Status {
	case models.LetterStatusRead:
		return nil
	case models.LetterStatusDelivered:
		// A lost race here means someone else read it first, same outcome.
		_, err := s.Letters.MarkLetterRead(ctx, letterID, Timestamp(s.Clock.Now()))
		return err
	case models.LetterStatusSent, models.LetterStatusArchived:
		return fmt.Errorf("letter %s is %s: %w", letterID, letter.Status, models.ErrInvalidState)
	default:
		return fmt.Errorf("letter %s has unknown status %q: %w", letterID, letter.Status, models.ErrInvalidState)
	}
}

// AcceptFirstLetter records the recipient's acceptance of a first letter
// and establishes the friendship. A second accept fails with
// ErrInvalidState and never creates a second record.
func (s *LetterService) AcceptFirstLetter(ctx context.Context, letterID, requestingUser string) (*models.Friendship, error) {
	letter, err := s.Letters.GetLetter(ctx, letterID)
	if err != nil {
		return nil, err
	}
	if letter.RecipientID != requestingUser {
		return nil, fmt.Errorf("user %s is not the recipient of letter %s: %w", requestingUser, letterID, models.ErrForbidden)
	}
	if !letter.AwaitingFirstLetterDecision() {
		return nil, fmt.Errorf("letter %s has no pending decision: %w", letterID, models.ErrInvalidState)
	}

	now := Timestamp(s.Clock.Now())
	accepted, err := s.Letters.SetFirstLetterResponse(ctx, letterID, models.FirstLetterResponseAccepted, models.LetterStatusRead, now)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, fmt.Errorf("letter %s has no pending decision: %w", letterID, models.ErrInvalidState)
	}

	friendship, err := s.Friendships.EstablishFriendship(ctx, letter.SenderID, requestingUser, models.ActivityTypeReceived, letterID)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("friendship already exists for letter %s: %w", letterID, models.ErrConflict)
		}
		return nil, err
	}

	log.Printf("🤝 First letter %s accepted by %s", letterID, requestingUser)
	return friendship, nil
}

// RejectFirstLetter archives a first letter without creating a friendship.
func (s *LetterService) RejectFirstLetter(ctx context.Context, letterID, requestingUser string) error {
	letter, err := s.Letters.GetLetter(ctx, letterID)
	if err != nil {
		return err
	}
	if letter.RecipientID != requestingUser {
		return fmt.Errorf("user %s is not the recipient of letter %s: %w", requestingUser, letterID, models.ErrForbidden)
	}
	if !letter.AwaitingFirstLetterDecision() {
		return fmt.Errorf("letter %s has no pending decision: %w", letterID, models.ErrInvalidState)
	}

	now := Timestamp(s.Clock.Now())
	rejected, err := s.Letters.SetFirstLetterResponse(ctx, letterID, models.FirstLetterResponseRejected, models.LetterStatusArchived, now)
	if err != nil {
		return err
	}
	if !rejected {
		return fmt.Errorf("letter %s has no pending decision: %w", letterID, models.ErrInvalidState)
	}

	log.Printf("🚫 First letter %s rejected by %s", letterID, requestingUser)
	return nil
}

// ArchiveLetter lets the recipient put away a read letter. Letters are
// never deleted.
func (s *LetterService) ArchiveLetter(ctx context.Context, letterID, requestingUser string) error {
	letter, err := s.Letters.GetLetter(ctx, letterID)
	if err != nil {
		return err
	}
	if letter.RecipientID != requestingUser {
		return fmt.Errorf("user %s is not the recipient of letter %s: %w", requestingUser, letterID, models.ErrForbidden)
	}
	if letter.Status != models.LetterStatusRead {
		return fmt.Errorf("letter %s is %s, only read letters can be archived: %w", letterID, letter.Status, models.ErrInvalidState)
	}
	return s.Letters.ArchiveLetter(ctx, letterID, Timestamp(s.Clock.Now()))
}

// QueueRandomLetter queues a letter for the next distribution cycle: no
// recipient yet, delivered to a randomly selected user when the cycle runs.
func (s *LetterService) QueueRandomLetter(ctx context.Context, senderID, subject, content string) (*models.Letter, error) {
	if senderID == "" || content == "" {
		return nil, fmt.Errorf("sender and content are required: %w", models.ErrValidationFailed)
	}

	sender, err := s.Users.GetUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if !sender.ProfileComplete {
		return nil, fmt.Errorf("sender profile is incomplete: %w", models.ErrValidationFailed)
	}

	now := Timestamp(s.Clock.Now())
	letter := models.Letter{
		LetterID:              uuid.New().String(),
		SenderID:              senderID,
		Subject:               subject,
		Content:               content,
		Status:                models.LetterStatusSent,
		Kind:                  models.LetterKindDelivery,
		FriendRequestResponse: models.FirstLetterResponseNone,
		CreatedAt:             now,
	}

	if err := s.Letters.PutLetter(ctx, letter); err != nil {
		return nil, fmt.Errorf("failed to queue letter: %w", err)
	}

	log.Printf("🎲 Letter %s from %s queued for the next distribution cycle", letter.LetterID, senderID)
	return &letter, nil
}

// GetInbox returns a user's visible letters: delivered or read, archived
// excluded. Letters still in transit never appear.
func (s *LetterService) GetInbox(ctx context.Context, userID string) ([]models.Letter, error) {
	letters, err := s.Letters.ListInbox(ctx, userID)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Letter, 0, len(letters))
	for _, letter := range letters {
		if letter.Status == models.LetterStatusDelivered || letter.Status == models.LetterStatusRead {
			visible = append(visible, letter)
		}
	}
	return visible, nil
}

// GetSent returns every letter a user has written.
func (s *LetterService) GetSent(ctx context.Context, userID string) ([]models.Letter, error) {
	return s.Letters.ListSent(ctx, userID)
}

// TransitStatus answers "how long until this letter arrives" from the
// denormalized snapshot, for the letter's sender or recipient.
func (s *LetterService) TransitStatus(ctx context.Context, letterID, requestingUser string) (*models.InTransitLetter, time.Duration, error) {
	letter, err := s.Letters.GetLetter(ctx, letterID)
	if err != nil {
		return nil, 0, err
	}
	if letter.SenderID != requestingUser && letter.RecipientID != requestingUser {
		return nil, 0, fmt.Errorf("user %s is not part of letter %s: %w", requestingUser, letterID, models.ErrForbidden)
	}

	transit, err := s.Transits.GetTransitByLetter(ctx, letterID)
	if err != nil {
		return nil, 0, err
	}

	deliverAt, err := time.Parse(time.RFC3339, transit.DeliverAt)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid deliverAt on transit snapshot: %w", err)
	}
	remaining := deliverAt.Sub(s.Clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	return transit, remaining, nil
}
