package store

import (
	"context"

	"penpal_server/models"
)

// LetterStore persists letters and applies their monotonic status
// transitions. Conditional mutations return false instead of an error when
// the row was not in the required state, so sweeps stay idempotent.
type LetterStore interface {
	PutLetter(ctx context.Context, letter models.Letter) error
	GetLetter(ctx context.Context, letterID string) (*models.Letter, error)
	ListInbox(ctx context.Context, recipientID string) ([]models.Letter, error)
	ListSent(ctx context.Context, senderID string) ([]models.Letter, error)

	// ListDueLetters returns letters still in "sent" whose scheduled
	// delivery time is at or before now (RFC3339 UTC).
	ListDueLetters(ctx context.Context, now string) ([]models.Letter, error)

	// ListQueuedRandomLetters returns distribution letters waiting for a
	// recipient to be chosen.
	ListQueuedRandomLetters(ctx context.Context) ([]models.Letter, error)

	// DeliverLetter flips sent -> delivered. Returns false if the letter
	// had already left "sent".
	DeliverLetter(ctx context.Context, letterID, deliveredAt string) (bool, error)

	// MarkLetterRead flips delivered -> read. Returns false if the letter
	// was not in "delivered".
	MarkLetterRead(ctx context.Context, letterID, readAt string) (bool, error)

	ArchiveLetter(ctx context.Context, letterID, archivedAt string) error

	// SetFirstLetterResponse records the recipient's accept/reject decision
	// together with the resulting letter status. Returns false if the
	// decision was no longer pending.
	SetFirstLetterResponse(ctx context.Context, letterID string, response models.FirstLetterResponse, status models.LetterStatus, at string) (bool, error)

	// AssignRandomRecipient attaches a recipient to a queued distribution
	// letter and delivers it. Returns false if the letter already had one.
	AssignRandomRecipient(ctx context.Context, letterID, recipientID, deliveredAt string) (bool, error)
}

// FriendRequestStore persists the explicit introduction flow.
type FriendRequestStore interface {
	PutRequest(ctx context.Context, request models.FriendRequest) error
	GetRequest(ctx context.Context, requestID string) (*models.FriendRequest, error)
	ListPendingForRecipient(ctx context.Context, recipientID string) ([]models.FriendRequest, error)
	ListSentBySender(ctx context.Context, senderID string) ([]models.FriendRequest, error)

	// FindActivePair returns a pending request between the two users in
	// either direction, or nil when none exists.
	FindActivePair(ctx context.Context, pairKey string) (*models.FriendRequest, error)

	ListUndelivered(ctx context.Context) ([]models.FriendRequest, error)

	// MarkRequestDelivered flips isDelivered. Returns false if already
	// delivered.
	MarkRequestDelivered(ctx context.Context, requestID, deliveredAt string) (bool, error)

	// SetRequestStatus resolves a pending request. Returns false if the
	// request was no longer pending.
	SetRequestStatus(ctx context.Context, requestID string, status models.FriendRequestStatus) (bool, error)
}

// InTransitLetterStore holds the denormalized transit snapshots.
type InTransitLetterStore interface {
	PutTransit(ctx context.Context, transit models.InTransitLetter) error
	GetTransitByLetter(ctx context.Context, letterID string) (*models.InTransitLetter, error)
	DeleteTransit(ctx context.Context, letterID string) error
}

// FriendshipStore enforces the one-record-per-unordered-pair invariant.
type FriendshipStore interface {
	// CreateFriendship inserts a new pair record, failing with
	// models.ErrConflict when one already exists.
	CreateFriendship(ctx context.Context, friendship models.Friendship) error

	GetFriendship(ctx context.Context, pairKey string) (*models.Friendship, error)
	ListFriendshipsForUser(ctx context.Context, userID string) ([]models.Friendship, error)

	// RecordActivity atomically increments letterCount and stamps the
	// activity summary. Returns false when no record exists for the pair.
	RecordActivity(ctx context.Context, pairKey string, activityType models.ActivityType, letterID, at string) (bool, error)

	// TouchActivity stamps the activity summary without incrementing
	// letterCount (used by the sweep on delivery).
	TouchActivity(ctx context.Context, pairKey string, activityType models.ActivityType, letterID, at string) (bool, error)

	ArchiveFriendship(ctx context.Context, pairKey string) error
}

// DraftStore persists in-progress letters.
type DraftStore interface {
	PutDraft(ctx context.Context, draft models.Draft) error
	GetDraft(ctx context.Context, draftID string) (*models.Draft, error)
	ListDraftsByAuthor(ctx context.Context, authorID string) ([]models.Draft, error)

	// CompleteDrafts marks every open draft matching the coordinates as
	// completed and returns how many were closed.
	CompleteDrafts(ctx context.Context, authorID, recipientID, replyTo, completedAt string) (int, error)
}

// UserDirectory is the read-only boundary onto the user store.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*models.UserProfile, error)
	ListActiveUsers(ctx context.Context) ([]models.UserProfile, error)
}

// Store bundles the per-record stores for wiring into services.
type Store struct {
	Letters     LetterStore
	Requests    FriendRequestStore
	Transits    InTransitLetterStore
	Friendships FriendshipStore
	Drafts      DraftStore
	Users       UserDirectory
}
