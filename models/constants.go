package models

// LetterStatus tracks a letter through its delivery lifecycle.
// Transitions are monotonic: sent -> delivered -> read -> archived.
type LetterStatus string

const (
	LetterStatusSent      LetterStatus = "sent"
	LetterStatusDelivered LetterStatus = "delivered"
	LetterStatusRead      LetterStatus = "read"
	LetterStatusArchived  LetterStatus = "archived"
)

// LetterKind distinguishes how a letter entered the system.
type LetterKind string

const (
	LetterKindDelivery LetterKind = "delivery" // random-match distribution letter
	LetterKindReply    LetterKind = "reply"
	LetterKindFriend   LetterKind = "friend_letter"
)

// FirstLetterResponse is the recipient's decision on a first letter.
// Only meaningful when IsFirstLetter is true.
type FirstLetterResponse string

const (
	FirstLetterResponseNone     FirstLetterResponse = "none"
	FirstLetterResponsePending  FirstLetterResponse = "pending"
	FirstLetterResponseAccepted FirstLetterResponse = "accepted"
	FirstLetterResponseRejected FirstLetterResponse = "rejected"
)

// FriendRequestStatus for the explicit request/accept/reject flow.
type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "pending"
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	FriendRequestStatusRejected FriendRequestStatus = "rejected"
)

// FriendshipStatus for the single record per user pair.
type FriendshipStatus string

const (
	FriendshipStatusAccepted FriendshipStatus = "accepted"
	FriendshipStatusBlocked  FriendshipStatus = "blocked"
)

// ActivityType records what last happened between two friends.
type ActivityType string

const (
	ActivityTypeSent      ActivityType = "sent"
	ActivityTypeDelivered ActivityType = "delivered"
	ActivityTypeReceived  ActivityType = "received"
	ActivityTypeReplied   ActivityType = "replied"
)
