package models

// Letter is a piece of correspondence between two users. Non-reply letters
// spend their transit delay in status "sent" and are flipped to "delivered"
// by the sweep once ScheduledDeliveryAt has passed. Replies skip transit.
//
// Timestamps are stored as RFC3339 UTC strings so they sort lexicographically
// in DynamoDB range conditions.
type Letter struct {
	LetterID              string              `dynamodbav:"letterId" json:"letterId"` // Partition Key
	SenderID              string              `dynamodbav:"senderId" json:"senderId"` // Used in sender GSI
	RecipientID           string              `dynamodbav:"recipientId,omitempty" json:"recipientId,omitempty"`
	Subject               string              `dynamodbav:"subject" json:"subject"`
	Content               string              `dynamodbav:"content" json:"content"`
	Status                LetterStatus        `dynamodbav:"status" json:"status"`
	Kind                  LetterKind          `dynamodbav:"kind" json:"kind"`
	IsFirstLetter         bool                `dynamodbav:"isFirstLetter" json:"isFirstLetter"`
	FriendRequestResponse FirstLetterResponse `dynamodbav:"friendRequestResponse" json:"friendRequestResponse"`
	ReplyTo               string              `dynamodbav:"replyTo,omitempty" json:"replyTo,omitempty"`
	AttachmentKey         string              `dynamodbav:"attachmentKey,omitempty" json:"attachmentKey,omitempty"`
	ScheduledDeliveryAt   string              `dynamodbav:"scheduledDeliveryAt,omitempty" json:"scheduledDeliveryAt,omitempty"`
	DeliveredAt           string              `dynamodbav:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	ReadAt                string              `dynamodbav:"readAt,omitempty" json:"readAt,omitempty"`
	ArchivedAt            string              `dynamodbav:"archivedAt,omitempty" json:"archivedAt,omitempty"`
	CreatedAt             string              `dynamodbav:"createdAt" json:"createdAt"`
}

// LettersTable is the DynamoDB table name for letters
const LettersTable = "Letters"

// GSI names used when querying a user's inbox or sent letters
const (
	LetterRecipientIndex = "recipientId-index"
	LetterSenderIndex    = "senderId-index"
)

// CanBeReadBy reports whether userID may open this letter.
func (l *Letter) CanBeReadBy(userID string) bool {
	return l.RecipientID == userID
}

// CanReplyBy reports whether userID may reply to this letter: only the
// recipient, and only once the letter has actually been read and not
// archived away.
func (l *Letter) CanReplyBy(userID string) bool {
	return l.RecipientID == userID && l.Status == LetterStatusRead
}

// AwaitingFirstLetterDecision reports whether the letter still carries an
// open accept/reject decision for its recipient.
func (l *Letter) AwaitingFirstLetterDecision() bool {
	return l.IsFirstLetter && l.FriendRequestResponse == FirstLetterResponsePending
}

// IsDeliverable reports whether the sweep may flip this letter to delivered.
// Queued random-match letters have no recipient yet and are skipped.
func (l *Letter) IsDeliverable() bool {
	return l.Status == LetterStatusSent && l.RecipientID != "" && l.ScheduledDeliveryAt != ""
}
