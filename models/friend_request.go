package models

// FriendRequest is the explicit introduction flow between two strangers.
// At most one pending request may exist per ordered (sender, recipient)
// pair, and none may coexist with an accepted Friendship for the pair.
type FriendRequest struct {
	RequestID   string              `dynamodbav:"requestId" json:"requestId"` // Partition Key
	SenderID    string              `dynamodbav:"senderId" json:"senderId"`   // Used in sender GSI
	RecipientID string              `dynamodbav:"recipientId" json:"recipientId"`
	LetterID    string              `dynamodbav:"letterId" json:"letterId"` // Linked introduction letter
	PairKey     string              `dynamodbav:"pairKey" json:"pairKey"`   // Unordered pair key, see PairKey()
	Status      FriendRequestStatus `dynamodbav:"status" json:"status"`
	IsDelivered bool                `dynamodbav:"isDelivered" json:"isDelivered"`
	DeliveredAt string              `dynamodbav:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt   string              `dynamodbav:"createdAt" json:"createdAt"`
}

// FriendRequestsTable is the DynamoDB table name for friend requests
const FriendRequestsTable = "FriendRequests"

const (
	FriendRequestRecipientIndex = "recipientId-index"
	FriendRequestSenderIndex    = "senderId-index"
)
