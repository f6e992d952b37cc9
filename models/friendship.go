package models

import "strings"

// Friendship is the single durable record per unordered user pair,
// summarizing all correspondence between the two. Never deleted, only
// archived.
type Friendship struct {
	PairKey          string           `dynamodbav:"pairKey" json:"pairKey"` // Partition Key, sorted "a#b"
	User1ID          string           `dynamodbav:"user1Id" json:"user1Id"` // Lexicographically smaller user
	User2ID          string           `dynamodbav:"user2Id" json:"user2Id"`
	InitiatedBy      string           `dynamodbav:"initiatedBy" json:"initiatedBy"`
	Status           FriendshipStatus `dynamodbav:"status" json:"status"`
	IsArchived       bool             `dynamodbav:"isArchived" json:"isArchived"`
	LetterCount      int              `dynamodbav:"letterCount" json:"letterCount"`
	LastActivity     string           `dynamodbav:"lastActivity" json:"lastActivity"`
	LastActivityType ActivityType     `dynamodbav:"lastActivityType" json:"lastActivityType"`
	LastLetterID     string           `dynamodbav:"lastLetterId,omitempty" json:"lastLetterId,omitempty"`
	CreatedAt        string           `dynamodbav:"createdAt" json:"createdAt"`
}

// FriendshipsTable is the DynamoDB table name for friendships
const FriendshipsTable = "Friendships"

// PairKey builds the canonical unordered key for a user pair. Both orders
// of the same two users produce the same key, which is what enforces the
// one-record-per-pair invariant at the store level.
func PairKey(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + "#" + userB
}

// PairUsers splits a pair key back into its two user IDs.
func PairUsers(pairKey string) (string, string) {
	parts := strings.SplitN(pairKey, "#", 2)
	if len(parts) != 2 {
		return pairKey, ""
	}
	return parts[0], parts[1]
}

// Involves reports whether userID is one of the two members.
func (f *Friendship) Involves(userID string) bool {
	return f.User1ID == userID || f.User2ID == userID
}

// OtherUser returns the counterpart of userID in the pair.
func (f *Friendship) OtherUser(userID string) string {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}
