package models

// Draft is an in-progress letter. Drafts are marked completed the moment a
// real letter for the same (author, recipient) or (author, replyTo) pair is
// sent, so stale editors do not resurface already-sent mail.
type Draft struct {
	DraftID     string     `dynamodbav:"draftId" json:"draftId"`   // Partition Key
	AuthorID    string     `dynamodbav:"authorId" json:"authorId"` // Used in author GSI
	RecipientID string     `dynamodbav:"recipientId,omitempty" json:"recipientId,omitempty"`
	Subject     string     `dynamodbav:"subject" json:"subject"`
	Content     string     `dynamodbav:"content" json:"content"`
	Kind        LetterKind `dynamodbav:"kind" json:"kind"`
	ReplyTo     string     `dynamodbav:"replyTo,omitempty" json:"replyTo,omitempty"`
	IsCompleted bool       `dynamodbav:"isCompleted" json:"isCompleted"`
	CreatedAt   string     `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt   string     `dynamodbav:"updatedAt" json:"updatedAt"`
}

// DraftsTable is the DynamoDB table name for drafts
const DraftsTable = "Drafts"

const DraftAuthorIndex = "authorId-index"

// Matches reports whether sending a letter with the given coordinates
// fulfils this draft.
func (d *Draft) Matches(authorID, recipientID, replyTo string) bool {
	if d.AuthorID != authorID {
		return false
	}
	if d.ReplyTo != "" && replyTo != "" && d.ReplyTo == replyTo {
		return true
	}
	return d.RecipientID != "" && d.RecipientID == recipientID
}
