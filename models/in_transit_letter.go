package models

// InTransitLetter is a denormalized snapshot of a computed transit delay.
// It exists so "how long until this arrives" is a single read, and is
// removed once the linked letter or request has been delivered.
type InTransitLetter struct {
	LetterID         string `dynamodbav:"letterId" json:"letterId"` // Partition Key
	RequestID        string `dynamodbav:"requestId,omitempty" json:"requestId,omitempty"`
	SenderCountry    string `dynamodbav:"senderCountry" json:"senderCountry"`
	RecipientCountry string `dynamodbav:"recipientCountry" json:"recipientCountry"`
	DelayMinutes     int    `dynamodbav:"delayMinutes" json:"delayMinutes"`
	DelayText        string `dynamodbav:"delayText" json:"delayText"` // Human-readable estimate
	DeliverAt        string `dynamodbav:"deliverAt" json:"deliverAt"` // Target delivery timestamp
	CreatedAt        string `dynamodbav:"createdAt" json:"createdAt"`
}

// InTransitLettersTable is the DynamoDB table name for transit snapshots
const InTransitLettersTable = "InTransitLetters"
