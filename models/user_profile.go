package models

// UserProfile is the read-only slice of the user directory the engine
// needs: country feeds the delay estimator, ProfileComplete gates sending,
// IsActive gates random-match selection.
type UserProfile struct {
	UserID          string `dynamodbav:"userId" json:"userId"` // Partition Key
	DisplayName     string `dynamodbav:"displayName" json:"displayName"`
	Country         string `dynamodbav:"country" json:"country"`
	ProfileComplete bool   `dynamodbav:"profileComplete" json:"profileComplete"`
	IsActive        bool   `dynamodbav:"isActive" json:"isActive"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
