package store

import (
	"context"
	"fmt"

	"penpal_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// GetUser reads a profile from the user directory.
func (s *DynamoStore) GetUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}

	item, err := s.ds.GetItem(ctx, s.table(models.UserProfilesTable), key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user profile: %w", err)
	}
	return &profile, nil
}

// ListActiveUsers returns every active, profile-complete user. Used by the
// distribution cycle when picking random-match recipients.
func (s *DynamoStore) ListActiveUsers(ctx context.Context) ([]models.UserProfile, error) {
	filter := "isActive = :true AND profileComplete = :true"
	expressionValues := map[string]types.AttributeValue{
		":true": &types.AttributeValueMemberBOOL{Value: true},
	}

	var profiles []models.UserProfile
	if err := s.ds.ScanWithFilter(ctx, s.table(models.UserProfilesTable), filter, expressionValues, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

var _ UserDirectory = (*DynamoStore)(nil)
