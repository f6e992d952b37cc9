package store

import (
	"context"
	"fmt"
	"sort"

	"penpal_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func friendshipKey(pairKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}
}

// CreateFriendship inserts the single record for a user pair. The
// conditional put is what guarantees at most one friendship per unordered
// pair no matter how many callers race.
func (s *DynamoStore) CreateFriendship(ctx context.Context, friendship models.Friendship) error {
	created, err := s.ds.PutItemIfAbsent(ctx, s.table(models.FriendshipsTable), "pairKey", friendship)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("friendship %s: %w", friendship.PairKey, models.ErrConflict)
	}
	return nil
}

// GetFriendship retrieves the friendship for a pair key.
func (s *DynamoStore) GetFriendship(ctx context.Context, pairKey string) (*models.Friendship, error) {
	item, err := s.ds.GetItem(ctx, s.table(models.FriendshipsTable), friendshipKey(pairKey))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("friendship %s: %w", pairKey, models.ErrNotFound)
	}

	var friendship models.Friendship
	if err := attributevalue.UnmarshalMap(item, &friendship); err != nil {
		return nil, fmt.Errorf("failed to unmarshal friendship: %w", err)
	}
	return &friendship, nil
}

// ListFriendshipsForUser returns every friendship a user is part of,
// most recently active first.
func (s *DynamoStore) ListFriendshipsForUser(ctx context.Context, userID string) ([]models.Friendship, error) {
	filter := "user1Id = :user OR user2Id = :user"
	expressionValues := map[string]types.AttributeValue{
		":user": &types.AttributeValueMemberS{Value: userID},
	}

	var friendships []models.Friendship
	if err := s.ds.ScanWithFilter(ctx, s.table(models.FriendshipsTable), filter, expressionValues, nil, &friendships); err != nil {
		return nil, err
	}

	sort.SliceStable(friendships, func(i, j int) bool {
		return friendships[i].LastActivity > friendships[j].LastActivity
	})
	return friendships, nil
}

// RecordActivity bumps letterCount and the activity summary in one atomic
// update. ADD makes the increment safe under concurrent replies between
// the same pair; the attribute_exists condition turns "no record yet" into
// a false return so the caller can create instead.
func (s *DynamoStore) RecordActivity(ctx context.Context, pairKey string, activityType models.ActivityType, letterID, at string) (bool, error) {
	update := "ADD letterCount :one SET lastActivity = :at, lastActivityType = :activity, lastLetterId = :letter"
	condition := "attribute_exists(pairKey)"
	expressionValues := map[string]types.AttributeValue{
		":one":      &types.AttributeValueMemberN{Value: "1"},
		":at":       &types.AttributeValueMemberS{Value: at},
		":activity": &types.AttributeValueMemberS{Value: string(activityType)},
		":letter":   &types.AttributeValueMemberS{Value: letterID},
	}

	return s.ds.UpdateItemWithCondition(ctx, s.table(models.FriendshipsTable), update, condition, friendshipKey(pairKey), expressionValues, nil)
}

// TouchActivity stamps the summary without counting a new letter.
func (s *DynamoStore) TouchActivity(ctx context.Context, pairKey string, activityType models.ActivityType, letterID, at string) (bool, error) {
	update := "SET lastActivity = :at, lastActivityType = :activity, lastLetterId = :letter"
	condition := "attribute_exists(pairKey)"
	expressionValues := map[string]types.AttributeValue{
		":at":       &types.AttributeValueMemberS{Value: at},
		":activity": &types.AttributeValueMemberS{Value: string(activityType)},
		":letter":   &types.AttributeValueMemberS{Value: letterID},
	}

	return s.ds.UpdateItemWithCondition(ctx, s.table(models.FriendshipsTable), update, condition, friendshipKey(pairKey), expressionValues, nil)
}

// ArchiveFriendship hides a friendship without deleting its history.
func (s *DynamoStore) ArchiveFriendship(ctx context.Context, pairKey string) error {
	update := "SET isArchived = :true"
	expressionValues := map[string]types.AttributeValue{
		":true": &types.AttributeValueMemberBOOL{Value: true},
	}

	_, err := s.ds.UpdateItem(ctx, s.table(models.FriendshipsTable), update, friendshipKey(pairKey), expressionValues, nil)
	return err
}

var _ FriendshipStore = (*DynamoStore)(nil)
