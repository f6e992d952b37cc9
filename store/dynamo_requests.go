package store

import (
	"context"
	"fmt"
	"sort"

	"penpal_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func requestKey(requestID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
}

// PutRequest stores a friend request.
func (s *DynamoStore) PutRequest(ctx context.Context, request models.FriendRequest) error {
	return s.ds.PutItem(ctx, s.table(models.FriendRequestsTable), request)
}

// GetRequest retrieves a friend request by ID.
func (s *DynamoStore) GetRequest(ctx context.Context, requestID string) (*models.FriendRequest, error) {
	item, err := s.ds.GetItem(ctx, s.table(models.FriendRequestsTable), requestKey(requestID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("friend request %s: %w", requestID, models.ErrNotFound)
	}

	var request models.FriendRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal friend request: %w", err)
	}
	return &request, nil
}

// ListPendingForRecipient returns delivered, still-pending requests
// addressed to a user. Undelivered requests stay invisible until the
// sweep flips them.
func (s *DynamoStore) ListPendingForRecipient(ctx context.Context, recipientID string) ([]models.FriendRequest, error) {
	requests, err := s.queryRequestsByIndex(ctx, models.FriendRequestRecipientIndex, "recipientId", recipientID)
	if err != nil {
		return nil, err
	}

	pending := make([]models.FriendRequest, 0, len(requests))
	for _, request := range requests {
		if request.Status == models.FriendRequestStatusPending && request.IsDelivered {
			pending = append(pending, request)
		}
	}
	return pending, nil
}

// ListSentBySender returns requests a user has sent.
func (s *DynamoStore) ListSentBySender(ctx context.Context, senderID string) ([]models.FriendRequest, error) {
	return s.queryRequestsByIndex(ctx, models.FriendRequestSenderIndex, "senderId", senderID)
}

func (s *DynamoStore) queryRequestsByIndex(ctx context.Context, indexName, attribute, value string) ([]models.FriendRequest, error) {
	keyCondition := fmt.Sprintf("%s = :v", attribute)
	expressionValues := map[string]types.AttributeValue{
		":v": &types.AttributeValueMemberS{Value: value},
	}

	items, err := s.ds.QueryItemsWithIndex(ctx, s.table(models.FriendRequestsTable), indexName, keyCondition, expressionValues, nil, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friend requests: %w", err)
	}

	var requests []models.FriendRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal friend requests: %w", err)
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt > requests[j].CreatedAt
	})
	return requests, nil
}

// FindActivePair returns a pending request connecting the pair in either
// direction, or nil when there is none.
func (s *DynamoStore) FindActivePair(ctx context.Context, pairKey string) (*models.FriendRequest, error) {
	filter := "pairKey = :pair AND #status = :pending"
	expressionValues := map[string]types.AttributeValue{
		":pair":    &types.AttributeValueMemberS{Value: pairKey},
		":pending": &types.AttributeValueMemberS{Value: string(models.FriendRequestStatusPending)},
	}
	expressionNames := map[string]string{"#status": "status"}

	var requests []models.FriendRequest
	if err := s.ds.ScanWithFilter(ctx, s.table(models.FriendRequestsTable), filter, expressionValues, expressionNames, &requests); err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, nil
	}
	return &requests[0], nil
}

// ListUndelivered returns pending requests the sweep still has to deliver.
func (s *DynamoStore) ListUndelivered(ctx context.Context) ([]models.FriendRequest, error) {
	filter := "isDelivered = :false AND #status = :pending"
	expressionValues := map[string]types.AttributeValue{
		":false":   &types.AttributeValueMemberBOOL{Value: false},
		":pending": &types.AttributeValueMemberS{Value: string(models.FriendRequestStatusPending)},
	}
	expressionNames := map[string]string{"#status": "status"}

	var requests []models.FriendRequest
	if err := s.ds.ScanWithFilter(ctx, s.table(models.FriendRequestsTable), filter, expressionValues, expressionNames, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// MarkRequestDelivered flips isDelivered exactly once.
func (s *DynamoStore) MarkRequestDelivered(ctx context.Context, requestID, deliveredAt string) (bool, error) {
	update := "SET isDelivered = :true, deliveredAt = :at"
	condition := "isDelivered = :false"
	expressionValues := map[string]types.AttributeValue{
		":true":  &types.AttributeValueMemberBOOL{Value: true},
		":false": &types.AttributeValueMemberBOOL{Value: false},
		":at":    &types.AttributeValueMemberS{Value: deliveredAt},
	}

	return s.ds.UpdateItemWithCondition(ctx, s.table(models.FriendRequestsTable), update, condition, requestKey(requestID), expressionValues, nil)
}

// SetRequestStatus resolves a pending request.
func (s *DynamoStore) SetRequestStatus(ctx context.Context, requestID string, status models.FriendRequestStatus) (bool, error) {
	update := "SET #status = :status"
	condition := "#status = :pending"
	expressionValues := map[string]types.AttributeValue{
		":status":  &types.AttributeValueMemberS{Value: string(status)},
		":pending": &types.AttributeValueMemberS{Value: string(models.FriendRequestStatusPending)},
	}
	expressionNames := map[string]string{"#status": "status"}

	return s.ds.UpdateItemWithCondition(ctx, s.table(models.FriendRequestsTable), update, condition, requestKey(requestID), expressionValues, expressionNames)
}

func transitKey(letterID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"letterId": &types.AttributeValueMemberS{Value: letterID},
	}
}

// PutTransit stores a transit snapshot.
func (s *DynamoStore) PutTransit(ctx context.Context, transit models.InTransitLetter) error {
	return s.ds.PutItem(ctx, s.table(models.InTransitLettersTable), transit)
}

// GetTransitByLetter retrieves the transit snapshot for a letter.
func (s *DynamoStore) GetTransitByLetter(ctx context.Context, letterID string) (*models.InTransitLetter, error) {
	item, err := s.ds.GetItem(ctx, s.table(models.InTransitLettersTable), transitKey(letterID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("transit snapshot for letter %s: %w", letterID, models.ErrNotFound)
	}

	var transit models.InTransitLetter
	if err := attributevalue.UnmarshalMap(item, &transit); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transit snapshot: %w", err)
	}
	return &transit, nil
}

// DeleteTransit removes a consumed transit snapshot.
func (s *DynamoStore) DeleteTransit(ctx context.Context, letterID string) error {
	return s.ds.DeleteItem(ctx, s.table(models.InTransitLettersTable), transitKey(letterID))
}

var _ FriendRequestStore = (*DynamoStore)(nil)
var _ InTransitLetterStore = (*DynamoStore)(nil)
