package store

import (
	"context"
	"fmt"
	"sort"

	"penpal_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func draftKey(draftID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"draftId": &types.AttributeValueMemberS{Value: draftID},
	}
}

// PutDraft stores a draft.
func (s *DynamoStore) PutDraft(ctx context.Context, draft models.Draft) error {
	return s.ds.PutItem(ctx, s.table(models.DraftsTable), draft)
}

// GetDraft retrieves a draft by ID.
func (s *DynamoStore) GetDraft(ctx context.Context, draftID string) (*models.Draft, error) {
	item, err := s.ds.GetItem(ctx, s.table(models.DraftsTable), draftKey(draftID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("draft %s: %w", draftID, models.ErrNotFound)
	}

	var draft models.Draft
	if err := attributevalue.UnmarshalMap(item, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

// ListDraftsByAuthor returns a user's drafts, newest first.
func (s *DynamoStore) ListDraftsByAuthor(ctx context.Context, authorID string) ([]models.Draft, error) {
	keyCondition := "authorId = :author"
	expressionValues := map[string]types.AttributeValue{
		":author": &types.AttributeValueMemberS{Value: authorID},
	}

	items, err := s.ds.QueryItemsWithIndex(ctx, s.table(models.DraftsTable), models.DraftAuthorIndex, keyCondition, expressionValues, nil, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch drafts: %w", err)
	}

	var drafts []models.Draft
	if err := attributevalue.UnmarshalListOfMaps(items, &drafts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drafts: %w", err)
	}

	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].UpdatedAt > drafts[j].UpdatedAt
	})
	return drafts, nil
}

// CompleteDrafts closes every open draft that the sent letter fulfils.
func (s *DynamoStore) CompleteDrafts(ctx context.Context, authorID, recipientID, replyTo, completedAt string) (int, error) {
	drafts, err := s.ListDraftsByAuthor(ctx, authorID)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, draft := range drafts {
		if draft.IsCompleted || !draft.Matches(authorID, recipientID, replyTo) {
			continue
		}

		update := "SET isCompleted = :true, updatedAt = :at"
		expressionValues := map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
			":at":   &types.AttributeValueMemberS{Value: completedAt},
		}
		if _, err := s.ds.UpdateItem(ctx, s.table(models.DraftsTable), update, draftKey(draft.DraftID), expressionValues, nil); err != nil {
			return completed, err
		}
		completed++
	}
	return completed, nil
}

var _ DraftStore = (*DynamoStore)(nil)
