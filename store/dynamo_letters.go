package store

import (
	"context"
	"fmt"
	"sort"

	"penpal_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore implements every store interface on top of DynamoDB.
// Table names can be prefixed per environment ("dev-Letters" etc.).
type DynamoStore struct {
	ds     *DynamoService
	prefix string
}

// NewDynamoStore wires a DynamoStore onto an existing client.
func NewDynamoStore(client *dynamodb.Client, tablePrefix string) *DynamoStore {
	return &DynamoStore{ds: &DynamoService{Client: client}, prefix: tablePrefix}
}

// Bundle exposes the store as the per-record interfaces services consume.
func (s *DynamoStore) Bundle() Store {
	return Store{
		Letters:     s,
		Requests:    s,
		Transits:    s,
		Friendships: s,
		Drafts:      s,
		Users:       s,
	}
}

func (s *DynamoStore) table(name string) string {
	return s.prefix + name
}

func letterKey(letterID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"letterId": &types.AttributeValueMemberS{Value: letterID},
	}
}

// PutLetter stores a letter.
func (s *DynamoStore) PutLetter(ctx context.Context, letter models.Letter) error {
	return s.ds.PutItem(ctx, s.table(models.LettersTable), letter)
}

// GetLetter retrieves a letter by ID.
func (s *DynamoStore) GetLetter(ctx context.Context, letterID string) (*models.Letter, error) {
	item, err := s.ds.GetItem(ctx, s.table(models.LettersTable), letterKey(letterID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("letter %s: %w", letterID, models.ErrNotFound)
	}

	var letter models.Letter
	if err := attributevalue.UnmarshalMap(item, &letter); err != nil {
		return nil, fmt.Errorf("failed to unmarshal letter: %w", err)
	}
	return &letter, nil
}

// ListInbox returns all letters addressed to a recipient, newest first.
func (s *DynamoStore) ListInbox(ctx context.Context, recipientID string) ([]models.Letter, error) {
	return s.queryLettersByIndex(ctx, models.LetterRecipientIndex, "recipientId", recipientID)
}

// ListSent returns all letters written by a sender, newest first.
func (s *DynamoStore) ListSent(ctx context.Context, senderID string) ([]models.Letter, error) {
	return s.queryLettersByIndex(ctx, models.LetterSenderIndex, "senderId", senderID)
}

func (s *DynamoStore) queryLettersByIndex(ctx context.Context, indexName, attribute, value string) ([]models.Letter, error) {
	keyCondition := fmt.Sprintf("%s = :v", attribute)
	expressionValues := map[string]types.AttributeValue{
		":v": &types.AttributeValueMemberS{Value: value},
	}

	items, err := s.ds.QueryItemsWithIndex(ctx, s.table(models.LettersTable), indexName, keyCondition, expressionValues, nil, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch letters: %w", err)
	}

	var letters []models.Letter
	if err := attributevalue.UnmarshalListOfMaps(items, &letters); err != nil {
		return nil, fmt.Errorf("failed to unmarshal letters: %w", err)
	}

	// GSI order is not guaranteed across partitions, sort locally
	sort.SliceStable(letters, func(i, j int) bool {
		return letters[i].CreatedAt > letters[j].CreatedAt
	})
	return letters, nil
}

// ListDueLetters returns sent letters whose scheduled delivery has elapsed.
// RFC3339 UTC strings compare lexicographically, so a string comparison in
// the filter expression is a time comparison.
func (s *DynamoStore) ListDueLetters(ctx context.Context, now string) ([]models.Letter, error) {
	filter := "#status = :sent AND attribute_exists(recipientId) AND scheduledDeliveryAt <= :now"
	expressionValues := map[string]types.AttributeValue{
		":sent": &types.AttributeValueMemberS{Value: string(models.LetterStatusSent)},
		":now":  &types.AttributeValueMemberS{Value: now},
	}
	expressionNames := map[string]string{"#status": "status"}

	var letters []models.Letter
	if err := s.ds.ScanWithFilter(ctx, s.table(models.LettersTable), filter, expressionValues, expressionNames, &letters); err != nil {
		return nil, err
	}
	return letters, nil
}

// ListQueuedRandomLetters returns distribution letters with no recipient yet.
func (s *DynamoStore) ListQueuedRandomLetters(ctx context.Context) ([]models.Letter, error) {
	filter := "#kind = :delivery AND #status = :sent AND attribute_not_exists(recipientId)"
	expressionValues := map[string]types.AttributeValue{
		":delivery": &types.AttributeValueMemberS{Value: string(models.LetterKindDelivery)},
		":sent":     &types.AttributeValueMemberS{Value: string(models.LetterStatusSent)},
	}
	expressionNames := map[string]string{"#kind": "kind", "#status": "status"}

	var letters []models.Letter
	if err := s.ds.ScanWithFilter(ctx, s.table(models.LettersTable), filter, expressionValues, expressionNames, &letters); err != nil {
		return nil, err
	}
	return letters, nil
}

// DeliverLetter flips sent -> delivered, guarded so a concurrent sweep run
// cannot deliver twice.
func (s *DynamoStore) DeliverLetter(ctx context.Context, letterID, deliveredAt string) (bool, error) {
	update := "SET #status = :delivered, deliveredAt = :at"
	condition := "#status = :sent"
	expressionValues := map[string]types.AttributeValue{
		":delivered": &types.AttributeValueMemberS{Value: string(models.LetterStatusDelivered)},
		":sent":      &types.AttributeValueMemberS{Value: string(models.LetterStatusSent)},
		":at":        &types.AttributeValueMemberS{Value: deliveredAt},
	}
	expressionNames := map[string]string{"#status": "status"}

	return s.ds.UpdateItemWithCondition(ctx, s.table(models.LettersTable), update, condition, letterKey(letterID), expressionValues, expressionNames)
}

// MarkLetterRead flips delivered -> read.
func (s *DynamoStore) MarkLetterRead(ctx context.Context, letterID, readAt string) (bool, error) {
	update := "SET #status = :read, readAt = :at"
	condition := "#status = :delivered"
	expressionValues := map[string]types.AttributeValue{
		":read":      &types.AttributeValueMemberS{Value: string(models.LetterStatusRead)},
		":delivered": &types.AttributeValueMemberS{Value: string(models.LetterStatusDelivered)},
		":at":        &types.AttributeValueMemberS{Value: readAt},
	}
	expressionNames := map[string]string{"#status": "status"}

	return s.ds.UpdateItemWithCondition(ctx, s.table(models.LettersTable), update, condition, letterKey(letterID), expressionValues, expressionNames)
}

// ArchiveLetter moves a letter to archived regardless of current status.
// Callers enforce which statuses may be archived.
func (s *DynamoStore) ArchiveLetter(ctx context.Context, letterID, archivedAt string) error {
	update := "SET #status = :archived, archivedAt = :at"
	expressionValues := map[string]types.AttributeValue{
		":archived": &types.AttributeValueMemberS{Value: string(models.LetterStatusArchived)},
		":at":       &types.AttributeValueMemberS{Value: archivedAt},
	}
	expressionNames := map[string]string{"#status": "status"}

	_, err := s.ds.UpdateItem(ctx, s.table(models.LettersTable), update, letterKey(letterID), expressionValues, expressionNames)
	return err
}

// SetFirstLetterResponse records accept/reject on a first letter, guarded
// on the decision still being pending.
func (s *DynamoStore) SetFirstLetterResponse(ctx context.Context, letterID string, response models.FirstLetterResponse, status models.LetterStatus, at string) (bool, error) {
	update := "SET friendRequestResponse = :response, #status = :newStatus"
	switch status {
	case models.LetterStatusRead:
		update += ", readAt = :at"
	case models.LetterStatusArchived:
		update += ", archivedAt = :at"
	}
	condition := "friendRequestResponse = :pending"
	expressionValues := map[string]types.AttributeValue{
		":response":  &types.AttributeValueMemberS{Value: string(response)},
		":newStatus": &types.AttributeValueMemberS{Value: string(status)},
		":pending":   &types.AttributeValueMemberS{Value: string(models.FirstLetterResponsePending)},
		":at":        &types.AttributeValueMemberS{Value: at},
	}
	expressionNames := map[string]string{"#status": "status"}

	return s.ds.UpdateItemWithCondition(ctx, s.table(models.LettersTable), update, condition, letterKey(letterID), expressionValues, expressionNames)
}

// AssignRandomRecipient attaches a recipient to a queued distribution
// letter and delivers it immediately.
func (s *DynamoStore) AssignRandomRecipient(ctx context.Context, letterID, recipientID, deliveredAt string) (bool, error) {
	update := "SET recipientId = :recipient, #status = :delivered, deliveredAt = :at, isFirstLetter = :isFirst, friendRequestResponse = :pending"
	condition := "attribute_not_exists(recipientId)"
	expressionValues := map[string]types.AttributeValue{
		":recipient": &types.AttributeValueMemberS{Value: recipientID},
		":delivered": &types.AttributeValueMemberS{Value: string(models.LetterStatusDelivered)},
		":at":        &types.AttributeValueMemberS{Value: deliveredAt},
		":isFirst":   &types.AttributeValueMemberBOOL{Value: true},
		":pending":   &types.AttributeValueMemberS{Value: string(models.FirstLetterResponsePending)},
	}
	expressionNames := map[string]string{"#status": "status"}

	return s.ds.UpdateItemWithCondition(ctx, s.table(models.LettersTable), update, condition, letterKey(letterID), expressionValues, expressionNames)
}

var _ LetterStore = (*DynamoStore)(nil)
