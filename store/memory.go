package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"penpal_server/models"
)

// MemoryStore is a mutex-guarded in-memory implementation of every store
// interface. It backs the test suite and local development without AWS.
// The conditional-update semantics mirror the DynamoDB implementation
// exactly: condition failure is a false return, not an error.
type MemoryStore struct {
	mu          sync.Mutex
	letters     map[string]models.Letter
	requests    map[string]models.FriendRequest
	transits    map[string]models.InTransitLetter
	friendships map[string]models.Friendship
	drafts      map[string]models.Draft
	users       map[string]models.UserProfile
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		letters:     make(map[string]models.Letter),
		requests:    make(map[string]models.FriendRequest),
		transits:    make(map[string]models.InTransitLetter),
		friendships: make(map[string]models.Friendship),
		drafts:      make(map[string]models.Draft),
		users:       make(map[string]models.UserProfile),
	}
}

// Bundle exposes the store as the per-record interfaces services consume.
func (s *MemoryStore) Bundle() Store {
	return Store{
		Letters:     s,
		Requests:    s,
		Transits:    s,
		Friendships: s,
		Drafts:      s,
		Users:       s,
	}
}

// AddUser seeds the user directory.
func (s *MemoryStore) AddUser(profile models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[profile.UserID] = profile
}

// PutLetter stores a letter.
func (s *MemoryStore) PutLetter(ctx context.Context, letter models.Letter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.letters[letter.LetterID] = letter
	return nil
}

// GetLetter retrieves a letter by ID.
func (s *MemoryStore) GetLetter(ctx context.Context, letterID string) (*models.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	letter, ok := s.letters[letterID]
	if !ok {
		return nil, fmt.Errorf("letter %s: %w", letterID, models.ErrNotFound)
	}
	return &letter, nil
}

// ListInbox returns all letters addressed to a recipient, newest first.
func (s *MemoryStore) ListInbox(ctx context.Context, recipientID string) ([]models.Letter, error) {
	return s.filterLetters(func(l models.Letter) bool { return l.RecipientID == recipientID }), nil
}

// ListSent returns all letters written by a sender, newest first.
func (s *MemoryStore) ListSent(ctx context.Context, senderID string) ([]models.Letter, error) {
	return s.filterLetters(func(l models.Letter) bool { return l.SenderID == senderID }), nil
}

// ListDueLetters returns sent letters whose scheduled delivery has elapsed.
func (s *MemoryStore) ListDueLetters(ctx context.Context, now string) ([]models.Letter, error) {
	return s.filterLetters(func(l models.Letter) bool {
		return l.IsDeliverable() && l.ScheduledDeliveryAt <= now
	}), nil
}

// ListQueuedRandomLetters returns distribution letters with no recipient.
func (s *MemoryStore) ListQueuedRandomLetters(ctx context.Context) ([]models.Letter, error) {
	return s.filterLetters(func(l models.Letter) bool {
		return l.Kind == models.LetterKindDelivery && l.Status == models.LetterStatusSent && l.RecipientID == ""
	}), nil
}

func (s *MemoryStore) filterLetters(keep func(models.Letter) bool) []models.Letter {
	s.mu.Lock()
	defer s.mu.Unlock()
	var letters []models.Letter
	for _, letter := range s.letters {
		if keep(letter) {
			letters = append(letters, letter)
		}
	}
	sort.SliceStable(letters, func(i, j int) bool {
		return letters[i].CreatedAt > letters[j].CreatedAt
	})
	return letters
}

// DeliverLetter flips sent -> delivered.
func (s *MemoryStore) DeliverLetter(ctx context.Context, letterID, deliveredAt string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	letter, ok := s.letters[letterID]
	if !ok || letter.Status != models.LetterStatusSent {
		return false, nil
	}
	letter.Status = models.LetterStatusDelivered
	letter.DeliveredAt = deliveredAt
	s.letters[letterID] = letter
	return true, nil
}

// MarkLetterRead flips delivered -> read.
func (s *MemoryStore) MarkLetterRead(ctx context.Context, letterID, readAt string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	letter, ok := s.letters[letterID]
	if !ok || letter.Status != models.LetterStatusDelivered {
		return false, nil
	}
	letter.Status = models.LetterStatusRead
	letter.ReadAt = readAt
	s.letters[letterID] = letter
	return true, nil
}

// ArchiveLetter moves a letter to archived.
func (s *MemoryStore) ArchiveLetter(ctx context.Context, letterID, archivedAt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	letter, ok := s.letters[letterID]
	if !ok {
		return fmt.Errorf("letter %s: %w", letterID, models.ErrNotFound)
	}
	letter.Status = models.LetterStatusArchived
	letter.ArchivedAt = archivedAt
	s.letters[letterID] = letter
	return nil
}

// SetFirstLetterResponse records accept/reject on a first letter.
func (s *MemoryStore) SetFirstLetterResponse(ctx context.Context, letterID string, response models.FirstLetterResponse, status models.LetterStatus, at string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	letter, ok := s.letters[letterID]
	if !ok || letter.FriendRequestResponse != models.FirstLetterResponsePending {
		return false, nil
	}
	letter.FriendRequestResponse = response
	letter.Status = status
	switch status {
	case models.LetterStatusRead:
		letter.ReadAt = at
	case models.LetterStatusArchived:
		letter.ArchivedAt = at
	}
	s.letters[letterID] = letter
	return true, nil
}

// AssignRandomRecipient attaches a recipient to a queued letter.
func (s *MemoryStore) AssignRandomRecipient(ctx context.Context, letterID, recipientID, deliveredAt string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	letter, ok := s.letters[letterID]
	if !ok || letter.RecipientID != "" {
		return false, nil
	}
	letter.RecipientID = recipientID
	letter.Status = models.LetterStatusDelivered
	letter.DeliveredAt = deliveredAt
	letter.IsFirstLetter = true
	letter.FriendRequestResponse = models.FirstLetterResponsePending
	s.letters[letterID] = letter
	return true, nil
}

// PutRequest stores a friend request.
func (s *MemoryStore) PutRequest(ctx context.Context, request models.FriendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[request.RequestID] = request
	return nil
}

// GetRequest retrieves a friend request by ID.
func (s *MemoryStore) GetRequest(ctx context.Context, requestID string) (*models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[requestID]
	if !ok {
		return nil, fmt.Errorf("friend request %s: %w", requestID, models.ErrNotFound)
	}
	return &request, nil
}

// ListPendingForRecipient returns delivered pending requests for a user.
func (s *MemoryStore) ListPendingForRecipient(ctx context.Context, recipientID string) ([]models.FriendRequest, error) {
	return s.filterRequests(func(r models.FriendRequest) bool {
		return r.RecipientID == recipientID && r.Status == models.FriendRequestStatusPending && r.IsDelivered
	}), nil
}

// ListSentBySender returns requests a user has sent.
func (s *MemoryStore) ListSentBySender(ctx context.Context, senderID string) ([]models.FriendRequest, error) {
	return s.filterRequests(func(r models.FriendRequest) bool { return r.SenderID == senderID }), nil
}

// FindActivePair returns a pending request for the pair in either direction.
func (s *MemoryStore) FindActivePair(ctx context.Context, pairKey string) (*models.FriendRequest, error) {
	requests := s.filterRequests(func(r models.FriendRequest) bool {
		return r.PairKey == pairKey && r.Status == models.FriendRequestStatusPending
	})
	if len(requests) == 0 {
		return nil, nil
	}
	return &requests[0], nil
}

// ListUndelivered returns pending requests awaiting the sweep.
func (s *MemoryStore) ListUndelivered(ctx context.Context) ([]models.FriendRequest, error) {
	return s.filterRequests(func(r models.FriendRequest) bool {
		return !r.IsDelivered && r.Status == models.FriendRequestStatusPending
	}), nil
}

func (s *MemoryStore) filterRequests(keep func(models.FriendRequest) bool) []models.FriendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var requests []models.FriendRequest
	for _, request := range s.requests {
		if keep(request) {
			requests = append(requests, request)
		}
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt > requests[j].CreatedAt
	})
	return requests
}

// MarkRequestDelivered flips isDelivered exactly once.
func (s *MemoryStore) MarkRequestDelivered(ctx context.Context, requestID, deliveredAt string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[requestID]
	if !ok || request.IsDelivered {
		return false, nil
	}
	request.IsDelivered = true
	request.DeliveredAt = deliveredAt
	s.requests[requestID] = request
	return true, nil
}

// SetRequestStatus resolves a pending request.
func (s *MemoryStore) SetRequestStatus(ctx context.Context, requestID string, status models.FriendRequestStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[requestID]
	if !ok || request.Status != models.FriendRequestStatusPending {
		return false, nil
	}
	request.Status = status
	s.requests[requestID] = request
	return true, nil
}

// PutTransit stores a transit snapshot.
func (s *MemoryStore) PutTransit(ctx context.Context, transit models.InTransitLetter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transits[transit.LetterID] = transit
	return nil
}

// GetTransitByLetter retrieves the transit snapshot for a letter.
func (s *MemoryStore) GetTransitByLetter(ctx context.Context, letterID string) (*models.InTransitLetter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	transit, ok := s.transits[letterID]
	if !ok {
		return nil, fmt.Errorf("transit snapshot for letter %s: %w", letterID, models.ErrNotFound)
	}
	return &transit, nil
}

// DeleteTransit removes a consumed transit snapshot.
func (s *MemoryStore) DeleteTransit(ctx context.Context, letterID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transits, letterID)
	return nil
}

// CreateFriendship inserts the single record for a user pair.
func (s *MemoryStore) CreateFriendship(ctx context.Context, friendship models.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.friendships[friendship.PairKey]; exists {
		return fmt.Errorf("friendship %s: %w", friendship.PairKey, models.ErrConflict)
	}
	s.friendships[friendship.PairKey] = friendship
	return nil
}

// GetFriendship retrieves the friendship for a pair key.
func (s *MemoryStore) GetFriendship(ctx context.Context, pairKey string) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	friendship, ok := s.friendships[pairKey]
	if !ok {
		return nil, fmt.Errorf("friendship %s: %w", pairKey, models.ErrNotFound)
	}
	return &friendship, nil
}

// ListFriendshipsForUser returns every friendship a user is part of.
func (s *MemoryStore) ListFriendshipsForUser(ctx context.Context, userID string) ([]models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var friendships []models.Friendship
	for _, friendship := range s.friendships {
		if friendship.Involves(userID) {
			friendships = append(friendships, friendship)
		}
	}
	sort.SliceStable(friendships, func(i, j int) bool {
		return friendships[i].LastActivity > friendships[j].LastActivity
	})
	return friendships, nil
}

// RecordActivity bumps letterCount and the activity summary atomically.
func (s *MemoryStore) RecordActivity(ctx context.Context, pairKey string, activityType models.ActivityType, letterID, at string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	friendship, ok := s.friendships[pairKey]
	if !ok {
		return false, nil
	}
	friendship.LetterCount++
	friendship.LastActivity = at
	friendship.LastActivityType = activityType
	friendship.LastLetterID = letterID
	s.friendships[pairKey] = friendship
	return true, nil
}

// TouchActivity stamps the summary without counting a new letter.
func (s *MemoryStore) TouchActivity(ctx context.Context, pairKey string, activityType models.ActivityType, letterID, at string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	friendship, ok := s.friendships[pairKey]
	if !ok {
		return false, nil
	}
	friendship.LastActivity = at
	friendship.LastActivityType = activityType
	friendship.LastLetterID = letterID
	s.friendships[pairKey] = friendship
	return true, nil
}

// ArchiveFriendship hides a friendship without deleting its history.
func (s *MemoryStore) ArchiveFriendship(ctx context.Context, pairKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	friendship, ok := s.friendships[pairKey]
	if !ok {
		return fmt.Errorf("friendship %s: %w", pairKey, models.ErrNotFound)
	}
	friendship.IsArchived = true
	s.friendships[pairKey] = friendship
	return nil
}

// PutDraft stores a draft.
func (s *MemoryStore) PutDraft(ctx context.Context, draft models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.DraftID] = draft
	return nil
}

// GetDraft retrieves a draft by ID.
func (s *MemoryStore) GetDraft(ctx context.Context, draftID string) (*models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[draftID]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", draftID, models.ErrNotFound)
	}
	return &draft, nil
}

// ListDraftsByAuthor returns a user's drafts, newest first.
func (s *MemoryStore) ListDraftsByAuthor(ctx context.Context, authorID string) ([]models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var drafts []models.Draft
	for _, draft := range s.drafts {
		if draft.AuthorID == authorID {
			drafts = append(drafts, draft)
		}
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].UpdatedAt > drafts[j].UpdatedAt
	})
	return drafts, nil
}

// CompleteDrafts closes every open draft that the sent letter fulfils.
func (s *MemoryStore) CompleteDrafts(ctx context.Context, authorID, recipientID, replyTo, completedAt string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	completed := 0
	for id, draft := range s.drafts {
		if draft.IsCompleted || !draft.Matches(authorID, recipientID, replyTo) {
			continue
		}
		draft.IsCompleted = true
		draft.UpdatedAt = completedAt
		s.drafts[id] = draft
		completed++
	}
	return completed, nil
}

// GetUser reads a profile from the user directory.
func (s *MemoryStore) GetUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return &profile, nil
}

// ListActiveUsers returns every active, profile-complete user.
func (s *MemoryStore) ListActiveUsers(ctx context.Context) ([]models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var profiles []models.UserProfile
	for _, profile := range s.users {
		if profile.IsActive && profile.ProfileComplete {
			profiles = append(profiles, profile)
		}
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].UserID < profiles[j].UserID
	})
	return profiles, nil
}

var (
	_ LetterStore          = (*MemoryStore)(nil)
	_ FriendRequestStore   = (*MemoryStore)(nil)
	_ InTransitLetterStore = (*MemoryStore)(nil)
	_ FriendshipStore      = (*MemoryStore)(nil)
	_ DraftStore           = (*MemoryStore)(nil)
	_ UserDirectory        = (*MemoryStore)(nil)
)
