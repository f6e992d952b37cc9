package services

import (
	"sync"
	"time"

	"penpal_server/models"
	"penpal_server/store"
)

// fakeClock is a manually advanced Clock so tests can cross delivery
// deadlines without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock {
	return &fakeClock{now: at}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// testEnv wires every service onto a shared in-memory store and fake clock.
type testEnv struct {
	store       *store.MemoryStore
	clock       *fakeClock
	letters     *LetterService
	requests    *FriendRequestService
	friendships *FriendshipService
	drafts      *DraftService
	scheduler   *SchedulerService
}

func newTestEnv() *testEnv {
	mem := store.NewMemoryStore()
	bundle := mem.Bundle()
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	friendships := &FriendshipService{Friendships: bundle.Friendships, Clock: clock}
	drafts := &DraftService{Drafts: bundle.Drafts, Clock: clock}
	letters := &LetterService{
		Letters:     bundle.Letters,
		Transits:    bundle.Transits,
		Users:       bundle.Users,
		Friendships: friendships,
		Drafts:      drafts,
		Clock:       clock,
	}
	requests := &FriendRequestService{
		Requests:    bundle.Requests,
		Letters:     bundle.Letters,
		Transits:    bundle.Transits,
		Users:       bundle.Users,
		Friendships: friendships,
		Clock:       clock,
	}
	scheduler := &SchedulerService{
		Letters:     bundle.Letters,
		Requests:    bundle.Requests,
		Transits:    bundle.Transits,
		Friendships: friendships,
		Users:       bundle.Users,
		Clock:       clock,
	}

	return &testEnv{
		store:       mem,
		clock:       clock,
		letters:     letters,
		requests:    requests,
		friendships: friendships,
		drafts:      drafts,
		scheduler:   scheduler,
	}
}

func (e *testEnv) addUser(userID, country string) {
	e.store.AddUser(models.UserProfile{
		UserID:          userID,
		DisplayName:     userID,
		Country:         country,
		ProfileComplete: true,
		IsActive:        true,
	})
}
