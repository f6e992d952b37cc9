package services

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"penpal_server/models"
	"penpal_server/store"
)

// Default periods for the two background loops.
const (
	DefaultSweepInterval = 15 * time.Second
	DefaultCycleInterval = 24 * time.Hour
)

// SchedulerService runs the two periodic jobs: the frequent delivery sweep
// that flips time-gated letters and requests to delivered, and the
// fixed-period distribution cycle that hands queued random-match letters
// to their recipients. Constructed once at process start; Start and Stop
// bracket its lifecycle. Every transition it applies is conditional and
// monotonic, so overlapping runs are harmless.
type SchedulerService struct {
	Letters     store.LetterStore
	Requests    store.FriendRequestStore
	Transits    store.InTransitLetterStore
	Friendships *FriendshipService
	Users       store.UserDirectory
	Clock       Clock

	SweepInterval time.Duration
	CycleInterval time.Duration

	mu        sync.Mutex
	nextCycle time.Time
	stop      chan struct{}
	wg        sync.WaitGroup
}

// Start launches the sweep and distribution loops.
func (s *SchedulerService) Start() {
	if s.SweepInterval <= 0 {
		s.SweepInterval = DefaultSweepInterval
	}
	if s.CycleInterval <= 0 {
		s.CycleInterval = DefaultCycleInterval
	}

	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	s.stop = make(chan struct{})
	s.nextCycle = s.Clock.Now().Add(s.CycleInterval)
	stop := s.stop
	s.mu.Unlock()

	s.wg.Add(2)
	go s.runLoop(stop, s.SweepInterval, func(ctx context.Context) {
		if _, err := s.RunDeliverySweep(ctx); err != nil {
			// Self-healing: eligible rows are re-scanned next tick.
			log.Printf("⚠️ Delivery sweep failed, retrying next tick: %v", err)
		}
	})
	go s.runLoop(stop, s.CycleInterval, func(ctx context.Context) {
		s.mu.Lock()
		s.nextCycle = s.Clock.Now().Add(s.CycleInterval)
		s.mu.Unlock()
		if _, err := s.RunDistributionCycle(ctx); err != nil {
			log.Printf("⚠️ Distribution cycle failed: %v", err)
		}
	})

	log.Printf("🕰️ Scheduler started (sweep every %s, distribution every %s)", s.SweepInterval, s.CycleInterval)
}

// Stop halts both loops and waits for in-flight runs to finish.
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	if s.stop == nil {
		s.mu.Unlock()
		return
	}
	close(s.stop)
	s.stop = nil
	s.mu.Unlock()
	s.wg.Wait()
	log.Println("🕰️ Scheduler stopped")
}

func (s *SchedulerService) runLoop(stop <-chan struct{}, interval time.Duration, tick func(context.Context)) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			tick(context.Background())
		}
	}
}

// RunDeliverySweep advances every letter and friend request whose
// scheduled delivery time has elapsed. Idempotent: a concurrent or
// repeated run finds nothing left to flip.
func (s *SchedulerService) RunDeliverySweep(ctx context.Context) (int, error) {
	now := s.Clock.Now()
	nowStr := Timestamp(now)
	delivered := 0

	letters, err := s.Letters.ListDueLetters(ctx, nowStr)
	if err != nil {
		return 0, err
	}
	for _, letter := range letters {
		flipped, err := s.Letters.DeliverLetter(ctx, letter.LetterID, nowStr)
		if err != nil {
			log.Printf("⚠️ Failed to deliver letter %s: %v", letter.LetterID, err)
			continue
		}
		if !flipped {
			continue // another sweep got there first
		}
		delivered++

		if err := s.Transits.DeleteTransit(ctx, letter.LetterID); err != nil {
			log.Printf("⚠️ Failed to remove transit snapshot for %s: %v", letter.LetterID, err)
		}
		if !letter.IsFirstLetter && letter.Kind != models.LetterKindFriend {
			if err := s.Friendships.TouchDelivered(ctx, letter.SenderID, letter.RecipientID, letter.LetterID); err != nil {
				log.Printf("⚠️ Failed to stamp delivery on friendship: %v", err)
			}
		}
	}

	requests, err := s.Requests.ListUndelivered(ctx)
	if err != nil {
		return delivered, err
	}
	for _, request := range requests {
		transit, err := s.Transits.GetTransitByLetter(ctx, request.LetterID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				// Snapshot already consumed; the letter pass delivered it.
				if _, err := s.Requests.MarkRequestDelivered(ctx, request.RequestID, nowStr); err != nil {
					log.Printf("⚠️ Failed to deliver request %s: %v", request.RequestID, err)
				}
				continue
			}
			log.Printf("⚠️ Failed to load transit snapshot for request %s: %v", request.RequestID, err)
			continue
		}
		if transit.DeliverAt > nowStr {
			continue // still in transit
		}

		flipped, err := s.Requests.MarkRequestDelivered(ctx, request.RequestID, nowStr)
		if err != nil {
			log.Printf("⚠️ Failed to deliver request %s: %v", request.RequestID, err)
			continue
		}
		if !flipped {
			continue
		}
		delivered++

		if _, err := s.Letters.DeliverLetter(ctx, request.LetterID, nowStr); err != nil {
			log.Printf("⚠️ Failed to deliver introduction letter %s: %v", request.LetterID, err)
		}
		if err := s.Transits.DeleteTransit(ctx, request.LetterID); err != nil {
			log.Printf("⚠️ Failed to remove transit snapshot for %s: %v", request.LetterID, err)
		}
	}

	if delivered > 0 {
		log.Printf("📬 Sweep delivered %d item(s)", delivered)
	}
	return delivered, nil
}

// RunDistributionCycle assigns every queued random-match letter to an
// eligible recipient and delivers it immediately. Can be invoked manually
// for operational testing without waiting for the period.
func (s *SchedulerService) RunDistributionCycle(ctx context.Context) (int, error) {
	letters, err := s.Letters.ListQueuedRandomLetters(ctx)
	if err != nil {
		return 0, err
	}
	if len(letters) == 0 {
		return 0, nil
	}

	users, err := s.Users.ListActiveUsers(ctx)
	if err != nil {
		return 0, err
	}

	nowStr := Timestamp(s.Clock.Now())
	assigned := 0
	for _, letter := range letters {
		recipient, err := s.pickRecipient(ctx, letter.SenderID, users)
		if err != nil {
			log.Printf("⚠️ No recipient for queued letter %s: %v", letter.LetterID, err)
			continue
		}

		flipped, err := s.Letters.AssignRandomRecipient(ctx, letter.LetterID, recipient, nowStr)
		if err != nil {
			log.Printf("⚠️ Failed to distribute letter %s: %v", letter.LetterID, err)
			continue
		}
		if flipped {
			assigned++
			log.Printf("🎲 Letter %s distributed to %s", letter.LetterID, recipient)
		}
	}

	log.Printf("🎲 Distribution cycle assigned %d of %d queued letter(s)", assigned, len(letters))
	return assigned, nil
}

// pickRecipient chooses a random active user the sender is not already
// connected to.
func (s *SchedulerService) pickRecipient(ctx context.Context, senderID string, users []models.UserProfile) (string, error) {
	candidates := make([]string, 0, len(users))
	for _, user := range users {
		if user.UserID == senderID {
			continue
		}
		areFriends, err := s.Friendships.AreFriends(ctx, senderID, user.UserID)
		if err != nil {
			return "", err
		}
		if !areFriends {
			candidates = append(candidates, user.UserID)
		}
	}
	if len(candidates) == 0 {
		return "", models.ErrNotFound
	}
	return candidates[rand.Intn(len(candidates))], nil
}

// NextCycleTime reports when the next distribution cycle fires.
func (s *SchedulerService) NextCycleTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextCycle
}

// TimeUntilNextCycle reports how long until the next distribution cycle.
func (s *SchedulerService) TimeUntilNextCycle() time.Duration {
	remaining := s.NextCycleTime().Sub(s.Clock.Now())
	if remaining < 0 {
		return 0
	}
	return remaining
}
