package services

import (
	"context"
	"testing"
	"time"

	"penpal_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDeliverySweepOnlyDue(t *testing.T) {
	env := newTestEnv()
	env.addUser("alice", "Japan")
	env.addUser("bob", "Japan")
	env.addUser("carol", "France")
	ctx := context.Background()

	// Same country: due in 30 minutes. Cross region: due in a day.
	quick, err := env.letters.SendLetter(ctx, "alice", "bob", "", "Hello neighbor", "", 0)
	require.NoError(t, err)
	slow, err := env.letters.SendLetter(ctx, "alice", "carol", "", "Hello abroad", "", 0)
	require.NoError(t, err)

	env.clock.Advance(DelaySameCountry)
	delivered, err := env.scheduler.RunDeliverySweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	stored, err := env.store.GetLetter(ctx, quick.LetterID)
	require.NoError(t, err)
	assert.Equal(t, models.LetterStatusDelivered, stored.Status)
	assert.NotEmpty(t, stored.DeliveredAt)

	stored, err = env.store.GetLetter(ctx, slow.LetterID)
	require.NoError(t, err)
	assert.Equal(t, models.LetterStatusSent, stored.Status)

	// Running again immediately finds nothing left to flip.
	delivered, err = env.scheduler.RunDeliverySweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, delivered)

	env.clock.Advance(DelayLongHaul)
	delivered, err = env.scheduler.RunDeliverySweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
}

func TestSweepStampsDeliveryOnFriendship(t *testing.T) {
	env := newTestEnv()
	env.addUser("alice", "Japan")
	env.addUser("bob", "France")
	ctx := context.Background()

	_, err := env.friendships.UpdateActivity(ctx, "alice", "bob", models.ActivityTypeReceived, "earlier-letter")
	require.NoError(t, err)

	letter, err := env.letters.SendLetter(ctx, "alice", "bob", "", "Hello friend", "", 0)
	require.NoError(t, err)

	before, err := env.store.GetFriendship(ctx, models.PairKey("alice", "bob"))
	require.NoError(t, err)

	env.clock.Advance(DelayLongHaul)
	_, err = env.scheduler.RunDeliverySweep(ctx)
	require.NoError(t, err)

	after, err := env.store.GetFriendship(ctx, models.PairKey("alice", "bob"))
	require.NoError(t, err)
	assert.Equal(t, models.ActivityTypeDelivered, after.LastActivityType)
	assert.Equal(t, letter.LetterID, after.LastLetterID)
	assert.Equal(t, before.LetterCount, after.LetterCount, "delivery must not count the letter twice")
}

func TestRunDistributionCycle(t *testing.T) {
	env := newTestEnv()
	env.addUser("alice", "Japan")
	env.addUser("bob", "France")
	env.addUser("carol", "Spain")
	ctx := context.Background()

	// alice is already connected to carol, so bob is the only candidate.
	_, err := env.friendships.EstablishFriendship(ctx, "alice", "carol", models.ActivityTypeReceived, "earlier-letter")
	require.NoError(t, err)

	letter, err := env.letters.QueueRandomLetter(ctx, "alice", "To whoever", "Hello stranger")
	require.NoError(t, err)

	assigned, err := env.scheduler.RunDistributionCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, assigned)

	stored, err := env.store.GetLetter(ctx, letter.LetterID)
	require.NoError(t, err)
	assert.Equal(t, "bob", stored.RecipientID)
	assert.Equal(t, models.LetterStatusDelivered, stored.Status)
	assert.True(t, stored.IsFirstLetter)
	assert.Equal(t, models.FirstLetterResponsePending, stored.FriendRequestResponse)

	inbox, err := env.letters.GetInbox(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, inbox, 1)

	// Nothing queued: the next cycle is a no-op.
	assigned, err = env.scheduler.RunDistributionCycle(ctx)
	require.NoError(t, err)
	assert.Zero(t, assigned)
}

func TestRunDistributionCycleNoCandidates(t *testing.T) {
	env := newTestEnv()
	env.addUser("alice", "Japan")
	ctx := context.Background()

	letter, err := env.letters.QueueRandomLetter(ctx, "alice", "", "Anyone out there?")
	require.NoError(t, err)

	assigned, err := env.scheduler.RunDistributionCycle(ctx)
	require.NoError(t, err)
	assert.Zero(t, assigned)

	// The letter stays queued for a later cycle.
	queued, err := env.store.ListQueuedRandomLetters(ctx)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, letter.LetterID, queued[0].LetterID)
}

func TestSchedulerStartStop(t *testing.T) {
	env := newTestEnv()
	env.scheduler.SweepInterval = time.Hour
	env.scheduler.CycleInterval = 24 * time.Hour

	env.scheduler.Start()
	// A second Start is a no-op.
	env.scheduler.Start()

	assert.Equal(t, env.clock.Now().Add(24*time.Hour), env.scheduler.NextCycleTime())
	assert.Equal(t, 24*time.Hour, env.scheduler.TimeUntilNextCycle())

	env.clock.Advance(25 * time.Hour)
	assert.Zero(t, env.scheduler.TimeUntilNextCycle(), "countdown is clamped at zero")

	env.scheduler.Stop()
	// A second Stop is a no-op.
	env.scheduler.Stop()
}
