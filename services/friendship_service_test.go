package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"penpal_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateActivityCreatesThenIncrements(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	first, err := env.friendships.UpdateActivity(ctx, "bob", "alice", models.ActivityTypeSent, "letter-1")
	require.NoError(t, err)
	assert.Equal(t, "alice#bob", first.PairKey)
	assert.Equal(t, "bob", first.InitiatedBy)
	assert.Equal(t, 1, first.LetterCount)

	// The reverse user order lands on the same record.
	second, err := env.friendships.UpdateActivity(ctx, "alice", "bob", models.ActivityTypeReplied, "letter-2")
	require.NoError(t, err)
	assert.Equal(t, first.PairKey, second.PairKey)
	assert.Equal(t, 2, second.LetterCount)
	assert.Equal(t, models.ActivityTypeReplied, second.LastActivityType)
	assert.Equal(t, "letter-2", second.LastLetterID)
	assert.Equal(t, "bob", second.InitiatedBy, "creation metadata survives later activity")
}

func TestUpdateActivityConcurrentNoLostIncrements(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	const writers = 32

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := env.friendships.UpdateActivity(ctx, "alice", "bob", models.ActivityTypeSent, fmt.Sprintf("letter-%d", n))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	friendship, err := env.store.GetFriendship(ctx, models.PairKey("alice", "bob"))
	require.NoError(t, err)
	assert.Equal(t, writers, friendship.LetterCount)
}

func TestOneFriendshipPerPair(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	users := []string{"alice", "bob", "carol", "dave"}

	// Random interleaving of activity across all pairs, both orders.
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		a := users[rng.Intn(len(users))]
		b := users[rng.Intn(len(users))]
		if a == b {
			continue
		}
		_, err := env.friendships.UpdateActivity(ctx, a, b, models.ActivityTypeSent, fmt.Sprintf("letter-%d", i))
		require.NoError(t, err)
	}

	seen := make(map[string]bool)
	for _, user := range users {
		list, err := env.friendships.ListForUser(ctx, user)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(list), len(users)-1)
		for _, f := range list {
			seen[f.PairKey] = true
		}
	}
	// Four users can form at most six pairs.
	assert.LessOrEqual(t, len(seen), 6)
}

func TestEstablishFriendshipConflicts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.friendships.EstablishFriendship(ctx, "alice", "bob", models.ActivityTypeReceived, "letter-1")
	require.NoError(t, err)

	_, err = env.friendships.EstablishFriendship(ctx, "bob", "alice", models.ActivityTypeReceived, "letter-2")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestAreFriends(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	areFriends, err := env.friendships.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, areFriends)

	_, err = env.friendships.EstablishFriendship(ctx, "alice", "bob", models.ActivityTypeReceived, "letter-1")
	require.NoError(t, err)

	areFriends, err = env.friendships.AreFriends(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, areFriends)
}

func TestTouchDeliveredDoesNotCount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.friendships.UpdateActivity(ctx, "alice", "bob", models.ActivityTypeSent, "letter-1")
	require.NoError(t, err)

	require.NoError(t, env.friendships.TouchDelivered(ctx, "alice", "bob", "letter-1"))

	friendship, err := env.store.GetFriendship(ctx, models.PairKey("alice", "bob"))
	require.NoError(t, err)
	assert.Equal(t, 1, friendship.LetterCount)
	assert.Equal(t, models.ActivityTypeDelivered, friendship.LastActivityType)
}

func TestArchiveFriendship(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.friendships.EstablishFriendship(ctx, "alice", "bob", models.ActivityTypeReceived, "letter-1")
	require.NoError(t, err)

	err = env.friendships.Archive(ctx, created.PairKey, "eve")
	assert.ErrorIs(t, err, models.ErrForbidden)

	require.NoError(t, env.friendships.Archive(ctx, created.PairKey, "alice"))

	stored, err := env.store.GetFriendship(ctx, created.PairKey)
	require.NoError(t, err)
	assert.True(t, stored.IsArchived)
	assert.Equal(t, 1, stored.LetterCount, "archiving preserves history")
}
