package services

import (
	"context"
	"strings"
	"testing"

	"penpal_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const intro = "Hi, I collect stamps from all over the world and would love a pen pal."

func TestSendFriendRequestValidation(t *testing.T) {
	env := newTestEnv()
	env.addUser("alice", "Japan")
	env.addUser("bob", "France")
	ctx := context.Background()

	_, _, err := env.requests.SendFriendRequest(ctx, "alice", "alice", "", intro)
	assert.ErrorIs(t, err, models.ErrValidationFailed)

	_, _, err = env.requests.SendFriendRequest(ctx, "alice", "bob", "", "too short")
	assert.ErrorIs(t, err, models.ErrValidationFailed)

	_, _, err = env.requests.SendFriendRequest(ctx, "alice", "bob", "", strings.Repeat("x", MinRequestContentLength))
	assert.NoError(t, err)
}

func TestSendFriendRequestRejectsExistingConnections(t *testing.T) {
	env := newTestEnv()
	env.addUser("alice", "Japan")
	env.addUser("bob", "France")
	ctx := context.Background()

	_, _, err := env.requests.SendFriendRequest(ctx, "alice", "bob", "Hello", intro)
	require.NoError(t, err)

	// Duplicate, and the reverse direction, both collide with the pending pair.
	_, _, err = env.requests.SendFriendRequest(ctx, "alice", "bob", "", intro)
	assert.ErrorIs(t, err, models.ErrConflict)
	_, _, err = env.requests.SendFriendRequest(ctx, "bob", "alice", "", intro)
	assert.ErrorIs(t, err, models.ErrConflict)

	env.addUser("carol", "Spain")
	_, err = env.friendships.UpdateActivity(ctx, "alice", "carol", models.ActivityTypeReceived, "some-letter")
	require.NoError(t, err)
	_, _, err = env.requests.SendFriendRequest(ctx, "alice", "carol", "", intro)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestFriendRequestDeliveryAndAccept(t *testing.T) {
	env := newTestEnv()
	env.addUser("alice", "Japan")
	env.addUser("bob", "France")
	ctx := context.Background()

	request, transit, err := env.requests.SendFriendRequest(ctx, "alice", "bob", "Hello", intro)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestStatusPending, request.Status)
	assert.False(t, request.IsDelivered)
	assert.Equal(t, EstimateLongHaul, transit.DelayText)

	// Not delivered yet: invisible to the recipient and not acceptable.
	pending, err := env.requests.GetPendingRequests(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, pending)
	_, _, err = env.requests.AcceptFriendRequest(ctx, request.RequestID, "bob")
	assert.ErrorIs(t, err, models.ErrInvalidState)

	env.clock.Advance(DelayLongHaul)
	delivered, err := env.scheduler.RunDeliverySweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered, "the introduction letter; the request rides along")

	pending, err = env.requests.GetPendingRequests(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].IsDelivered)

	_, _, err = env.requests.AcceptFriendRequest(ctx, request.RequestID, "alice")
	assert.ErrorIs(t, err, models.ErrForbidden)

	friendship, letter, err := env.requests.AcceptFriendRequest(ctx, request.RequestID, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.PairKey("alice", "bob"), friendship.PairKey)
	assert.Equal(t, 1, friendship.LetterCount)
	assert.Equal(t, models.LetterStatusRead, letter.Status)

	// A resolved request stays resolved.
	_, _, err = env.requests.AcceptFriendRequest(ctx, request.RequestID, "bob")
	assert.ErrorIs(t, err, models.ErrInvalidState)
	err = env.requests.RejectFriendRequest(ctx, request.RequestID, "bob")
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestFriendRequestReject(t *testing.T) {
	env := newTestEnv()
	env.addUser("alice", "Japan")
	env.addUser("bob", "France")
	ctx := context.Background()

	request, _, err := env.requests.SendFriendRequest(ctx, "alice", "bob", "Hello", intro)
	require.NoError(t, err)

	env.clock.Advance(DelayLongHaul)
	_, err = env.scheduler.RunDeliverySweep(ctx)
	require.NoError(t, err)

	err = env.requests.RejectFriendRequest(ctx, request.RequestID, "alice")
	assert.ErrorIs(t, err, models.ErrForbidden)

	require.NoError(t, env.requests.RejectFriendRequest(ctx, request.RequestID, "bob"))

	stored, err := env.store.GetRequest(ctx, request.RequestID)
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestStatusRejected, stored.Status)

	letter, err := env.store.GetLetter(ctx, request.LetterID)
	require.NoError(t, err)
	assert.Equal(t, models.LetterStatusArchived, letter.Status)

	// No friendship came out of the rejection.
	areFriends, err := env.friendships.AreFriends(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, areFriends)

	// The pair is free again: a fresh request is allowed.
	_, _, err = env.requests.SendFriendRequest(ctx, "bob", "alice", "", intro)
	assert.NoError(t, err)
}

func TestGetSentRequests(t *testing.T) {
	env := newTestEnv()
	env.addUser("alice", "Japan")
	env.addUser("bob", "France")
	env.addUser("carol", "Spain")
	ctx := context.Background()

	_, _, err := env.requests.SendFriendRequest(ctx, "alice", "bob", "", intro)
	require.NoError(t, err)
	_, _, err = env.requests.SendFriendRequest(ctx, "alice", "carol", "", intro)
	require.NoError(t, err)

	sent, err := env.requests.GetSentRequests(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, sent, 2)
}
