package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, "alice#bob", PairKey("alice", "bob"))
	assert.Equal(t, "alice#bob", PairKey("bob", "alice"))
	assert.Equal(t, PairKey("zed", "amy"), PairKey("amy", "zed"))
}

func TestPairUsers(t *testing.T) {
	a, b := PairUsers("alice#bob")
	assert.Equal(t, "alice", a)
	assert.Equal(t, "bob", b)
}

func TestInvolvesAndOtherUser(t *testing.T) {
	f := Friendship{User1ID: "alice", User2ID: "bob"}
	assert.True(t, f.Involves("alice"))
	assert.True(t, f.Involves("bob"))
	assert.False(t, f.Involves("eve"))
	assert.Equal(t, "bob", f.OtherUser("alice"))
	assert.Equal(t, "alice", f.OtherUser("bob"))
}

func TestDraftMatches(t *testing.T) {
	draft := Draft{AuthorID: "alice", RecipientID: "bob"}
	assert.True(t, draft.Matches("alice", "bob", ""))
	assert.False(t, draft.Matches("eve", "bob", ""))
	assert.False(t, draft.Matches("alice", "carol", ""))

	// A reply draft matches on the letter being replied to.
	replyDraft := Draft{AuthorID: "bob", ReplyTo: "letter-1"}
	assert.True(t, replyDraft.Matches("bob", "alice", "letter-1"))
	assert.False(t, replyDraft.Matches("bob", "alice", "letter-2"))
}
