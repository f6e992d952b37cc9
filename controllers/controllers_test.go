package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"penpal_server/models"
	"penpal_server/services"
	"penpal_server/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("no such letter: %w", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("not yours: %w", models.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("bad input: %w", models.ErrValidationFailed), http.StatusBadRequest},
		{fmt.Errorf("wrong status: %w", models.ErrInvalidState), http.StatusConflict},
		{fmt.Errorf("already exists: %w", models.ErrConflict), http.StatusConflict},
		{fmt.Errorf("something unexpected"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, "%v", tc.err)
	}

	// Internal errors never leak their message to the client.
	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("dynamodb endpoint exploded"))
	assert.NotContains(t, rec.Body.String(), "dynamodb")
}

func newLetterController() (*LetterController, *store.MemoryStore) {
	mem := store.NewMemoryStore()
	bundle := mem.Bundle()
	clock := services.RealClock{}

	friendships := &services.FriendshipService{Friendships: bundle.Friendships, Clock: clock}
	drafts := &services.DraftService{Drafts: bundle.Drafts, Clock: clock}
	letters := &services.LetterService{
		Letters:     bundle.Letters,
		Transits:    bundle.Transits,
		Users:       bundle.Users,
		Friendships: friendships,
		Drafts:      drafts,
		Clock:       clock,
	}
	return NewLetterController(letters), mem
}

func TestHandleSendLetter(t *testing.T) {
	controller, mem := newLetterController()
	mem.AddUser(models.UserProfile{UserID: "alice", Country: "Japan", ProfileComplete: true, IsActive: true})
	mem.AddUser(models.UserProfile{UserID: "bob", Country: "France", ProfileComplete: true, IsActive: true})

	body := `{"senderId":"alice","recipientId":"bob","subject":"Hi","content":"Hello Bob"}`
	req := httptest.NewRequest(http.MethodPost, "/api/letters", strings.NewReader(body))
	rec := httptest.NewRecorder()
	controller.HandleSendLetter(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"sent"`)
	assert.Contains(t, rec.Body.String(), `"isFirstLetter":true`)
}

func TestHandleSendLetterErrors(t *testing.T) {
	controller, mem := newLetterController()
	mem.AddUser(models.UserProfile{UserID: "alice", Country: "Japan", ProfileComplete: true, IsActive: true})

	req := httptest.NewRequest(http.MethodPost, "/api/letters", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	controller.HandleSendLetter(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := `{"senderId":"alice","recipientId":"alice","content":"Hello me"}`
	req = httptest.NewRequest(http.MethodPost, "/api/letters", strings.NewReader(body))
	rec = httptest.NewRecorder()
	controller.HandleSendLetter(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = `{"senderId":"alice","recipientId":"nobody","content":"Hello void"}`
	req = httptest.NewRequest(http.MethodPost, "/api/letters", strings.NewReader(body))
	rec = httptest.NewRecorder()
	controller.HandleSendLetter(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetInbox(t *testing.T) {
	controller, mem := newLetterController()
	mem.AddUser(models.UserProfile{UserID: "bob", Country: "France", ProfileComplete: true, IsActive: true})

	req := httptest.NewRequest(http.MethodGet, "/api/letters/inbox?userId=bob", nil)
	rec := httptest.NewRecorder()
	controller.HandleGetInbox(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
