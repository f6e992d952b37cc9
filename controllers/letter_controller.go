package controllers

import (
	"net/http"
	"time"

	"penpal_server/services"

	"github.com/gorilla/mux"
)

// LetterController exposes the letter lifecycle over HTTP.
type LetterController struct {
	LetterService *services.LetterService
}

// NewLetterController initializes the controller
func NewLetterController(service *services.LetterService) *LetterController {
	return &LetterController{LetterService: service}
}

// HandleSendLetter - create a new letter in transit
func (c *LetterController) HandleSendLetter(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SenderID         string `json:"senderId"`
		RecipientID      string `json:"recipientId"`
		Subject          string `json:"subject"`
		Content          string `json:"content"`
		AttachmentKey    string `json:"attachmentKey,omitempty"`
		DelayOverrideMin int    `json:"delayOverrideMinutes,omitempty"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	letter, err := c.LetterService.SendLetter(
		r.Context(),
		request.SenderID,
		request.RecipientID,
		request.Subject,
		request.Content,
		request.AttachmentKey,
		time.Duration(request.DelayOverrideMin)*time.Minute,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, letter)
}

// HandleReplyToLetter - reply to a read letter, delivered immediately
func (c *LetterController) HandleReplyToLetter(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SenderID string `json:"senderId"`
		Subject  string `json:"subject"`
		Content  string `json:"content"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	reply, err := c.LetterService.ReplyToLetter(r.Context(), request.SenderID, mux.Vars(r)["letterId"], request.Subject, request.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reply)
}

// HandleMarkAsRead - recipient opens a delivered letter
func (c *LetterController) HandleMarkAsRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.LetterService.MarkAsRead(r.Context(), mux.Vars(r)["letterId"], request.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// HandleAcceptFirstLetter - accept a first letter, establishing a friendship
func (c *LetterController) HandleAcceptFirstLetter(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	friendship, err := c.LetterService.AcceptFirstLetter(r.Context(), mux.Vars(r)["letterId"], request.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friendship)
}

// HandleRejectFirstLetter - reject a first letter, archiving it
func (c *LetterController) HandleRejectFirstLetter(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.LetterService.RejectFirstLetter(r.Context(), mux.Vars(r)["letterId"], request.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// HandleArchiveLetter - put away a read letter
func (c *LetterController) HandleArchiveLetter(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.LetterService.ArchiveLetter(r.Context(), mux.Vars(r)["letterId"], request.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}

// HandleQueueRandomLetter - queue a letter for the next distribution cycle
func (c *LetterController) HandleQueueRandomLetter(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SenderID string `json:"senderId"`
		Subject  string `json:"subject"`
		Content  string `json:"content"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	letter, err := c.LetterService.QueueRandomLetter(r.Context(), request.SenderID, request.Subject, request.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, letter)
}

// HandleGetInbox - delivered and read letters for a user
func (c *LetterController) HandleGetInbox(w http.ResponseWriter, r *http.Request) {
	letters, err := c.LetterService.GetInbox(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, letters)
}

// HandleGetSent - all letters a user has written
func (c *LetterController) HandleGetSent(w http.ResponseWriter, r *http.Request) {
	letters, err := c.LetterService.GetSent(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, letters)
}

// HandleTransitStatus - how long until a letter arrives
func (c *LetterController) HandleTransitStatus(w http.ResponseWriter, r *http.Request) {
	transit, remaining, err := c.LetterService.TransitStatus(r.Context(), mux.Vars(r)["letterId"], r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transit":          transit,
		"remainingMinutes": int(remaining.Minutes()),
	})
}
