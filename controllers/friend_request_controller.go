package controllers

import (
	"net/http"

	"penpal_server/services"

	"github.com/gorilla/mux"
)

// FriendRequestController exposes the explicit introduction flow over HTTP.
type FriendRequestController struct {
	FriendRequestService *services.FriendRequestService
}

// NewFriendRequestController initializes the controller
func NewFriendRequestController(service *services.FriendRequestService) *FriendRequestController {
	return &FriendRequestController{FriendRequestService: service}
}

// HandleSendFriendRequest - send a friend request with its introduction letter
func (c *FriendRequestController) HandleSendFriendRequest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SenderID    string `json:"senderId"`
		RecipientID string `json:"recipientId"`
		Subject     string `json:"subject"`
		Content     string `json:"content"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	friendRequest, transit, err := c.FriendRequestService.SendFriendRequest(r.Context(), request.SenderID, request.RecipientID, request.Subject, request.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"request": friendRequest,
		"transit": transit,
	})
}

// HandleAcceptFriendRequest - resolve a pending request into a friendship
func (c *FriendRequestController) HandleAcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	friendship, letter, err := c.FriendRequestService.AcceptFriendRequest(r.Context(), mux.Vars(r)["requestId"], request.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"friendship": friendship,
		"letter":     letter,
	})
}

// HandleRejectFriendRequest - reject a pending request
func (c *FriendRequestController) HandleRejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.FriendRequestService.RejectFriendRequest(r.Context(), mux.Vars(r)["requestId"], request.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// HandleGetPendingRequests - delivered pending requests for a user
func (c *FriendRequestController) HandleGetPendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := c.FriendRequestService.GetPendingRequests(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// HandleGetSentRequests - requests a user has sent
func (c *FriendRequestController) HandleGetSentRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := c.FriendRequestService.GetSentRequests(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}
