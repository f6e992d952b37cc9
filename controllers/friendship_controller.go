package controllers

import (
	"net/http"

	"penpal_server/services"

	"github.com/gorilla/mux"
)

// FriendshipController exposes friendship listings and archival.
type FriendshipController struct {
	FriendshipService *services.FriendshipService
}

// NewFriendshipController initializes the controller
func NewFriendshipController(service *services.FriendshipService) *FriendshipController {
	return &FriendshipController{FriendshipService: service}
}

// HandleListFriendships - a user's friendships with activity summaries
func (c *FriendshipController) HandleListFriendships(w http.ResponseWriter, r *http.Request) {
	friendships, err := c.FriendshipService.ListForUser(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friendships)
}

// HandleArchiveFriendship - hide a friendship, preserving its history
func (c *FriendshipController) HandleArchiveFriendship(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.FriendshipService.Archive(r.Context(), mux.Vars(r)["pairKey"], request.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}
