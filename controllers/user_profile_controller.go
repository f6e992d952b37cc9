package controllers

import (
	"net/http"

	"penpal_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController exposes read-only directory lookups.
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController initializes the controller
func NewUserProfileController(service *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: service}
}

// HandleGetProfile - a user's directory entry
func (c *UserProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := c.UserProfileService.GetProfile(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
