package controllers

import (
	"net/http"

	"penpal_server/models"
	"penpal_server/services"
)

// DraftController exposes draft saving and listing.
type DraftController struct {
	DraftService *services.DraftService
}

// NewDraftController initializes the controller
func NewDraftController(service *services.DraftService) *DraftController {
	return &DraftController{DraftService: service}
}

// HandleSaveDraft - create or update a draft
func (c *DraftController) HandleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	if !decodeBody(w, r, &draft) {
		return
	}

	saved, err := c.DraftService.SaveDraft(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// HandleGetDrafts - a user's drafts, newest first
func (c *DraftController) HandleGetDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := c.DraftService.GetDrafts(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drafts)
}
