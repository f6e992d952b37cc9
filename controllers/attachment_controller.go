package controllers

import (
	"net/http"

	"penpal_server/services"
)

// AttachmentController hands out presigned S3 URLs for letter photos.
type AttachmentController struct {
	AttachmentService *services.AttachmentService
}

// NewAttachmentController initializes the controller
func NewAttachmentController(service *services.AttachmentService) *AttachmentController {
	return &AttachmentController{AttachmentService: service}
}

// HandleUploadURL - presigned URL to upload an attachment
func (c *AttachmentController) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	fileType := r.URL.Query().Get("fileType")
	if fileName == "" || fileType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fileName and fileType are required"})
		return
	}

	url, key, err := c.AttachmentService.GenerateUploadURL(r.Context(), fileName, fileType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// HandleReadURL - presigned URL to read an attachment
func (c *AttachmentController) HandleReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
		return
	}

	url, err := c.AttachmentService.GenerateReadURL(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"readUrl": url})
}
