package routes

import (
	"penpal_server/controllers"
	"penpal_server/services"

	"github.com/gorilla/mux"
)

// RegisterAttachmentRoutes sets up routes for letter attachments under /api/attachments
func RegisterAttachmentRoutes(r *mux.Router, attachmentService *services.AttachmentService) {
	controller := controllers.NewAttachmentController(attachmentService)

	attachmentRouter := r.PathPrefix("/api/attachments").Subrouter()
	attachmentRouter.HandleFunc("/upload-url", controller.HandleUploadURL).Methods("GET")
	attachmentRouter.HandleFunc("/read-url", controller.HandleReadURL).Methods("GET")
}
