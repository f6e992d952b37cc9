package routes

import (
	"penpal_server/controllers"
	"penpal_server/services"

	"github.com/gorilla/mux"
)

// RegisterDraftRoutes sets up routes for drafts under /api/drafts
func RegisterDraftRoutes(r *mux.Router, draftService *services.DraftService) {
	controller := controllers.NewDraftController(draftService)

	draftRouter := r.PathPrefix("/api/drafts").Subrouter()
	draftRouter.HandleFunc("", controller.HandleSaveDraft).Methods("PUT")
	draftRouter.HandleFunc("", controller.HandleGetDrafts).Methods("GET")
}
