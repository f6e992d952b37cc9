package routes

import (
	"penpal_server/controllers"
	"penpal_server/services"

	"github.com/gorilla/mux"
)

// RegisterLetterRoutes sets up routes for the letter lifecycle under /api/letters
func RegisterLetterRoutes(r *mux.Router, letterService *services.LetterService) {
	controller := controllers.NewLetterController(letterService)

	letterRouter := r.PathPrefix("/api/letters").Subrouter()
	letterRouter.HandleFunc("", controller.HandleSendLetter).Methods("POST")
	letterRouter.HandleFunc("/random", controller.HandleQueueRandomLetter).Methods("POST")
	letterRouter.HandleFunc("/inbox", controller.HandleGetInbox).Methods("GET")
	letterRouter.HandleFunc("/sent", controller.HandleGetSent).Methods("GET")
	letterRouter.HandleFunc("/{letterId}/reply", controller.HandleReplyToLetter).Methods("POST")
	letterRouter.HandleFunc("/{letterId}/read", controller.HandleMarkAsRead).Methods("POST")
	letterRouter.HandleFunc("/{letterId}/accept", controller.HandleAcceptFirstLetter).Methods("POST")
	letterRouter.HandleFunc("/{letterId}/reject", controller.HandleRejectFirstLetter).Methods("POST")
	letterRouter.HandleFunc("/{letterId}/archive", controller.HandleArchiveLetter).Methods("POST")
	letterRouter.HandleFunc("/{letterId}/transit", controller.HandleTransitStatus).Methods("GET")
}
