package routes

import (
	"penpal_server/controllers"
	"penpal_server/services"

	"github.com/gorilla/mux"
)

// RegisterFriendRequestRoutes sets up routes for the explicit introduction flow under /api/friend-requests
func RegisterFriendRequestRoutes(r *mux.Router, friendRequestService *services.FriendRequestService) {
	controller := controllers.NewFriendRequestController(friendRequestService)

	requestRouter := r.PathPrefix("/api/friend-requests").Subrouter()
	requestRouter.HandleFunc("", controller.HandleSendFriendRequest).Methods("POST")
	requestRouter.HandleFunc("/pending", controller.HandleGetPendingRequests).Methods("GET")
	requestRouter.HandleFunc("/sent", controller.HandleGetSentRequests).Methods("GET")
	requestRouter.HandleFunc("/{requestId}/accept", controller.HandleAcceptFriendRequest).Methods("POST")
	requestRouter.HandleFunc("/{requestId}/reject", controller.HandleRejectFriendRequest).Methods("POST")
}
