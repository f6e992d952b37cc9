package routes

import (
	"penpal_server/controllers"
	"penpal_server/services"

	"github.com/gorilla/mux"
)

// RegisterFriendshipRoutes sets up routes for friendship listings under /api/friendships
func RegisterFriendshipRoutes(r *mux.Router, friendshipService *services.FriendshipService) {
	controller := controllers.NewFriendshipController(friendshipService)

	friendshipRouter := r.PathPrefix("/api/friendships").Subrouter()
	friendshipRouter.HandleFunc("", controller.HandleListFriendships).Methods("GET")
	friendshipRouter.HandleFunc("/{pairKey}/archive", controller.HandleArchiveFriendship).Methods("POST")
}
