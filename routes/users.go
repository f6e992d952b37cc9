package routes

import (
	"penpal_server/controllers"
	"penpal_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes sets up read-only directory routes under /api/users
func RegisterUserRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	userRouter := r.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("/{userId}", controller.HandleGetProfile).Methods("GET")
}
