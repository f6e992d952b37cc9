package routes

import (
	"penpal_server/controllers"
	"penpal_server/services"

	"github.com/gorilla/mux"
)

// RegisterSchedulerRoutes sets up routes for the scheduler under /api/scheduler
func RegisterSchedulerRoutes(r *mux.Router, schedulerService *services.SchedulerService) {
	controller := controllers.NewSchedulerController(schedulerService)

	schedulerRouter := r.PathPrefix("/api/scheduler").Subrouter()
	schedulerRouter.HandleFunc("/next-cycle", controller.HandleNextCycle).Methods("GET")
	schedulerRouter.HandleFunc("/run-cycle", controller.HandleRunCycle).Methods("POST")
	schedulerRouter.HandleFunc("/run-sweep", controller.HandleRunSweep).Methods("POST")
}
