package controllers

import (
	"net/http"
	"time"

	"penpal_server/services"
)

// SchedulerController exposes the distribution cycle clock and manual
// triggers for the two periodic jobs.
type SchedulerController struct {
	SchedulerService *services.SchedulerService
}

// NewSchedulerController initializes the controller
func NewSchedulerController(service *services.SchedulerService) *SchedulerController {
	return &SchedulerController{SchedulerService: service}
}

// HandleNextCycle - when the next distribution cycle fires
func (c *SchedulerController) HandleNextCycle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"nextCycleTime":    c.SchedulerService.NextCycleTime().Format(time.RFC3339),
		"remainingMinutes": int(c.SchedulerService.TimeUntilNextCycle().Minutes()),
	})
}

// HandleRunCycle - manually trigger a distribution cycle
func (c *SchedulerController) HandleRunCycle(w http.ResponseWriter, r *http.Request) {
	assigned, err := c.SchedulerService.RunDistributionCycle(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"assigned": assigned})
}

// HandleRunSweep - manually trigger a delivery sweep
func (c *SchedulerController) HandleRunSweep(w http.ResponseWriter, r *http.Request) {
	delivered, err := c.SchedulerService.RunDeliverySweep(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"delivered": delivered})
}
