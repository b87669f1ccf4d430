package handlers

import (
	"net/http"

	"github.com/biomeddev/equipment-maintenance/internal/scheduler"
)

// RemindersHandler triggers reminder cycles on demand
type RemindersHandler struct {
	scheduler *scheduler.Scheduler
}

// NewRemindersHandler creates a new reminders handler
func NewRemindersHandler(s *scheduler.Scheduler) *RemindersHandler {
	return &RemindersHandler{scheduler: s}
}

// Test runs one reminder cycle immediately, outside the schedule, so
// operators can verify SMTP settings without waiting a day
func (h *RemindersHandler) Test(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.scheduler.RunTick(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reminder cycle completed"})
}
