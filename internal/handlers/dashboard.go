package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/biomeddev/equipment-maintenance/internal/models"
	"github.com/biomeddev/equipment-maintenance/internal/registry"
	"github.com/biomeddev/equipment-maintenance/internal/status"
)

// DashboardHandler serves the combined machine view and its counters
type DashboardHandler struct {
	registry *registry.Registry
	now      func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(reg *registry.Registry) *DashboardHandler {
	return &DashboardHandler{registry: reg, now: time.Now}
}

// Dashboard returns every machine with its status plus the dashboard stats
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := h.now()
	ppm := h.registry.ListPPM(r.Context())
	ocm := h.registry.ListOCM(r.Context())

	machines := status.Combine(ppm, ocm, now)
	writeJSON(w, http.StatusOK, struct {
		Machines []models.MachineSummary `json:"machines"`
		Stats    models.DashboardStats   `json:"stats"`
	}{machines, status.Stats(machines, now)})
}

// Upcoming returns the quarterly services falling due within the window
// given by the days query parameter (default 60)
func (h *DashboardHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	window := 60
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid days parameter", http.StatusBadRequest)
			return
		}
		window = n
	}

	ppm := h.registry.ListPPM(r.Context())
	entries := status.Upcoming(ppm, window, h.now())
	if entries == nil {
		entries = []models.UpcomingEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
