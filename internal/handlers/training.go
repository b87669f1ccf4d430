package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/biomeddev/equipment-maintenance/internal/models"
	"github.com/biomeddev/equipment-maintenance/internal/registry"
)

// TrainingHandler handles staff training record requests
type TrainingHandler struct {
	registry *registry.Registry
}

// NewTrainingHandler creates a new training handler
func NewTrainingHandler(reg *registry.Registry) *TrainingHandler {
	return &TrainingHandler{registry: reg}
}

// Training handles the training collection: GET lists, POST adds
func (h *TrainingHandler) Training(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries := h.registry.ListTraining(r.Context())
		writeJSON(w, http.StatusOK, entries)
	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		var entry models.TrainingEntry
		if err := json.Unmarshal(body, &entry); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		added, err := h.registry.AddTraining(r.Context(), entry)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, added)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// TrainingByID handles one training record: GET, PUT, DELETE
func (h *TrainingHandler) TrainingByID(w http.ResponseWriter, r *http.Request) {
	employeeID := pathTail(r.URL.Path, "/api/training/")
	if employeeID == "" {
		http.Error(w, "Employee ID required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := h.registry.GetTraining(r.Context(), employeeID)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		var entry models.TrainingEntry
		if err := json.Unmarshal(body, &entry); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		updated, err := h.registry.UpdateTraining(r.Context(), employeeID, entry)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.registry.DeleteTraining(r.Context(), employeeID); err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Record deleted"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
