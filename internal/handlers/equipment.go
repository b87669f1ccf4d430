package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/biomeddev/equipment-maintenance/internal/models"
	"github.com/biomeddev/equipment-maintenance/internal/registry"
	"github.com/biomeddev/equipment-maintenance/internal/status"
)

// EquipmentHandler handles quarterly and annual equipment record requests
type EquipmentHandler struct {
	registry *registry.Registry
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(reg *registry.Registry) *EquipmentHandler {
	return &EquipmentHandler{registry: reg}
}

// PPM handles the quarterly collection: GET lists, POST adds
func (h *EquipmentHandler) PPM(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries := h.registry.ListPPM(r.Context())
		writeJSON(w, http.StatusOK, entries)
	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		var entry models.PPMEntry
		if err := json.Unmarshal(body, &entry); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		added, err := h.registry.AddPPM(r.Context(), entry)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, added)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// PPMBySerial handles one quarterly record: GET, PUT, DELETE
func (h *EquipmentHandler) PPMBySerial(w http.ResponseWriter, r *http.Request) {
	serial := pathTail(r.URL.Path, "/api/equipment/ppm/")
	if serial == "" {
		http.Error(w, "Serial number required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := h.registry.GetPPM(r.Context(), serial)
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
		var entry models.PPMEntry
		if err := json.Unmarshal(body, &entry); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		updated, err := h.registry.UpdatePPM(r.Context(), serial, entry)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.registry.DeletePPM(r.Context(), serial); err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Record deleted"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// OCM handles the annual collection: GET lists, POST adds
func (h *EquipmentHandler) OCM(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries := h.registry.ListOCM(r.Context())
		writeJSON(w, http.StatusOK, entries)
	case http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		var entry models.OCMEntry
		if err := json.Unmarshal(body, &entry); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		added, err := h.registry.AddOCM(r.Context(), entry)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, added)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// OCMBySerial handles one annual record: GET, PUT, DELETE
func (h *EquipmentHandler) OCMBySerial(w http.ResponseWriter, r *http.Request) {
	serial := pathTail(r.URL.Path, "/api/equipment/ocm/")
	if serial == "" {
		http.Error(w, "Serial number required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := h.registry.GetOCM(r.Context(), serial)
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
		var entry models.OCMEntry
		if err := json.Unmarshal(body, &entry); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		updated, err := h.registry.UpdateOCM(r.Context(), serial, entry)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := h.registry.DeleteOCM(r.Context(), serial); err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Record deleted"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// PPMStatus returns one quarterly record together with its computed status
func (h *EquipmentHandler) PPMStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	serial := pathTail(r.URL.Path, "/api/equipment/ppm-status/")
	if serial == "" {
		http.Error(w, "Serial number required", http.StatusBadRequest)
		return
	}

	entry, err := h.registry.GetPPM(r.Context(), serial)
	if err != nil {
		writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Entry  models.PPMEntry     `json:"entry"`
		Status models.StatusResult `json:"status"`
	}{entry, status.ClassifyPPM(&entry, time.Now())})
}

func pathTail(path, prefix string) string {
	tail := strings.TrimPrefix(path, prefix)
	if tail == path {
		return ""
	}
	return strings.Trim(tail, "/")
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeRegistryError maps registry sentinel errors onto HTTP statuses
func writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, registry.ErrDuplicateSerial), errors.Is(err, registry.ErrDuplicateEmployee):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, registry.ErrSerialImmutable):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
