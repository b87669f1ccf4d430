package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/biomeddev/equipment-maintenance/internal/importexport"
	"github.com/biomeddev/equipment-maintenance/internal/registry"
)

const maxUploadBytes = 32 << 20 // 32 MiB

// TransferHandler handles CSV import/export and ZIP backup/restore
type TransferHandler struct {
	registry *registry.Registry
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(reg *registry.Registry) *TransferHandler {
	return &TransferHandler{registry: reg}
}

// uploadBody returns the CSV payload: the "file" part of a multipart form
// when present, the raw request body otherwise
func uploadBody(r *http.Request) (io.ReadCloser, error) {
	ct := r.Header.Get("Content-Type")
	if len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, fmt.Errorf("parsing upload: %w", err)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing file field: %w", err)
		}
		return f, nil
	}
	return r.Body, nil
}

// ImportPPM merges an uploaded quarterly CSV into the registry
func (h *TransferHandler) ImportPPM(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	src, err := uploadBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer src.Close()

	res, err := importexport.ImportPPM(r.Context(), h.registry, src)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ImportOCM merges an uploaded annual CSV into the registry
func (h *TransferHandler) ImportOCM(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	src, err := uploadBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer src.Close()

	res, err := importexport.ImportOCM(r.Context(), h.registry, src)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ImportTraining merges an uploaded training CSV into the registry
func (h *TransferHandler) ImportTraining(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	src, err := uploadBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer src.Close()

	res, err := importexport.ImportTraining(r.Context(), h.registry, src)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ExportPPM streams the quarterly collection as a CSV attachment
func (h *TransferHandler) ExportPPM(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	serveCSV(w, "ppm.csv", func(dst io.Writer) error {
		return importexport.ExportPPM(dst, h.registry.ListPPM(r.Context()))
	})
}

// ExportOCM streams the annual collection as a CSV attachment
func (h *TransferHandler) ExportOCM(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	serveCSV(w, "ocm.csv", func(dst io.Writer) error {
		return importexport.ExportOCM(dst, h.registry.ListOCM(r.Context()))
	})
}

// ExportTraining streams the training collection as a CSV attachment
func (h *TransferHandler) ExportTraining(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	serveCSV(w, "training.csv", func(dst io.Writer) error {
		return importexport.ExportTraining(dst, h.registry.ListTraining(r.Context()))
	})
}

func serveCSV(w http.ResponseWriter, filename string, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		http.Error(w, "Failed to build export", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Backup streams all collections as one ZIP archive
func (h *TransferHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := importexport.Backup(r.Context(), h.registry, &buf); err != nil {
		http.Error(w, "Failed to build backup", http.StatusInternalServerError)
		return
	}

	name := fmt.Sprintf("equipment-backup-%s.zip", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Restore replaces all collections from an uploaded backup archive
func (h *TransferHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	src, err := uploadBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return
	}

	if err := importexport.Restore(r.Context(), h.registry, bytes.NewReader(data), int64(len(data))); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Backup restored"})
}
