package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomeddev/equipment-maintenance/internal/importexport"
	"github.com/biomeddev/equipment-maintenance/internal/models"
)

func TestTransferHandler_ImportPPM_RawBody(t *testing.T) {
	reg := newTestRegistry()
	handler := NewTransferHandler(reg)

	csvData := strings.Join([]string{
		"EQUIPMENT,MFG_SERIAL,PPM,PPM_Q_I",
		"Ventilator,VNT-001,Yes,15/01/2025",
	}, "\n")

	req := httptest.NewRequest("POST", "/api/import/ppm", strings.NewReader(csvData))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	handler.ImportPPM(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var res importexport.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Added)
	assert.Len(t, reg.ListPPM(context.Background()), 1)
}

func TestTransferHandler_ExportPPM(t *testing.T) {
	reg := newTestRegistry()
	handler := NewTransferHandler(reg)

	_, err := reg.AddPPM(context.Background(), models.PPMEntry{
		SerialNumber: "VNT-001", PPM: "Yes",
		QuarterI: models.QuarterTask{Date: "15/01/2025"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/export/ppm", nil)
	w := httptest.NewRecorder()
	handler.ExportPPM(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ppm.csv")
	assert.Contains(t, w.Body.String(), "VNT-001")
}

func TestTransferHandler_BackupRestore(t *testing.T) {
	reg := newTestRegistry()
	handler := NewTransferHandler(reg)

	_, err := reg.AddPPM(context.Background(), models.PPMEntry{
		SerialNumber: "VNT-001", PPM: "Yes",
		QuarterI: models.QuarterTask{Date: "15/01/2025"},
	})
	require.NoError(t, err)
	_, err = reg.AddTraining(context.Background(), models.TrainingEntry{EmployeeID: "E-1"})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/backup", nil)
	w := httptest.NewRecorder()
	handler.Backup(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))

	// Restore the archive into a fresh registry.
	reg2 := newTestRegistry()
	handler2 := NewTransferHandler(reg2)

	req = httptest.NewRequest("POST", "/api/restore", bytes.NewReader(w.Body.Bytes()))
	req.Header.Set("Content-Type", "application/zip")
	w2 := httptest.NewRecorder()
	handler2.Restore(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)

	assert.Equal(t, reg.ListPPM(context.Background()), reg2.ListPPM(context.Background()))
	assert.Equal(t, reg.ListTraining(context.Background()), reg2.ListTraining(context.Background()))
}

func TestTransferHandler_Restore_BadArchive(t *testing.T) {
	handler := NewTransferHandler(newTestRegistry())

	req := httptest.NewRequest("POST", "/api/restore", strings.NewReader("not a zip"))
	w := httptest.NewRecorder()
	handler.Restore(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransferHandler_ImportPPM_MethodNotAllowed(t *testing.T) {
	handler := NewTransferHandler(newTestRegistry())

	req := httptest.NewRequest("GET", "/api/import/ppm", nil)
	w := httptest.NewRecorder()
	handler.ImportPPM(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
