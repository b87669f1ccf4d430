package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomeddev/equipment-maintenance/internal/models"
	"github.com/biomeddev/equipment-maintenance/internal/registry"
)

type memStore struct {
	ppm      []models.PPMEntry
	ocm      []models.OCMEntry
	training []models.TrainingEntry
}

func (s *memStore) LoadPPM(ctx context.Context) ([]models.PPMEntry, error) { return s.ppm, nil }
func (s *memStore) SavePPM(ctx context.Context, e []models.PPMEntry) error { s.ppm = e; return nil }
func (s *memStore) LoadOCM(ctx context.Context) ([]models.OCMEntry, error) { return s.ocm, nil }
func (s *memStore) SaveOCM(ctx context.Context, e []models.OCMEntry) error { s.ocm = e; return nil }
func (s *memStore) LoadTraining(ctx context.Context) ([]models.TrainingEntry, error) {
	return s.training, nil
}
func (s *memStore) SaveTraining(ctx context.Context, e []models.TrainingEntry) error {
	s.training = e
	return nil
}

func newTestRegistry() *registry.Registry {
	return registry.New(&memStore{})
}

func postJSON(t *testing.T, handler http.HandlerFunc, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", url, bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestEquipmentHandler_PPM_AddAndList(t *testing.T) {
	reg := newTestRegistry()
	handler := NewEquipmentHandler(reg)

	entry := models.PPMEntry{
		Equipment:    "Ventilator",
		SerialNumber: "VNT-001",
		Department:   "ICU",
		PPM:          "Yes",
		QuarterI:     models.QuarterTask{Date: "15/01/2025", Engineer: "Sara"},
	}

	w := postJSON(t, handler.PPM, "/api/equipment/ppm", entry)
	assert.Equal(t, http.StatusCreated, w.Code)

	var added models.PPMEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	assert.Equal(t, 1, added.NO)
	assert.Equal(t, "15/04/2025", added.QuarterII.Date)

	req := httptest.NewRequest("GET", "/api/equipment/ppm", nil)
	w = httptest.NewRecorder()
	handler.PPM(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var listed []models.PPMEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestEquipmentHandler_PPM_DuplicateSerial(t *testing.T) {
	reg := newTestRegistry()
	handler := NewEquipmentHandler(reg)

	entry := models.PPMEntry{
		SerialNumber: "VNT-001", PPM: "Yes",
		QuarterI: models.QuarterTask{Date: "15/01/2025"},
	}

	w := postJSON(t, handler.PPM, "/api/equipment/ppm", entry)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, handler.PPM, "/api/equipment/ppm", entry)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEquipmentHandler_PPMBySerial(t *testing.T) {
	reg := newTestRegistry()
	handler := NewEquipmentHandler(reg)

	_, err := reg.AddPPM(context.Background(), models.PPMEntry{
		SerialNumber: "VNT-001", PPM: "Yes",
		QuarterI: models.QuarterTask{Date: "15/01/2025"},
	})
	require.NoError(t, err)

	t.Run("get existing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/equipment/ppm/VNT-001", nil)
		w := httptest.NewRecorder()
		handler.PPMBySerial(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("get missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/equipment/ppm/NOPE", nil)
		w := httptest.NewRecorder()
		handler.PPMBySerial(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update with changed serial rejected", func(t *testing.T) {
		body, _ := json.Marshal(models.PPMEntry{
			SerialNumber: "OTHER", PPM: "Yes",
			QuarterI: models.QuarterTask{Date: "15/01/2025"},
		})
		req := httptest.NewRequest("PUT", "/api/equipment/ppm/VNT-001", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.PPMBySerial(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/equipment/ppm/VNT-001", nil)
		w := httptest.NewRecorder()
		handler.PPMBySerial(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, reg.ListPPM(context.Background()))
	})
}

func TestEquipmentHandler_OCM_AddDerivesNextDate(t *testing.T) {
	reg := newTestRegistry()
	handler := NewEquipmentHandler(reg)

	w := postJSON(t, handler.OCM, "/api/equipment/ocm", models.OCMEntry{
		Equipment: "X-Ray", SerialNumber: "XR-1", OCM: "Yes", LastDate: "01/06/2024",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var added models.OCMEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	assert.Equal(t, "01/06/2025", added.NextDate)
}

func TestEquipmentHandler_OCM_MissingLastDate(t *testing.T) {
	handler := NewEquipmentHandler(newTestRegistry())

	w := postJSON(t, handler.OCM, "/api/equipment/ocm", models.OCMEntry{
		SerialNumber: "XR-1", OCM: "Yes",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEquipmentHandler_PPMStatus(t *testing.T) {
	reg := newTestRegistry()
	handler := NewEquipmentHandler(reg)

	_, err := reg.AddPPM(context.Background(), models.PPMEntry{
		SerialNumber: "VNT-001", PPM: "Yes",
		QuarterI: models.QuarterTask{Date: "01/01/2020"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/equipment/ppm-status/VNT-001", nil)
	w := httptest.NewRecorder()
	handler.PPMStatus(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status models.StatusResult `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusOverdue, resp.Status.Status)
	assert.Equal(t, models.SeverityDanger, resp.Status.Severity)
}

func TestEquipmentHandler_MethodNotAllowed(t *testing.T) {
	handler := NewEquipmentHandler(newTestRegistry())

	req := httptest.NewRequest("PATCH", "/api/equipment/ppm", nil)
	w := httptest.NewRecorder()
	handler.PPM(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
