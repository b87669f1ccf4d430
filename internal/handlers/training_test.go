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
)

func TestTrainingHandler_AddAndList(t *testing.T) {
	reg := newTestRegistry()
	handler := NewTrainingHandler(reg)

	entry := models.TrainingEntry{
		EmployeeID: "E-100",
		Name:       "Amira",
		Department: "ICU",
		Machines: []models.MachineTraining{
			{Machine: "Ventilator", Trainer: "Sara", Trained: true},
		},
	}

	w := postJSON(t, handler.Training, "/api/training", entry)
	assert.Equal(t, http.StatusCreated, w.Code)

	var added models.TrainingEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	assert.Equal(t, 1, added.NO)
	assert.Len(t, added.Machines, 1)
	assert.True(t, added.Machines[0].Trained)

	req := httptest.NewRequest("GET", "/api/training", nil)
	w = httptest.NewRecorder()
	handler.Training(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var listed []models.TrainingEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestTrainingHandler_DuplicateEmployee(t *testing.T) {
	handler := NewTrainingHandler(newTestRegistry())

	entry := models.TrainingEntry{EmployeeID: "E-100"}
	w := postJSON(t, handler.Training, "/api/training", entry)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, handler.Training, "/api/training", entry)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTrainingHandler_TrainingByID(t *testing.T) {
	reg := newTestRegistry()
	handler := NewTrainingHandler(reg)

	_, err := reg.AddTraining(context.Background(), models.TrainingEntry{EmployeeID: "E-100"})
	require.NoError(t, err)

	t.Run("get existing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/training/E-100", nil)
		w := httptest.NewRecorder()
		handler.TrainingByID(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("get missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/training/E-999", nil)
		w := httptest.NewRecorder()
		handler.TrainingByID(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update keeps employee id", func(t *testing.T) {
		body, _ := json.Marshal(models.TrainingEntry{
			EmployeeID: "E-100",
			Machines: []models.MachineTraining{
				{Machine: "Infusion Pump", Trained: true},
			},
		})
		req := httptest.NewRequest("PUT", "/api/training/E-100", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		handler.TrainingByID(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var updated models.TrainingEntry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, "E-100", updated.EmployeeID)
		assert.Equal(t, 1, updated.TotalTrained())
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/api/training/E-100", nil)
		w := httptest.NewRecorder()
		handler.TrainingByID(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, reg.ListTraining(context.Background()))
	})

	t.Run("missing id segment", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/training/", nil)
		w := httptest.NewRecorder()
		handler.TrainingByID(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
