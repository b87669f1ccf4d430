package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomeddev/equipment-maintenance/internal/models"
)

func TestDashboardHandler_Dashboard(t *testing.T) {
	reg := newTestRegistry()
	handler := NewDashboardHandler(reg)
	handler.now = func() time.Time {
		return time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	}

	_, err := reg.AddPPM(context.Background(), models.PPMEntry{
		Equipment: "Ventilator", SerialNumber: "VNT-001", PPM: "Yes",
		QuarterI: models.QuarterTask{Date: "15/04/2025", Engineer: "Sara"},
	})
	require.NoError(t, err)
	_, err = reg.AddOCM(context.Background(), models.OCMEntry{
		Equipment: "X-Ray", SerialNumber: "XR-1", OCM: "Yes", LastDate: "01/06/2024",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/dashboard", nil)
	w := httptest.NewRecorder()
	handler.Dashboard(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Machines []models.MachineSummary `json:"machines"`
		Stats    models.DashboardStats   `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Machines, 2)
	assert.Equal(t, "PPM", resp.Machines[0].Type)
	assert.Equal(t, models.StatusOK, resp.Machines[0].Status.Status)
	assert.Equal(t, "15/04/2025", resp.Machines[0].NextMaintenance)
	assert.Equal(t, "OCM", resp.Machines[1].Type)

	assert.Equal(t, 2, resp.Stats.TotalMachines)
	assert.Equal(t, 1, resp.Stats.QuarterlyCount)
	assert.Equal(t, 1, resp.Stats.YearlyCount)
	// PPM due in 14 days, OCM due in 61: buckets are cumulative.
	assert.Equal(t, 0, resp.Stats.UpcomingCounts[7])
	assert.Equal(t, 1, resp.Stats.UpcomingCounts[14])
	assert.Equal(t, 2, resp.Stats.UpcomingCounts[90])
}

func TestDashboardHandler_Upcoming(t *testing.T) {
	reg := newTestRegistry()
	handler := NewDashboardHandler(reg)
	handler.now = func() time.Time {
		return time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	}

	_, err := reg.AddPPM(context.Background(), models.PPMEntry{
		SerialNumber: "VNT-001", PPM: "Yes",
		QuarterI: models.QuarterTask{Date: "15/04/2025", Engineer: "Sara"},
	})
	require.NoError(t, err)

	t.Run("default window", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/upcoming", nil)
		w := httptest.NewRecorder()
		handler.Upcoming(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []models.UpcomingEntry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
		require.Len(t, entries, 1) // only Q1 falls inside 60 days
		assert.Equal(t, "15/04/2025", entries[0].DueDate)
		assert.Equal(t, "Quarter I", entries[0].Period)
	})

	t.Run("narrow window", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/upcoming?days=7", nil)
		w := httptest.NewRecorder()
		handler.Upcoming(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []models.UpcomingEntry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
		assert.Empty(t, entries)
	})

	t.Run("bad days parameter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/upcoming?days=soon", nil)
		w := httptest.NewRecorder()
		handler.Upcoming(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
