// Package status derives maintenance standing from schedule dates and
// builds the combined dashboard and reminder views over the PPM and OCM
// collections.
package status

import (
	"time"

	"github.com/biomeddev/equipment-maintenance/internal/dates"
	"github.com/biomeddev/equipment-maintenance/internal/models"
)

// DueSoonDays is the window, in days, within which an upcoming service is
// reported as Due Soon rather than OK.
const DueSoonDays = 7

var overrideMap = map[string]models.StatusResult{
	string(models.StatusOK):          {Status: models.StatusOK, Severity: models.SeveritySuccess},
	string(models.StatusDueSoon):     {Status: models.StatusDueSoon, Severity: models.SeverityWarning},
	string(models.StatusOverdue):     {Status: models.StatusOverdue, Severity: models.SeverityDanger},
	string(models.StatusInvalidDate): {Status: models.StatusInvalidDate, Severity: models.SeveritySecondary},
}

func ok() models.StatusResult {
	return models.StatusResult{Status: models.StatusOK, Severity: models.SeveritySuccess}
}

func dueSoon() models.StatusResult {
	return models.StatusResult{Status: models.StatusDueSoon, Severity: models.SeverityWarning}
}

func overdue() models.StatusResult {
	return models.StatusResult{Status: models.StatusOverdue, Severity: models.SeverityDanger}
}

func noSchedule() models.StatusResult {
	return models.StatusResult{Status: models.StatusNoSchedule, Severity: models.SeveritySecondary}
}

func invalidDate() models.StatusResult {
	return models.StatusResult{Status: models.StatusInvalidDate, Severity: models.SeveritySecondary}
}

// resolveOverride maps a manual status override onto its result. An unknown
// non-empty override falls back to OK, mirroring the legacy behavior.
func resolveOverride(override string) (models.StatusResult, bool) {
	if models.IsNA(override) {
		return models.StatusResult{}, false
	}
	if r, found := overrideMap[override]; found {
		return r, true
	}
	return ok(), true
}

// ClassifyPPM computes the status of a quarterly record as of now.
//
// Quarter dates II-IV are re-derived from the quarter I date rather than
// read from the stored slots, so hand-edited records still classify
// consistently. Any quarter strictly before today makes the whole record
// Overdue, even when a later quarter is still upcoming.
func ClassifyPPM(e *models.PPMEntry, now time.Time) models.StatusResult {
	if r, found := resolveOverride(e.StatusOverride); found {
		return r
	}

	q1, err := dates.Parse(e.QuarterI.Date)
	if err == dates.ErrNoDate {
		return noSchedule()
	}
	if err != nil {
		return invalidDate()
	}

	rest := dates.QuarterDates(q1)
	quarters := []time.Time{q1, rest[0], rest[1], rest[2]}

	nextDays := -1
	for _, q := range quarters {
		d := dates.DaysUntil(q, now)
		if d < 0 {
			return overdue()
		}
		if nextDays < 0 || d < nextDays {
			nextDays = d
		}
	}
	return tier(nextDays)
}

// ClassifyOCM computes the status of an annual record as of now.
func ClassifyOCM(e *models.OCMEntry, now time.Time) models.StatusResult {
	if r, found := resolveOverride(e.StatusOverride); found {
		return r
	}

	due, err := dates.Parse(e.NextDate)
	if err == dates.ErrNoDate {
		return noSchedule()
	}
	if err != nil {
		return invalidDate()
	}

	return tier(dates.DaysUntil(due, now))
}

func tier(daysUntil int) models.StatusResult {
	switch {
	case daysUntil < 0:
		return overdue()
	case daysUntil <= DueSoonDays:
		return dueSoon()
	default:
		return ok()
	}
}
