package status

import (
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/biomeddev/equipment-maintenance/internal/dates"
	"github.com/biomeddev/equipment-maintenance/internal/models"
)

// NotScheduled is the display value for a machine with no upcoming date.
const NotScheduled = "Not Scheduled"

// UpcomingBuckets are the cumulative look-ahead horizons on the dashboard.
var UpcomingBuckets = []int{7, 14, 21, 30, 60, 90}

var quarterLabels = [4]string{"Quarter I", "Quarter II", "Quarter III", "Quarter IV"}

// Combine merges the PPM and OCM collections into one normalized machine
// list with per-record status. Input order is preserved; the dashboard makes
// no ordering promise beyond that.
func Combine(ppm []models.PPMEntry, ocm []models.OCMEntry, now time.Time) []models.MachineSummary {
	out := make([]models.MachineSummary, 0, len(ppm)+len(ocm))

	for i := range ppm {
		e := &ppm[i]
		s := models.MachineSummary{
			Type:       "PPM",
			NO:         e.NO,
			Equipment:  e.Equipment,
			Serial:     e.SerialNumber,
			Department: e.Department,
			Status:     ClassifyPPM(e, now),
		}
		s.NextMaintenance, s.Engineer = nextQuarter(e, now)
		out = append(out, s)
	}

	for i := range ocm {
		e := &ocm[i]
		s := models.MachineSummary{
			Type:       "OCM",
			NO:         e.NO,
			Equipment:  e.Equipment,
			Serial:     e.SerialNumber,
			Department: e.Department,
			Engineer:   e.Engineer,
			Status:     ClassifyOCM(e, now),
		}
		if models.IsNA(e.NextDate) {
			s.NextMaintenance = NotScheduled
		} else {
			s.NextMaintenance = e.NextDate
		}
		out = append(out, s)
	}

	return out
}

// nextQuarter finds the earliest quarter date at or after today, with the
// matching quarter's engineer. Falls back to the quarter I engineer when no
// stored slot matches the derived date.
func nextQuarter(e *models.PPMEntry, now time.Time) (string, string) {
	q1, err := dates.Parse(e.QuarterI.Date)
	if err != nil {
		if err != dates.ErrNoDate {
			log.Warnf("invalid quarter I date for %s: %q", e.SerialNumber, e.QuarterI.Date)
		}
		return NotScheduled, models.NA
	}

	rest := dates.QuarterDates(q1)
	quarters := []time.Time{q1, rest[0], rest[1], rest[2]}

	var next time.Time
	nextIdx := -1
	for i, q := range quarters {
		if dates.DaysUntil(q, now) < 0 {
			continue
		}
		if nextIdx < 0 || q.Before(next) {
			next = q
			nextIdx = i
		}
	}
	if nextIdx < 0 {
		return NotScheduled, models.NA
	}

	engineer := e.Quarters()[nextIdx].Engineer
	if models.IsNA(engineer) {
		engineer = e.QuarterI.Engineer
	}
	return dates.Format(next), engineer
}

// Upcoming collects the quarterly services falling due within windowDays of
// now, one entry per matching quarter, restricted to records whose PPM flag
// is Yes. Entries are sorted ascending by due date. A record with a bad date
// is logged and skipped; it never fails the rest of the window.
func Upcoming(ppm []models.PPMEntry, windowDays int, now time.Time) []models.UpcomingEntry {
	var out []models.UpcomingEntry

	for i := range ppm {
		e := &ppm[i]
		if e.PPM != "Yes" {
			continue
		}
		for qi, q := range e.Quarters() {
			due, err := dates.Parse(q.Date)
			if err == dates.ErrNoDate {
				continue
			}
			if err != nil {
				log.Errorf("skipping %s %s: bad date %q", e.SerialNumber, quarterLabels[qi], q.Date)
				continue
			}
			daysUntil := dates.DaysUntil(due, now)
			if daysUntil < 0 || daysUntil > windowDays {
				continue
			}
			out = append(out, models.UpcomingEntry{
				Equipment:  e.Equipment,
				Serial:     e.SerialNumber,
				Period:     quarterLabels[qi],
				Department: e.Department,
				DueDate:    dates.Format(due),
				Engineer:   q.Engineer,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, _ := dates.Parse(out[i].DueDate)
		b, _ := dates.Parse(out[j].DueDate)
		return a.Before(b)
	})
	return out
}

// Stats derives the dashboard counters from a combined machine list. Each
// machine lands in every bucket whose horizon covers it, so the buckets are
// cumulative rather than exclusive.
func Stats(machines []models.MachineSummary, now time.Time) models.DashboardStats {
	stats := models.DashboardStats{
		TotalMachines:  len(machines),
		UpcomingCounts: make(map[int]int, len(UpcomingBuckets)),
	}
	for _, b := range UpcomingBuckets {
		stats.UpcomingCounts[b] = 0
	}

	for _, m := range machines {
		switch m.Type {
		case "PPM":
			stats.QuarterlyCount++
		case "OCM":
			stats.YearlyCount++
		}

		if m.NextMaintenance == NotScheduled {
			continue
		}
		due, err := dates.Parse(m.NextMaintenance)
		if err != nil {
			continue
		}
		daysUntil := dates.DaysUntil(due, now)
		if daysUntil < 0 {
			stats.OverdueCount++
			continue
		}
		for _, b := range UpcomingBuckets {
			if daysUntil <= b {
				stats.UpcomingCounts[b]++
			}
		}
	}
	return stats
}
