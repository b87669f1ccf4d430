// Package dates implements the calendar arithmetic behind maintenance
// schedules: DD/MM/YYYY parsing, quarter derivation with end-of-month
// clamping, and the fixed 365-day annual step.
package dates

import (
	"errors"
	"time"

	"github.com/biomeddev/equipment-maintenance/internal/models"
)

const (
	// Layout is the canonical date format across records and flat files.
	Layout = "02/01/2006"
	// LayoutISO is accepted on input from forms and CSV files.
	LayoutISO = "2006-01-02"
)

var (
	// ErrNoDate marks an absent date ("n/a" or empty).
	ErrNoDate = errors.New("no date")
	// ErrInvalidDate marks a date that is present but unparsable.
	ErrInvalidDate = errors.New("invalid date format, expected DD/MM/YYYY or YYYY-MM-DD")
)

// Parse reads a record date. Absence sentinels yield ErrNoDate so callers
// can tell "not scheduled" apart from a corrupt value.
func Parse(s string) (time.Time, error) {
	if models.IsNA(s) {
		return time.Time{}, ErrNoDate
	}
	if t, err := time.Parse(Layout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(LayoutISO, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// Format renders a date in the canonical DD/MM/YYYY form.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// AddMonths advances by whole calendar months, clamping the day to the end
// of the target month: 31 Jan + 3 months is 30 Apr, not 1 May. time.AddDate
// would roll over, which is the wrong behavior for due dates.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	y += total / 12
	m = time.Month(total%12 + 1)
	if last := daysIn(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// QuarterDates derives the Q2, Q3 and Q4 due dates from the Q1 date: +3, +6
// and +9 calendar months.
func QuarterDates(q1 time.Time) [3]time.Time {
	return [3]time.Time{
		AddMonths(q1, 3),
		AddMonths(q1, 6),
		AddMonths(q1, 9),
	}
}

// QuarterDateStrings is QuarterDates over a raw Q1 string, returning
// canonical DD/MM/YYYY values for storage.
func QuarterDateStrings(q1 string) ([3]string, error) {
	base, err := Parse(q1)
	if err != nil {
		return [3]string{}, err
	}
	q := QuarterDates(base)
	return [3]string{Format(q[0]), Format(q[1]), Format(q[2])}, nil
}

// NextDue derives the annual next-due date as exactly 365 days after the
// last service. Fixed day count, not calendar months: the annual path has
// always worked this way and the two must not be unified.
func NextDue(last time.Time) time.Time {
	return last.AddDate(0, 0, 365)
}

// DaysUntil counts whole calendar days from now to the due date. Negative
// means overdue. Only the dates matter: both instants are reduced to their
// own calendar day before subtracting, so a due date parsed in UTC compares
// correctly against a local wall-clock now.
func DaysUntil(due, now time.Time) int {
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(n).Hours() / 24)
}
