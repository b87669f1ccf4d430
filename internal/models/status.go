package models

// Status labels a record's maintenance standing.
type Status string

const (
	StatusOK          Status = "OK"
	StatusDueSoon     Status = "Due Soon"
	StatusOverdue     Status = "Overdue"
	StatusNoSchedule  Status = "No Schedule"
	StatusInvalidDate Status = "Invalid Date"
)

// Severity is the presentation class attached to a status.
type Severity string

const (
	SeveritySuccess   Severity = "success"
	SeverityWarning   Severity = "warning"
	SeverityDanger    Severity = "danger"
	SeveritySecondary Severity = "secondary"
)

// StatusResult is derived on every read and never persisted, except when a
// manual override pins it on the record.
type StatusResult struct {
	Status   Status   `json:"status"`
	Severity Severity `json:"severity"`
}

// UpcomingEntry is one row of the reminder window: a quarter or annual
// service falling due. It lives for a single scheduler tick or dashboard
// render.
type UpcomingEntry struct {
	Equipment  string `json:"equipment"`
	Serial     string `json:"serial"`
	Period     string `json:"period"` // "Quarter I".."Quarter IV" or "Annual"
	Department string `json:"department"`
	DueDate    string `json:"due_date"` // DD/MM/YYYY
	Engineer   string `json:"engineer"`
}

// MachineSummary is one row of the combined dashboard listing.
type MachineSummary struct {
	Type            string       `json:"type"` // "PPM" or "OCM"
	NO              int          `json:"NO"`
	Equipment       string       `json:"equipment"`
	Serial          string       `json:"serial"`
	Department      string       `json:"department"`
	NextMaintenance string       `json:"next_maintenance"` // DD/MM/YYYY or "Not Scheduled"
	Engineer        string       `json:"engineer"`
	Status          StatusResult `json:"status"`
}

// DashboardStats summarizes the combined machine list for the dashboard.
type DashboardStats struct {
	TotalMachines  int         `json:"total_machines"`
	QuarterlyCount int         `json:"quarterly_count"`
	YearlyCount    int         `json:"yearly_count"`
	OverdueCount   int         `json:"overdue_count"`
	UpcomingCounts map[int]int `json:"upcoming_counts"` // cumulative: due within 7/14/21/30/60/90 days
}
