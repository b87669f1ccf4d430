package models

import (
	"errors"
	"strings"
)

// NA is the sentinel for an absent value. Exported flat files keep a stable
// column set, so absence is always written as "n/a", never omitted.
const NA = "n/a"

// ErrFlagValue is returned when a yes/no flag holds anything else.
var ErrFlagValue = errors.New("flag must be 'Yes' or 'No'")

// QuarterTask holds one quarterly maintenance slot.
type QuarterTask struct {
	Date     string `bson:"date" json:"date"`         // DD/MM/YYYY or "n/a"
	Engineer string `bson:"engineer" json:"engineer"` // assigned engineer or "n/a"
}

// PPMEntry represents a piece of equipment on the quarterly planned
// preventive maintenance schedule.
type PPMEntry struct {
	NO               int         `bson:"no" json:"NO"` // 1-based display index, reassigned on reindex
	Equipment        string      `bson:"equipment" json:"EQUIPMENT"`
	Model            string      `bson:"model" json:"MODEL"`
	SerialNumber     string      `bson:"serial_number" json:"MFG_SERIAL"` // unique within the PPM collection
	Manufacturer     string      `bson:"manufacturer" json:"MANUFACTURER"`
	LogNo            string      `bson:"log_no" json:"LOG_NO"`
	Department       string      `bson:"department" json:"DEPARTMENT"`
	PPM              string      `bson:"ppm" json:"PPM"` // "Yes" or "No"
	QuarterI         QuarterTask `bson:"quarter_1" json:"PPM_Q_I"`
	QuarterII        QuarterTask `bson:"quarter_2" json:"PPM_Q_II"`
	QuarterIII       QuarterTask `bson:"quarter_3" json:"PPM_Q_III"`
	QuarterIV        QuarterTask `bson:"quarter_4" json:"PPM_Q_IV"`
	InstallationDate string      `bson:"installation_date,omitempty" json:"installation_date,omitempty"`
	WarrantyEnd      string      `bson:"warranty_end,omitempty" json:"warranty_end,omitempty"`
	StatusOverride   string      `bson:"status_override,omitempty" json:"status_override,omitempty"` // "", "OK", "Due Soon", "Overdue", "Invalid Date"
}

// Quarters returns the four quarter slots in order.
func (e *PPMEntry) Quarters() [4]QuarterTask {
	return [4]QuarterTask{e.QuarterI, e.QuarterII, e.QuarterIII, e.QuarterIV}
}

// SetQuarters replaces the four quarter slots in order.
func (e *PPMEntry) SetQuarters(q [4]QuarterTask) {
	e.QuarterI, e.QuarterII, e.QuarterIII, e.QuarterIV = q[0], q[1], q[2], q[3]
}

// Validate normalizes the entry in place and reports the first problem found.
func (e *PPMEntry) Validate() error {
	e.SerialNumber = strings.TrimSpace(e.SerialNumber)
	if e.SerialNumber == "" {
		return errors.New("serial number cannot be empty")
	}

	flag, err := NormalizeFlag(e.PPM)
	if err != nil {
		return err
	}
	e.PPM = flag

	e.Equipment = fillNA(e.Equipment)
	e.Model = fillNA(e.Model)
	e.Manufacturer = fillNA(e.Manufacturer)
	e.LogNo = fillNA(e.LogNo)
	e.Department = fillNA(e.Department)

	q := e.Quarters()
	for i := range q {
		q[i].Date = fillNA(q[i].Date)
		q[i].Engineer = fillNA(q[i].Engineer)
	}
	e.SetQuarters(q)
	return nil
}

// NormalizeFlag maps any casing of yes/no onto the canonical "Yes"/"No".
func NormalizeFlag(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes":
		return "Yes", nil
	case "no":
		return "No", nil
	default:
		return "", ErrFlagValue
	}
}

func fillNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return NA
	}
	return v
}

// IsNA reports whether a field holds the absence sentinel.
func IsNA(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, NA)
}
