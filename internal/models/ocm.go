package models

import (
	"errors"
	"strings"
)

// OCMEntry represents a piece of equipment on the annual corrective
// maintenance schedule.
type OCMEntry struct {
	NO               int    `bson:"no" json:"NO"` // 1-based display index, reassigned on reindex
	Equipment        string `bson:"equipment" json:"EQUIPMENT"`
	Model            string `bson:"model" json:"MODEL"`
	SerialNumber     string `bson:"serial_number" json:"MFG_SERIAL"` // unique within the OCM collection
	Manufacturer     string `bson:"manufacturer" json:"MANUFACTURER"`
	LogNo            string `bson:"log_no" json:"LOG_NO"`
	Department       string `bson:"department" json:"DEPARTMENT"`
	OCM              string `bson:"ocm" json:"OCM"`             // "Yes" or "No"
	LastDate         string `bson:"last_date" json:"Last_Date"` // last service, DD/MM/YYYY
	NextDate         string `bson:"next_date" json:"Next_Date"` // next due, derived as LastDate + 365 days when absent
	Engineer         string `bson:"engineer" json:"ENGINEER"`
	InstallationDate string `bson:"installation_date,omitempty" json:"installation_date,omitempty"`
	WarrantyEnd      string `bson:"warranty_end,omitempty" json:"warranty_end,omitempty"`
	StatusOverride   string `bson:"status_override,omitempty" json:"status_override,omitempty"`
}

// Validate normalizes the entry in place and reports the first problem found.
// NextDate derivation happens at the registry layer, which owns date logic.
func (e *OCMEntry) Validate() error {
	e.SerialNumber = strings.TrimSpace(e.SerialNumber)
	if e.SerialNumber == "" {
		return errors.New("serial number cannot be empty")
	}

	flag, err := NormalizeFlag(e.OCM)
	if err != nil {
		return err
	}
	e.OCM = flag

	if IsNA(e.LastDate) {
		return errors.New("last service date cannot be empty")
	}
	e.LastDate = strings.TrimSpace(e.LastDate)

	e.Equipment = fillNA(e.Equipment)
	e.Model = fillNA(e.Model)
	e.Manufacturer = fillNA(e.Manufacturer)
	e.LogNo = fillNA(e.LogNo)
	e.Department = fillNA(e.Department)
	e.Engineer = fillNA(e.Engineer)
	e.NextDate = fillNA(e.NextDate)
	return nil
}
