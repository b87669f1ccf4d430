// Package importexport moves record collections in and out of the system
// as CSV flat files and ZIP backups.
package importexport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/biomeddev/equipment-maintenance/internal/models"
	"github.com/biomeddev/equipment-maintenance/internal/registry"
)

// Flat file column sets. Order is part of the format: exported files are
// re-importable and diffs stay stable across runs.
var (
	ppmHeader = []string{
		"NO", "EQUIPMENT", "MODEL", "MFG_SERIAL", "MANUFACTURER", "LOG_NO", "DEPARTMENT", "PPM",
		"PPM_Q_I", "Q1_ENGINEER", "PPM_Q_II", "Q2_ENGINEER", "PPM_Q_III", "Q3_ENGINEER", "PPM_Q_IV", "Q4_ENGINEER",
		"INSTALLATION_DATE", "WARRANTY_END",
	}
	ocmHeader = []string{
		"NO", "EQUIPMENT", "MODEL", "MFG_SERIAL", "MANUFACTURER", "LOG_NO", "DEPARTMENT", "OCM",
		"Last_Date", "Next_Date", "ENGINEER", "INSTALLATION_DATE", "WARRANTY_END",
	}
	trainingHeader = buildTrainingHeader()
)

func buildTrainingHeader() []string {
	h := []string{"NO", "ID", "NAME", "DEPARTMENT", "TRAINER"}
	for i := 1; i <= models.MachineSlots; i++ {
		h = append(h,
			fmt.Sprintf("MACHINE_%d", i),
			fmt.Sprintf("MACHINE_%d_TRAINER", i),
			fmt.Sprintf("MACHINE_%d_TRAINED", i),
		)
	}
	return h
}

// ImportResult summarizes one CSV import run.
type ImportResult struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// columns maps header names to indexes, case-insensitively.
type columns map[string]int

func readHeader(r *csv.Reader) (columns, error) {
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}
	cols := make(columns, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return cols, nil
}

func (c columns) get(row []string, name string) string {
	i, ok := c[strings.ToUpper(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ImportPPM merges a quarterly CSV into the registry. A row whose serial
// already exists replaces the stored record; new serials append. Rows that
// fail validation are skipped and reported, never aborting the rest.
func ImportPPM(ctx context.Context, reg *registry.Registry, src io.Reader) (ImportResult, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	cols, err := readHeader(r)
	if err != nil {
		return ImportResult{}, err
	}

	existing := reg.ListPPM(ctx)
	index := make(map[string]int, len(existing))
	for i, e := range existing {
		index[e.SerialNumber] = i
	}

	var res ImportResult
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		entry := models.PPMEntry{
			Equipment:        cols.get(row, "EQUIPMENT"),
			Model:            cols.get(row, "MODEL"),
			SerialNumber:     cols.get(row, "MFG_SERIAL"),
			Manufacturer:     cols.get(row, "MANUFACTURER"),
			LogNo:            cols.get(row, "LOG_NO"),
			Department:       cols.get(row, "DEPARTMENT"),
			PPM:              cols.get(row, "PPM"),
			QuarterI:         models.QuarterTask{Date: cols.get(row, "PPM_Q_I"), Engineer: cols.get(row, "Q1_ENGINEER")},
			QuarterII:        models.QuarterTask{Engineer: cols.get(row, "Q2_ENGINEER")},
			QuarterIII:       models.QuarterTask{Engineer: cols.get(row, "Q3_ENGINEER")},
			QuarterIV:        models.QuarterTask{Engineer: cols.get(row, "Q4_ENGINEER")},
			InstallationDate: cols.get(row, "INSTALLATION_DATE"),
			WarrantyEnd:      cols.get(row, "WARRANTY_END"),
		}
		if err := entry.Validate(); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if i, found := index[entry.SerialNumber]; found {
			existing[i] = entry
			res.Updated++
		} else {
			index[entry.SerialNumber] = len(existing)
			existing = append(existing, entry)
			res.Added++
		}
	}

	if err := reg.ReplacePPM(ctx, existing); err != nil {
		return res, fmt.Errorf("saving imported records: %w", err)
	}
	log.Infof("quarterly import: %d added, %d updated, %d skipped", res.Added, res.Updated, res.Skipped)
	return res, nil
}

// ImportOCM merges an annual CSV into the registry with the same
// replace-on-duplicate semantics as ImportPPM.
func ImportOCM(ctx context.Context, reg *registry.Registry, src io.Reader) (ImportResult, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	cols, err := readHeader(r)
	if err != nil {
		return ImportResult{}, err
	}

	existing := reg.ListOCM(ctx)
	index := make(map[string]int, len(existing))
	for i, e := range existing {
		index[e.SerialNumber] = i
	}

	var res ImportResult
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		entry := models.OCMEntry{
			Equipment:        cols.get(row, "EQUIPMENT"),
			Model:            cols.get(row, "MODEL"),
			SerialNumber:     cols.get(row, "MFG_SERIAL"),
			Manufacturer:     cols.get(row, "MANUFACTURER"),
			LogNo:            cols.get(row, "LOG_NO"),
			Department:       cols.get(row, "DEPARTMENT"),
			OCM:              cols.get(row, "OCM"),
			LastDate:         cols.get(row, "Last_Date"),
			NextDate:         cols.get(row, "Next_Date"),
			Engineer:         cols.get(row, "ENGINEER"),
			InstallationDate: cols.get(row, "INSTALLATION_DATE"),
			WarrantyEnd:      cols.get(row, "WARRANTY_END"),
		}
		if err := entry.Validate(); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if i, found := index[entry.SerialNumber]; found {
			existing[i] = entry
			res.Updated++
		} else {
			index[entry.SerialNumber] = len(existing)
			existing = append(existing, entry)
			res.Added++
		}
	}

	if err := reg.ReplaceOCM(ctx, existing); err != nil {
		return res, fmt.Errorf("saving imported records: %w", err)
	}
	log.Infof("annual import: %d added, %d updated, %d skipped", res.Added, res.Updated, res.Skipped)
	return res, nil
}

// ImportTraining merges a training CSV into the registry, keyed on
// employee ID.
func ImportTraining(ctx context.Context, reg *registry.Registry, src io.Reader) (ImportResult, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1

	cols, err := readHeader(r)
	if err != nil {
		return ImportResult{}, err
	}

	existing := reg.ListTraining(ctx)
	index := make(map[string]int, len(existing))
	for i, e := range existing {
		index[e.EmployeeID] = i
	}

	var res ImportResult
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		entry := models.TrainingEntry{
			EmployeeID: cols.get(row, "ID"),
			Name:       cols.get(row, "NAME"),
			Department: cols.get(row, "DEPARTMENT"),
			Trainer:    cols.get(row, "TRAINER"),
		}
		for i := 1; i <= models.MachineSlots; i++ {
			machine := cols.get(row, fmt.Sprintf("MACHINE_%d", i))
			if machine == "" {
				continue
			}
			trained, _ := strconv.ParseBool(cols.get(row, fmt.Sprintf("MACHINE_%d_TRAINED", i)))
			entry.Machines = append(entry.Machines, models.MachineTraining{
				Machine: machine,
				Trainer: cols.get(row, fmt.Sprintf("MACHINE_%d_TRAINER", i)),
				Trained: trained,
			})
		}
		if err := entry.Validate(); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		if i, found := index[entry.EmployeeID]; found {
			existing[i] = entry
			res.Updated++
		} else {
			index[entry.EmployeeID] = len(existing)
			existing = append(existing, entry)
			res.Added++
		}
	}

	if err := reg.ReplaceTraining(ctx, existing); err != nil {
		return res, fmt.Errorf("saving imported records: %w", err)
	}
	log.Infof("training import: %d added, %d updated, %d skipped", res.Added, res.Updated, res.Skipped)
	return res, nil
}

// ExportPPM writes the quarterly collection as CSV.
func ExportPPM(w io.Writer, entries []models.PPMEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ppmHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.NO), e.Equipment, e.Model, e.SerialNumber, e.Manufacturer, e.LogNo, e.Department, e.PPM,
			e.QuarterI.Date, e.QuarterI.Engineer,
			e.QuarterII.Date, e.QuarterII.Engineer,
			e.QuarterIII.Date, e.QuarterIII.Engineer,
			e.QuarterIV.Date, e.QuarterIV.Engineer,
			e.InstallationDate, e.WarrantyEnd,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportOCM writes the annual collection as CSV.
func ExportOCM(w io.Writer, entries []models.OCMEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ocmHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.NO), e.Equipment, e.Model, e.SerialNumber, e.Manufacturer, e.LogNo, e.Department, e.OCM,
			e.LastDate, e.NextDate, e.Engineer, e.InstallationDate, e.WarrantyEnd,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportTraining writes the training collection as CSV with one column
// triple per machine slot.
func ExportTraining(w io.Writer, entries []models.TrainingEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trainingHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{strconv.Itoa(e.NO), e.EmployeeID, e.Name, e.Department, e.Trainer}
		for i := 0; i < models.MachineSlots; i++ {
			if i < len(e.Machines) {
				m := e.Machines[i]
				row = append(row, m.Machine, m.Trainer, strconv.FormatBool(m.Trained))
			} else {
				row = append(row, "", "", "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
