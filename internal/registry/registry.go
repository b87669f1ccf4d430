// Package registry implements the mutation layer over the record store:
// add, update and delete with serial uniqueness, display index upkeep and
// schedule derivation. All mutations run load-modify-save under one lock.
package registry

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/biomeddev/equipment-maintenance/internal/dates"
	"github.com/biomeddev/equipment-maintenance/internal/db"
	"github.com/biomeddev/equipment-maintenance/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the given key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateSerial is returned when a serial already exists in the collection.
	ErrDuplicateSerial = errors.New("serial number already exists")
	// ErrDuplicateEmployee is returned when an employee ID already exists.
	ErrDuplicateEmployee = errors.New("employee ID already exists")
	// ErrSerialImmutable is returned when an update tries to change the serial.
	ErrSerialImmutable = errors.New("serial number cannot be changed")
)

// Registry coordinates access to the three record collections.
type Registry struct {
	mu    sync.Mutex
	store db.RecordStore
}

// New returns a Registry over the given store.
func New(store db.RecordStore) *Registry {
	return &Registry{store: store}
}

// loadPPM reads the quarterly collection, degrading to empty on a read
// failure so one corrupt load never takes the whole service down.
func (r *Registry) loadPPM(ctx context.Context) []models.PPMEntry {
	entries, err := r.store.LoadPPM(ctx)
	if err != nil {
		log.WithError(err).Error("loading quarterly records failed, treating as empty")
		return nil
	}
	return entries
}

func (r *Registry) loadOCM(ctx context.Context) []models.OCMEntry {
	entries, err := r.store.LoadOCM(ctx)
	if err != nil {
		log.WithError(err).Error("loading annual records failed, treating as empty")
		return nil
	}
	return entries
}

func (r *Registry) loadTraining(ctx context.Context) []models.TrainingEntry {
	entries, err := r.store.LoadTraining(ctx)
	if err != nil {
		log.WithError(err).Error("loading training records failed, treating as empty")
		return nil
	}
	return entries
}

// ListPPM returns the quarterly collection in display order.
func (r *Registry) ListPPM(ctx context.Context) []models.PPMEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadPPM(ctx)
}

// GetPPM returns the quarterly record with the given serial.
func (r *Registry) GetPPM(ctx context.Context, serial string) (models.PPMEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.loadPPM(ctx) {
		if e.SerialNumber == serial {
			return e, nil
		}
	}
	return models.PPMEntry{}, ErrNotFound
}

// AddPPM validates and appends a quarterly record. Quarter II-IV dates are
// derived from the quarter I date; stored slot dates are never trusted.
func (r *Registry) AddPPM(ctx context.Context, entry models.PPMEntry) (models.PPMEntry, error) {
	if err := entry.Validate(); err != nil {
		return models.PPMEntry{}, err
	}
	deriveQuarters(&entry)

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadPPM(ctx)
	for _, e := range entries {
		if e.SerialNumber == entry.SerialNumber {
			return models.PPMEntry{}, ErrDuplicateSerial
		}
	}
	entry.NO = len(entries) + 1
	entries = append(entries, entry)
	if err := r.store.SavePPM(ctx, entries); err != nil {
		return models.PPMEntry{}, err
	}
	return entry, nil
}

// UpdatePPM replaces the record with the given serial. The serial itself is
// immutable: an entry carrying a different one is rejected.
func (r *Registry) UpdatePPM(ctx context.Context, serial string, entry models.PPMEntry) (models.PPMEntry, error) {
	if entry.SerialNumber != "" && entry.SerialNumber != serial {
		return models.PPMEntry{}, ErrSerialImmutable
	}
	entry.SerialNumber = serial
	if err := entry.Validate(); err != nil {
		return models.PPMEntry{}, err
	}
	deriveQuarters(&entry)

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadPPM(ctx)
	for i := range entries {
		if entries[i].SerialNumber != serial {
			continue
		}
		entry.NO = entries[i].NO
		entries[i] = entry
		if err := r.store.SavePPM(ctx, entries); err != nil {
			return models.PPMEntry{}, err
		}
		return entry, nil
	}
	return models.PPMEntry{}, ErrNotFound
}

// DeletePPM removes the record with the given serial and reindexes the rest.
func (r *Registry) DeletePPM(ctx context.Context, serial string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadPPM(ctx)
	for i := range entries {
		if entries[i].SerialNumber != serial {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		reindexPPM(entries)
		return r.store.SavePPM(ctx, entries)
	}
	return ErrNotFound
}

// ReplacePPM swaps the whole quarterly collection, used by import and
// restore. Entries are validated, quarter dates derived and indexes
// reassigned before the save.
func (r *Registry) ReplacePPM(ctx context.Context, entries []models.PPMEntry) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return err
		}
		deriveQuarters(&entries[i])
	}
	reindexPPM(entries)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.SavePPM(ctx, entries)
}

// ListOCM returns the annual collection in display order.
func (r *Registry) ListOCM(ctx context.Context) []models.OCMEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadOCM(ctx)
}

// GetOCM returns the annual record with the given serial.
func (r *Registry) GetOCM(ctx context.Context, serial string) (models.OCMEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.loadOCM(ctx) {
		if e.SerialNumber == serial {
			return e, nil
		}
	}
	return models.OCMEntry{}, ErrNotFound
}

// AddOCM validates and appends an annual record, deriving the next due date
// from the last service date.
func (r *Registry) AddOCM(ctx context.Context, entry models.OCMEntry) (models.OCMEntry, error) {
	if err := entry.Validate(); err != nil {
		return models.OCMEntry{}, err
	}
	deriveNextDate(&entry)

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadOCM(ctx)
	for _, e := range entries {
		if e.SerialNumber == entry.SerialNumber {
			return models.OCMEntry{}, ErrDuplicateSerial
		}
	}
	entry.NO = len(entries) + 1
	entries = append(entries, entry)
	if err := r.store.SaveOCM(ctx, entries); err != nil {
		return models.OCMEntry{}, err
	}
	return entry, nil
}

// UpdateOCM replaces the record with the given serial, re-deriving the next
// due date. The serial itself is immutable.
func (r *Registry) UpdateOCM(ctx context.Context, serial string, entry models.OCMEntry) (models.OCMEntry, error) {
	if entry.SerialNumber != "" && entry.SerialNumber != serial {
		return models.OCMEntry{}, ErrSerialImmutable
	}
	entry.SerialNumber = serial
	if err := entry.Validate(); err != nil {
		return models.OCMEntry{}, err
	}
	deriveNextDate(&entry)

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadOCM(ctx)
	for i := range entries {
		if entries[i].SerialNumber != serial {
			continue
		}
		entry.NO = entries[i].NO
		entries[i] = entry
		if err := r.store.SaveOCM(ctx, entries); err != nil {
			return models.OCMEntry{}, err
		}
		return entry, nil
	}
	return models.OCMEntry{}, ErrNotFound
}

// DeleteOCM removes the record with the given serial and reindexes the rest.
func (r *Registry) DeleteOCM(ctx context.Context, serial string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadOCM(ctx)
	for i := range entries {
		if entries[i].SerialNumber != serial {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		reindexOCM(entries)
		return r.store.SaveOCM(ctx, entries)
	}
	return ErrNotFound
}

// ReplaceOCM swaps the whole annual collection, used by import and restore.
func (r *Registry) ReplaceOCM(ctx context.Context, entries []models.OCMEntry) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return err
		}
		deriveNextDate(&entries[i])
	}
	reindexOCM(entries)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.SaveOCM(ctx, entries)
}

// ListTraining returns the training collection in display order.
func (r *Registry) ListTraining(ctx context.Context) []models.TrainingEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadTraining(ctx)
}

// GetTraining returns the training record with the given employee ID.
func (r *Registry) GetTraining(ctx context.Context, employeeID string) (models.TrainingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.loadTraining(ctx) {
		if e.EmployeeID == employeeID {
			return e, nil
		}
	}
	return models.TrainingEntry{}, ErrNotFound
}

// AddTraining validates and appends a training record.
func (r *Registry) AddTraining(ctx context.Context, entry models.TrainingEntry) (models.TrainingEntry, error) {
	if err := entry.Validate(); err != nil {
		return models.TrainingEntry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadTraining(ctx)
	for _, e := range entries {
		if e.EmployeeID == entry.EmployeeID {
			return models.TrainingEntry{}, ErrDuplicateEmployee
		}
	}
	entry.NO = len(entries) + 1
	entries = append(entries, entry)
	if err := r.store.SaveTraining(ctx, entries); err != nil {
		return models.TrainingEntry{}, err
	}
	return entry, nil
}

// UpdateTraining replaces the record with the given employee ID.
func (r *Registry) UpdateTraining(ctx context.Context, employeeID string, entry models.TrainingEntry) (models.TrainingEntry, error) {
	if entry.EmployeeID != "" && entry.EmployeeID != employeeID {
		return models.TrainingEntry{}, ErrSerialImmutable
	}
	entry.EmployeeID = employeeID
	if err := entry.Validate(); err != nil {
		return models.TrainingEntry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadTraining(ctx)
	for i := range entries {
		if entries[i].EmployeeID != employeeID {
			continue
		}
		entry.NO = entries[i].NO
		entries[i] = entry
		if err := r.store.SaveTraining(ctx, entries); err != nil {
			return models.TrainingEntry{}, err
		}
		return entry, nil
	}
	return models.TrainingEntry{}, ErrNotFound
}

// DeleteTraining removes the record with the given employee ID and reindexes
// the rest.
func (r *Registry) DeleteTraining(ctx context.Context, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.loadTraining(ctx)
	for i := range entries {
		if entries[i].EmployeeID != employeeID {
			continue
		}
		entries = append(entries[:i], entries[i+1:]...)
		reindexTraining(entries)
		return r.store.SaveTraining(ctx, entries)
	}
	return ErrNotFound
}

// ReplaceTraining swaps the whole training collection, used by restore.
func (r *Registry) ReplaceTraining(ctx context.Context, entries []models.TrainingEntry) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return err
		}
	}
	reindexTraining(entries)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.SaveTraining(ctx, entries)
}

// deriveQuarters rewrites the quarter II-IV dates from the quarter I date.
// An absent or bad quarter I date leaves the slots as entered; the
// classifier reports those records on its own.
func deriveQuarters(e *models.PPMEntry) {
	derived, err := dates.QuarterDateStrings(e.QuarterI.Date)
	if err != nil {
		return
	}
	if q1, perr := dates.Parse(e.QuarterI.Date); perr == nil {
		e.QuarterI.Date = dates.Format(q1)
	}
	e.QuarterII.Date = derived[0]
	e.QuarterIII.Date = derived[1]
	e.QuarterIV.Date = derived[2]
}

// deriveNextDate fills the next due date as last service + 365 days when it
// is absent or unparsable. A valid next date supplied by the caller is kept,
// normalized to the canonical layout. An unparsable last date leaves the
// record as entered.
func deriveNextDate(e *models.OCMEntry) {
	last, err := dates.Parse(e.LastDate)
	if err != nil {
		log.Warnf("cannot derive next date for %s: bad last date %q", e.SerialNumber, e.LastDate)
		return
	}
	e.LastDate = dates.Format(last)

	if next, nerr := dates.Parse(e.NextDate); nerr == nil {
		e.NextDate = dates.Format(next)
		return
	}
	e.NextDate = dates.Format(dates.NextDue(last))
}

func reindexPPM(entries []models.PPMEntry) {
	for i := range entries {
		entries[i].NO = i + 1
	}
}

func reindexOCM(entries []models.OCMEntry) {
	for i := range entries {
		entries[i].NO = i + 1
	}
}

func reindexTraining(entries []models.TrainingEntry) {
	for i := range entries {
		entries[i].NO = i + 1
	}
}
