package models

import (
	"errors"
	"strings"
)

// MachineSlots is the number of machine training slots per employee record.
const MachineSlots = 7

// MachineTraining holds one machine assignment on a training record.
type MachineTraining struct {
	Machine string `bson:"machine" json:"machine"`
	Trainer string `bson:"trainer" json:"trainer"`
	Trained bool   `bson:"trained" json:"trained"`
}

// TrainingEntry records which machines a staff member has been trained on.
type TrainingEntry struct {
	NO         int               `bson:"no" json:"NO"` // 1-based display index, reassigned on reindex
	EmployeeID string            `bson:"employee_id" json:"ID"` // unique within the training collection
	Name       string            `bson:"name" json:"NAME"`
	Department string            `bson:"department" json:"DEPARTMENT"`
	Trainer    string            `bson:"trainer" json:"TRAINER"`
	Machines   []MachineTraining `bson:"machines" json:"machines"`
}

// Validate normalizes the entry in place and reports the first problem found.
func (e *TrainingEntry) Validate() error {
	e.EmployeeID = strings.TrimSpace(e.EmployeeID)
	if e.EmployeeID == "" {
		return errors.New("employee ID cannot be empty")
	}

	e.Name = fillNA(e.Name)
	e.Department = fillNA(e.Department)
	e.Trainer = fillNA(e.Trainer)

	if len(e.Machines) > MachineSlots {
		e.Machines = e.Machines[:MachineSlots]
	}
	for i := range e.Machines {
		e.Machines[i].Machine = fillNA(e.Machines[i].Machine)
		e.Machines[i].Trainer = fillNA(e.Machines[i].Trainer)
	}
	return nil
}

// TotalTrained counts machines the employee is marked as trained on.
func (e *TrainingEntry) TotalTrained() int {
	n := 0
	for _, m := range e.Machines {
		if m.Trained {
			n++
		}
	}
	return n
}
