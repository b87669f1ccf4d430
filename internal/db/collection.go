package db

import (
	"context"

	"github.com/biomeddev/equipment-maintenance/internal/models"
)

// RecordStore defines the interface for maintenance record persistence.
// Each collection is loaded and saved whole; the registry layer owns
// mutation and ordering.
type RecordStore interface {
	LoadPPM(ctx context.Context) ([]models.PPMEntry, error)
	SavePPM(ctx context.Context, entries []models.PPMEntry) error
	LoadOCM(ctx context.Context) ([]models.OCMEntry, error)
	SaveOCM(ctx context.Context, entries []models.OCMEntry) error
	LoadTraining(ctx context.Context) ([]models.TrainingEntry, error)
	SaveTraining(ctx context.Context, entries []models.TrainingEntry) error
}
