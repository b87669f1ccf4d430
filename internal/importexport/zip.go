package importexport

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/biomeddev/equipment-maintenance/internal/models"
	"github.com/biomeddev/equipment-maintenance/internal/registry"
)

// Backup archive member names. Restore matches on these exactly.
const (
	backupPPMFile      = "ppm.json"
	backupOCMFile      = "ocm.json"
	backupTrainingFile = "training.json"
)

// Backup writes all three collections into one ZIP archive as JSON, the
// lossless companion to the CSV exports.
func Backup(ctx context.Context, reg *registry.Registry, w io.Writer) error {
	zw := zip.NewWriter(w)

	members := []struct {
		name string
		data interface{}
	}{
		{backupPPMFile, reg.ListPPM(ctx)},
		{backupOCMFile, reg.ListOCM(ctx)},
		{backupTrainingFile, reg.ListTraining(ctx)},
	}
	for _, m := range members {
		f, err := zw.Create(m.name)
		if err != nil {
			return fmt.Errorf("creating %s in archive: %w", m.name, err)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m.data); err != nil {
			return fmt.Errorf("encoding %s: %w", m.name, err)
		}
	}
	return zw.Close()
}

// Restore replaces all three collections from a Backup archive. Each
// collection present in the archive is swapped whole; missing members are
// left untouched.
func Restore(ctx context.Context, reg *registry.Registry, src io.ReaderAt, size int64) error {
	zr, err := zip.NewReader(src, size)
	if err != nil {
		return fmt.Errorf("opening backup archive: %w", err)
	}

	restored := 0
	for _, f := range zr.File {
		switch f.Name {
		case backupPPMFile:
			var entries []models.PPMEntry
			if err := decodeMember(f, &entries); err != nil {
				return err
			}
			if err := reg.ReplacePPM(ctx, entries); err != nil {
				return fmt.Errorf("restoring quarterly records: %w", err)
			}
			restored++
		case backupOCMFile:
			var entries []models.OCMEntry
			if err := decodeMember(f, &entries); err != nil {
				return err
			}
			if err := reg.ReplaceOCM(ctx, entries); err != nil {
				return fmt.Errorf("restoring annual records: %w", err)
			}
			restored++
		case backupTrainingFile:
			var entries []models.TrainingEntry
			if err := decodeMember(f, &entries); err != nil {
				return err
			}
			if err := reg.ReplaceTraining(ctx, entries); err != nil {
				return fmt.Errorf("restoring training records: %w", err)
			}
			restored++
		default:
			log.Warnf("ignoring unknown backup member %q", f.Name)
		}
	}
	if restored == 0 {
		return fmt.Errorf("backup archive contains no known collections")
	}
	log.Infof("restored %d collections from backup", restored)
	return nil
}

func decodeMember(f *zip.File, out interface{}) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return fmt.Errorf("reading %s: %w", f.Name, err)
	}
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("decoding %s: %w", f.Name, err)
	}
	return nil
}
