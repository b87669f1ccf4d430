// Command importer bulk-loads CSV flat files into the record store, for
// initial seeding and for migrating data exported from the legacy tracker.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/biomeddev/equipment-maintenance/internal/config"
	"github.com/biomeddev/equipment-maintenance/internal/db"
	"github.com/biomeddev/equipment-maintenance/internal/importexport"
	"github.com/biomeddev/equipment-maintenance/internal/registry"
)

func main() {
	ppmPath := flag.String("ppm", "", "path to a quarterly schedule CSV")
	ocmPath := flag.String("ocm", "", "path to an annual schedule CSV")
	trainingPath := flag.String("training", "", "path to a training records CSV")
	flag.Parse()

	if *ppmPath == "" && *ocmPath == "" && *trainingPath == "" {
		log.Fatal("nothing to import: pass -ppm, -ocm or -training")
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("no .env file loaded")
	}
	cfg := config.Load()

	client, err := db.ConnectMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	ctx := context.Background()
	defer client.Disconnect(ctx)

	store := db.NewMongoRecordStore(client.Database(cfg.MongoDB))
	reg := registry.New(store)

	type job struct {
		name string
		path string
		run  func(*os.File) (importexport.ImportResult, error)
	}
	jobs := []job{
		{"quarterly", *ppmPath, func(f *os.File) (importexport.ImportResult, error) {
			return importexport.ImportPPM(ctx, reg, f)
		}},
		{"annual", *ocmPath, func(f *os.File) (importexport.ImportResult, error) {
			return importexport.ImportOCM(ctx, reg, f)
		}},
		{"training", *trainingPath, func(f *os.File) (importexport.ImportResult, error) {
			return importexport.ImportTraining(ctx, reg, f)
		}},
	}

	for _, j := range jobs {
		if j.path == "" {
			continue
		}
		f, err := os.Open(j.path)
		if err != nil {
			log.Fatalf("opening %s file: %v", j.name, err)
		}
		res, err := j.run(f)
		f.Close()
		if err != nil {
			log.Fatalf("importing %s records: %v", j.name, err)
		}
		log.Infof("%s: %d added, %d updated, %d skipped", j.name, res.Added, res.Updated, res.Skipped)
		for _, e := range res.Errors {
			log.Warnf("%s: %s", j.name, e)
		}
	}
}
