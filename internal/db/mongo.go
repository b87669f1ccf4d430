package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/biomeddev/equipment-maintenance/internal/models"
)

// ConnectMongo connects to MongoDB using the MONGO_URI environment variable.
func ConnectMongo() (*mongo.Client, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.NewClient error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// MongoRecordStore implements RecordStore against three MongoDB collections.
type MongoRecordStore struct {
	PPM      *mongo.Collection
	OCM      *mongo.Collection
	Training *mongo.Collection
}

// NewMongoRecordStore wires the store to its collections within a database.
func NewMongoRecordStore(database *mongo.Database) *MongoRecordStore {
	return &MongoRecordStore{
		PPM:      database.Collection("ppm"),
		OCM:      database.Collection("ocm"),
		Training: database.Collection("training"),
	}
}

// LoadPPM reads the whole quarterly collection in stored order.
func (s *MongoRecordStore) LoadPPM(ctx context.Context) ([]models.PPMEntry, error) {
	var entries []models.PPMEntry
	if err := loadAll(ctx, s.PPM, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SavePPM replaces the whole quarterly collection.
func (s *MongoRecordStore) SavePPM(ctx context.Context, entries []models.PPMEntry) error {
	docs := make([]interface{}, len(entries))
	for i := range entries {
		docs[i] = entries[i]
	}
	return replaceAll(ctx, s.PPM, docs)
}

// LoadOCM reads the whole annual collection in stored order.
func (s *MongoRecordStore) LoadOCM(ctx context.Context) ([]models.OCMEntry, error) {
	var entries []models.OCMEntry
	if err := loadAll(ctx, s.OCM, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveOCM replaces the whole annual collection.
func (s *MongoRecordStore) SaveOCM(ctx context.Context, entries []models.OCMEntry) error {
	docs := make([]interface{}, len(entries))
	for i := range entries {
		docs[i] = entries[i]
	}
	return replaceAll(ctx, s.OCM, docs)
}

// LoadTraining reads the whole training collection in stored order.
func (s *MongoRecordStore) LoadTraining(ctx context.Context) ([]models.TrainingEntry, error) {
	var entries []models.TrainingEntry
	if err := loadAll(ctx, s.Training, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveTraining replaces the whole training collection.
func (s *MongoRecordStore) SaveTraining(ctx context.Context, entries []models.TrainingEntry) error {
	docs := make([]interface{}, len(entries))
	for i := range entries {
		docs[i] = entries[i]
	}
	return replaceAll(ctx, s.Training, docs)
}

func loadAll(ctx context.Context, coll *mongo.Collection, out interface{}) error {
	if coll == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "no", Value: 1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

// replaceAll swaps the collection contents for docs. Ordered inserts keep
// the stored order aligned with the display index.
func replaceAll(ctx context.Context, coll *mongo.Collection, docs []interface{}) error {
	if coll == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	return err
}
