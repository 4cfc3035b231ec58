package catalog

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// CollectionExercises holds one document per exercise.
const CollectionExercises = "exercises"

// MongoStore serves the document variant from a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// ConnectMongo dials uri and returns a store bound to database.exercises.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, errors.Wrap(err, "connect to MongoDB")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping MongoDB")
	}
	return &MongoStore{client: client, collection: client.Database(database).Collection(CollectionExercises)}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Load implements domain.Source.
func (s *MongoStore) Load(ctx context.Context) ([]domain.ExerciseRecord, error) {
	return s.find(ctx, bson.M{})
}

// Matching implements domain.MatchingSource.
func (s *MongoStore) Matching(ctx context.Context, equipment domain.EquipmentType, muscle string) ([]domain.ExerciseRecord, error) {
	return s.find(ctx, matchFilter(equipment, muscle))
}

// Count implements domain.MatchingSource.
func (s *MongoStore) Count(ctx context.Context) (int, error) {
	n, err := s.collection.CountDocuments(ctx, bson.M{})
	return int(n), errors.Wrap(err, "count exercises")
}

// Upsert implements domain.Writer.
func (s *MongoStore) Upsert(ctx context.Context, record domain.ExerciseRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	_, err := s.collection.ReplaceOne(ctx, identityFilter(record.Name, record.Equipment), toDocument(record), options.Replace().SetUpsert(true))
	return errors.Wrapf(err, "upsert %q", record.Name)
}

// Delete implements domain.Writer.
func (s *MongoStore) Delete(ctx context.Context, name string, equipment domain.EquipmentType) error {
	_, err := s.collection.DeleteOne(ctx, identityFilter(name, equipment))
	return errors.Wrapf(err, "delete %q", name)
}

func (s *MongoStore) find(ctx context.Context, filter bson.M) ([]domain.ExerciseRecord, error) {
	cursor, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find exercises")
	}
	defer cursor.Close(ctx)

	records := make([]domain.ExerciseRecord, 0)
	for cursor.Next(ctx) {
		var doc document
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decode exercise")
		}
		rec := doc.record()
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate exercises")
	}
	return records, nil
}

func matchFilter(equipment domain.EquipmentType, muscle string) bson.M {
	return bson.M{
		"equipment_type":            string(equipment),
		"targeting.specific_muscle": muscle,
	}
}

func identityFilter(name string, equipment domain.EquipmentType) bson.M {
	return bson.M{
		"exercise_name":  name,
		"equipment_type": string(equipment),
	}
}
