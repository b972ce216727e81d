package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/brainlift/pkg/dok"
)

// MongoStore persists BrainLifts in a MongoDB collection.
// Documents use the BrainLift id as Mongo's _id, so upserts are a single
// ReplaceOne and lookups hit the primary index.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database name. Defaults to "brainlift".
	Database string

	// Collection is the collection name. Defaults to "brainlifts".
	Collection string
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "brainlift"
	}
	if cfg.Collection == "" {
		cfg.Collection = "brainlifts"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save upserts a BrainLift.
func (s *MongoStore) Save(ctx context.Context, bl *dok.BrainLift) error {
	now := time.Now().UTC()

	var existing dok.BrainLift
	err := s.coll.FindOne(ctx, bson.M{"_id": bl.ID}).Decode(&existing)
	switch {
	case err == nil:
		bl.CreatedAt = existing.CreatedAt
	case errors.Is(err, mongo.ErrNoDocuments):
		if bl.CreatedAt.IsZero() {
			bl.CreatedAt = now
		}
	default:
		return err
	}
	bl.UpdatedAt = now

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": bl.ID}, bl, options.Replace().SetUpsert(true))
	return err
}

// Get retrieves a BrainLift by id.
func (s *MongoStore) Get(ctx context.Context, id string) (*dok.BrainLift, error) {
	var bl dok.BrainLift
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&bl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bl, nil
}

// List returns summaries sorted newest first.
func (s *MongoStore) List(ctx context.Context) ([]dok.Summary, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "name": 1, "created_at": 1}).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var summaries []dok.Summary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// SaveAnalysis attaches an analysis to a stored BrainLift.
func (s *MongoStore) SaveAnalysis(ctx context.Context, id string, analysis dok.Analysis) error {
	update := bson.M{"$set": bson.M{
		"connections": analysis,
		"updated_at":  time.Now().UTC(),
	}}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a BrainLift.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
