package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures the MongoDB archive backend.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string
	// Database and Collection name the archive location; both have
	// working defaults.
	Database   string
	Collection string
}

// MongoStore persists renders in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "layerviz"
	}
	if cfg.Collection == "" {
		cfg.Collection = "renders"
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

// Put records a render, replacing any document with the same ID.
func (s *MongoStore) Put(ctx context.Context, r *Render) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": r.ID}, r,
		options.Replace().SetUpsert(true))
	return err
}

// Get retrieves a render by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Render, error) {
	var r Render
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns render metadata, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]*Render, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.M{"created_at": -1}).
			SetLimit(int64(limit)).
			SetProjection(bson.M{"data": 0}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*Render
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
