package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds connection settings for the MongoDB backend.
type MongoConfig struct {
	// URI is the MongoDB connection string (mongodb://...).
	URI string

	// Database is the database name. Defaults to "relaymap".
	Database string

	// Collection is the collection name. Defaults to "graphs".
	Collection string
}

// MongoStore persists documents in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := cfg.Database
	if db == "" {
		db = "relaymap"
	}
	coll := cfg.Collection
	if coll == "" {
		coll = "graphs"
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(db).Collection(coll),
	}, nil
}

// Put stores a document, replacing any existing one with the same hash.
func (s *MongoStore) Put(ctx context.Context, doc Document) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.Hash}, doc, opts)
	if err != nil {
		return fmt.Errorf("store graph %s: %w", doc.Hash, err)
	}
	return nil
}

// Get retrieves a document by hash.
func (s *MongoStore) Get(ctx context.Context, hash string) (*Document, error) {
	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"_id": hash}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", hash, err)
	}
	return &doc, nil
}

// List returns the most recent documents, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode graphs: %w", err)
	}
	return docs, nil
}

// Delete removes a document by hash.
func (s *MongoStore) Delete(ctx context.Context, hash string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": hash}); err != nil {
		return fmt.Errorf("delete graph %s: %w", hash, err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
