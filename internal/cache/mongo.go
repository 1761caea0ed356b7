package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "page_cache"

type mongoEntry struct {
	Key         string    `bson:"_id"`
	Status      int       `bson:"status"`
	ContentType string    `bson:"content_type"`
	Body        []byte    `bson:"body"`
	ExpiresAt   time.Time `bson:"expires_at"`
}

// MongoStore shares cached pages between processes. A TTL index removes
// expired documents; reads also filter on expires_at because the TTL
// monitor only runs periodically.
type MongoStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection(mongoCollection), now: time.Now}
}

// EnsureIndexes creates the TTL index on expires_at.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
	})
	if err != nil {
		return fmt.Errorf("create cache ttl index: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	var doc mongoEntry
	filter := bson.M{"_id": key, "expires_at": bson.M{"$gt": s.now()}}
	err := s.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &Entry{Status: doc.Status, ContentType: doc.ContentType, Body: doc.Body}, true, nil
}

func (s *MongoStore) Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error {
	doc := mongoEntry{
		Key:         key,
		Status:      entry.Status,
		ContentType: entry.ContentType,
		Body:        entry.Body,
		ExpiresAt:   s.now().Add(ttl),
	}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (s *MongoStore) Clear(ctx context.Context) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{})
	return err
}
