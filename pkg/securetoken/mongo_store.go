package securetoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// mongoRecord is the BSON shape of a token record.
type mongoRecord struct {
	Digest     string     `bson:"digest"`
	Kind       string     `bson:"kind"`
	Subject    string     `bson:"subject"`
	IssuedAt   time.Time  `bson:"issued_at"`
	ExpiresAt  time.Time  `bson:"expires_at"`
	ConsumedAt *time.Time `bson:"consumed_at,omitempty"`
}

// MongoStore implements Store on a MongoDB collection. Consumption
// atomicity comes from a single findOneAndUpdate with the unconsumed,
// unexpired state as filter.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a token store backed by the given collection.
// A TTL index on expires_at (with a retention offset) is recommended for
// garbage collection but not required for correctness.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Save(ctx context.Context, rec Record) error {
	doc := mongoRecord{
		Digest:     rec.Digest,
		Kind:       string(rec.Kind),
		Subject:    rec.Subject,
		IssuedAt:   rec.IssuedAt,
		ExpiresAt:  rec.ExpiresAt,
		ConsumedAt: rec.ConsumedAt,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to save token record: %w", err)
	}
	return nil
}

func (s *MongoStore) Find(ctx context.Context, kind Kind, digest string) (Record, error) {
	filter := bson.D{
		{Key: "kind", Value: string(kind)},
		{Key: "digest", Value: digest},
	}

	var doc mongoRecord
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrTokenNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load token record: %w", err)
	}

	return doc.record(), nil
}

func (s *MongoStore) Consume(ctx context.Context, kind Kind, digest string, at time.Time) (Record, error) {
	filter := bson.D{
		{Key: "kind", Value: string(kind)},
		{Key: "digest", Value: digest},
		{Key: "consumed_at", Value: nil},
		{Key: "expires_at", Value: bson.D{{Key: "$gt", Value: at}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "consumed_at", Value: at}}}}

	var doc mongoRecord
	err := s.coll.FindOneAndUpdate(ctx, filter, update).Decode(&doc)
	if err == nil {
		rec := doc.record()
		consumedAt := at
		rec.ConsumedAt = &consumedAt
		return rec, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, fmt.Errorf("failed to consume token: %w", err)
	}

	// Nothing matched the consumable filter: re-read to classify.
	existing, ferr := s.Find(ctx, kind, digest)
	if ferr != nil {
		return Record{}, ferr
	}
	if !at.Before(existing.ExpiresAt) {
		return Record{}, ErrTokenExpired
	}
	return Record{}, ErrTokenAlreadyUsed
}

func (d mongoRecord) record() Record {
	return Record{
		Digest:     d.Digest,
		Kind:       Kind(d.Kind),
		Subject:    d.Subject,
		IssuedAt:   d.IssuedAt,
		ExpiresAt:  d.ExpiresAt,
		ConsumedAt: d.ConsumedAt,
	}
}
