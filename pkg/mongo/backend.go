package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection is the subset of *mongo.Collection used by Backend.
type Collection interface {
	Find(ctx context.Context, filter any, opts ...options.Lister[options.FindOptions]) (*mongo.Cursor, error)
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...options.Lister[options.DeleteOneOptions]) (*mongo.DeleteResult, error)
}

// Record is the stored document shape.
type Record struct {
	ID        string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Backend stores one document per session id.
type Backend struct {
	coll Collection
	now  func() time.Time
}

// BackendOption configures a Backend.
type BackendOption func(*Backend)

// WithClock overrides the time source for updated_at.
func WithClock(now func() time.Time) BackendOption {
	return func(b *Backend) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBackend creates a session backend over coll.
func NewBackend(coll Collection, opts ...BackendOption) *Backend {
	b := &Backend{coll: coll, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func (b *Backend) Load(ctx context.Context, id string) ([]byte, error) {
	cur, err := b.coll.Find(ctx, byID(id), options.Find().SetLimit(1))
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer func() { _ = cur.Close(context.WithoutCancel(ctx)) }()

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("mongo find: %w", err)
		}
		return nil, nil
	}

	var rec Record
	if err := cur.Decode(&rec); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return rec.Data, nil
}

func (b *Backend) Dump(ctx context.Context, id string, data []byte) error {
	rec := Record{ID: id, Data: data, UpdatedAt: b.now().UTC()}
	if _, err := b.coll.ReplaceOne(ctx, byID(id), rec, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

func (b *Backend) Clear(ctx context.Context, id string) error {
	if _, err := b.coll.DeleteOne(ctx, byID(id)); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

// EnsureTTLIndex creates a TTL index on updated_at so the server drops
// records that have not been written for ttl.
func EnsureTTLIndex(ctx context.Context, coll *mongo.Collection, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetName("updated_at_ttl").SetExpireAfterSeconds(int32(ttl / time.Second)),
	})
	if err != nil {
		return errors.Join(ErrIndexFailed, err)
	}
	return nil
}
