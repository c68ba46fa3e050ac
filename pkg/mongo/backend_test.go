package mongo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	drv "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/dmitrymomot/plugsession/pkg/mongo"
	"github.com/dmitrymomot/plugsession/pkg/session"
	"github.com/dmitrymomot/plugsession/pkg/session/backendtest"
)

type fakeCollection struct {
	mu      sync.Mutex
	docs    map[string]mongo.Record
	upserts []bool
	err     error
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{docs: make(map[string]mongo.Record)}
}

func idOf(filter any) string {
	return filter.(bson.D)[0].Value.(string)
}

func (f *fakeCollection) Find(_ context.Context, filter any, _ ...options.Lister[options.FindOptions]) (*drv.Cursor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	docs := []any{}
	if rec, ok := f.docs[idOf(filter)]; ok {
		docs = append(docs, rec)
	}
	return drv.NewCursorFromDocuments(docs, nil, nil)
}

func (f *fakeCollection) ReplaceOne(_ context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*drv.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	var applied options.ReplaceOptions
	for _, o := range opts {
		for _, set := range o.List() {
			_ = set(&applied)
		}
	}
	f.upserts = append(f.upserts, applied.Upsert != nil && *applied.Upsert)

	raw, err := bson.Marshal(replacement)
	if err != nil {
		return nil, err
	}
	var rec mongo.Record
	if err := bson.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	f.docs[idOf(filter)] = rec
	return &drv.UpdateResult{UpsertedCount: 1}, nil
}

func (f *fakeCollection) DeleteOne(_ context.Context, filter any, _ ...options.Lister[options.DeleteOneOptions]) (*drv.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	id := idOf(filter)
	if _, ok := f.docs[id]; !ok {
		return &drv.DeleteResult{}, nil
	}
	delete(f.docs, id)
	return &drv.DeleteResult{DeletedCount: 1}, nil
}

func TestBackend_Contract(t *testing.T) {
	backendtest.Run(t, func(t *testing.T) session.Backend {
		return mongo.NewBackend(newFakeCollection())
	})
}

func TestBackend_Document(t *testing.T) {
	ctx := context.Background()
	coll := newFakeCollection()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b := mongo.NewBackend(coll, mongo.WithClock(func() time.Time { return at }))

	require.NoError(t, b.Dump(ctx, "abc", []byte("record")))

	rec := coll.docs["abc"]
	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, []byte("record"), rec.Data)
	assert.True(t, at.Equal(rec.UpdatedAt))
	assert.Equal(t, []bool{true}, coll.upserts)
}

func TestBackend_Errors(t *testing.T) {
	ctx := context.Background()
	coll := newFakeCollection()
	coll.err = errors.New("server selection timeout")
	b := mongo.NewBackend(coll)

	_, err := b.Load(ctx, "abc")
	assert.ErrorIs(t, err, coll.err)
	assert.ErrorIs(t, b.Dump(ctx, "abc", []byte("v")), coll.err)
	assert.ErrorIs(t, b.Clear(ctx, "abc"), coll.err)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context, *readpref.ReadPref) error { return p.err }

func TestHealthcheck(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, mongo.Healthcheck(pinger{})(ctx))
	assert.ErrorIs(t, mongo.Healthcheck(pinger{err: errors.New("down")})(ctx), mongo.ErrHealthcheckFailed)
}

func TestNew_EmptyURL(t *testing.T) {
	_, err := mongo.New(context.Background(), mongo.Config{})
	assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}

func TestFactory_InvalidOptions(t *testing.T) {
	reg := session.NewRegistry(nil)
	reg.Register("mongo", mongo.Factory)

	_, err := reg.Build(context.Background(), session.BackendSpec{
		Name:    "mongo",
		Options: map[string]any{"collection": "s", "nope": 1},
	})
	assert.ErrorIs(t, err, session.ErrConfiguration)

	_, err = reg.Build(context.Background(), session.BackendSpec{Name: "mongo"})
	assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)
}
