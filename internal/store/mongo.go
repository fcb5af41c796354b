package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/captainminh1999/my-webspace-sub000/internal/catalog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Mongo struct {
	accessor *Accessor
}

func NewMongo(accessor *Accessor) *Mongo {
	return &Mongo{accessor: accessor}
}

func (m *Mongo) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := m.accessor.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// FindSingleton returns the singleton stored under key, or nil when none has
// been written yet.
func (m *Mongo) FindSingleton(ctx context.Context, key string) (Document, error) {
	coll, err := m.collection(ctx, catalog.SingletonsCollection)
	if err != nil {
		return nil, err
	}
	var raw bson.M
	if err := coll.FindOne(ctx, bson.M{"_id": key}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find singleton %s: %w", key, err)
	}
	return StripID(Document(raw)), nil
}

// FindAll never returns a nil slice.
func (m *Mongo) FindAll(ctx context.Context, collection string, opts FindOptions) ([]Document, error) {
	coll, err := m.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find()
	if opts.NewestFirst {
		findOpts.SetSort(bson.D{{Key: "_id", Value: -1}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(raw))
	for _, item := range raw {
		docs = append(docs, StripID(Document(item)))
	}
	return docs, nil
}

func (m *Mongo) ReplaceSingleton(ctx context.Context, key string, doc Document) error {
	coll, err := m.collection(ctx, catalog.SingletonsCollection)
	if err != nil {
		return err
	}
	stored := bson.M{}
	for k, v := range doc {
		stored[k] = v
	}
	stored["_id"] = key
	if _, err := coll.ReplaceOne(ctx, bson.M{"_id": key}, stored, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("replace singleton %s: %w", key, err)
	}
	return nil
}

func (m *Mongo) DeleteSingleton(ctx context.Context, key string) error {
	coll, err := m.collection(ctx, catalog.SingletonsCollection)
	if err != nil {
		return err
	}
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete singleton %s: %w", key, err)
	}
	return nil
}

// ReplaceCollection drops every document in collection and inserts docs.
func (m *Mongo) ReplaceCollection(ctx context.Context, collection string, docs []Document) error {
	coll, err := m.collection(ctx, collection)
	if err != nil {
		return err
	}
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	if len(docs) == 0 {
		return nil
	}
	items := make([]any, 0, len(docs))
	for _, doc := range docs {
		items = append(items, bson.M(doc))
	}
	if _, err := coll.InsertMany(ctx, items); err != nil {
		return fmt.Errorf("insert %s: %w", collection, err)
	}
	return nil
}

func (m *Mongo) InsertDeletionRecord(ctx context.Context, rec DeletionRecord) error {
	coll, err := m.collection(ctx, DeletionsCollection)
	if err != nil {
		return err
	}
	if _, err := coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert deletion record: %w", err)
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	db, err := m.accessor.Database(ctx)
	if err != nil {
		return err
	}
	return db.Client().Ping(ctx, nil)
}
