package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// cursor is the subset of *mongo.Cursor the adapter reads with.
type cursor interface {
	Next(ctx context.Context) bool
	Decode(val any) error
	Err() error
	Close(ctx context.Context) error
}

// collection is the per-kind storage the adapter writes to. The production
// implementation wraps *mongo.Collection; tests use an in-memory one.
type collection interface {
	// InsertMany stores docs and returns how many were inserted. With
	// ignoreDuplicates the insert is unordered and duplicate-key rejections
	// are not errors.
	InsertMany(ctx context.Context, docs []any, ignoreDuplicates bool) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
	FindAll(ctx context.Context) (cursor, error)
	// FindValues returns the values at path that match any of values.
	FindValues(ctx context.Context, path string, values []any) ([]any, error)
	EnsureUniqueIndex(ctx context.Context, path string) error
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c mongoCollection) InsertMany(ctx context.Context, docs []any, ignoreDuplicates bool) (int, error) {
	opts := options.InsertMany().SetOrdered(!ignoreDuplicates)
	_, err := c.coll.InsertMany(ctx, docs, opts)
	if err == nil {
		return len(docs), nil
	}
	if ignoreDuplicates {
		if rejected, ok := duplicatesOnly(err); ok {
			return len(docs) - rejected, nil
		}
	}
	return 0, err
}

// duplicatesOnly reports how many writes failed when every failure in err is
// a duplicate-key rejection.
func duplicatesOnly(err error) (int, bool) {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return 0, false
	}
	for _, we := range bwe.WriteErrors {
		if !isDuplicateCode(we.Code) {
			return 0, false
		}
	}
	return len(bwe.WriteErrors), true
}

func isDuplicateCode(code int) bool {
	return code == 11000 || code == 11001 || code == 12582
}

func (c mongoCollection) DeleteAll(ctx context.Context) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c mongoCollection) FindAll(ctx context.Context) (cursor, error) {
	return c.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (c mongoCollection) FindValues(ctx context.Context, path string, values []any) ([]any, error) {
	filter := bson.D{{Key: path, Value: bson.D{{Key: "$in", Value: values}}}}
	projection := bson.D{{Key: path, Value: 1}, {Key: "_id", Value: 0}}
	cur, err := c.coll.Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var found []any
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		if v, ok := lookupPath(normalizeDocument(doc), path); ok {
			found = append(found, v)
		}
	}
	return found, cur.Err()
}

func (c mongoCollection) EnsureUniqueIndex(ctx context.Context, path string) error {
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: path, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
