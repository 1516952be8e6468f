// Package dao holds the repository layer: one Store per Mongo collection.
package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("dao: document not found")
	ErrDuplicate = errors.New("dao: duplicate key")
)

// Store is the set of operations services need over one collection.
// Reads return documents newest first.
type Store[T any] interface {
	Find(ctx context.Context, filter bson.M) ([]T, error)
	FindOne(ctx context.Context, filter bson.M) (*T, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Create(ctx context.Context, doc *T) error
	UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*T, error)
	// Upsert sets fields on the document matching filter, inserting one
	// built from filter and fields when none matches.
	Upsert(ctx context.Context, filter, fields bson.M) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, filter bson.M) error
}

// Lookup populates the document referenced by LocalField into As.
type Lookup struct {
	From       string
	LocalField string
	As         string
}

// Collection implements Store over a Mongo collection.
type Collection[T any] struct {
	coll    *mongo.Collection
	lookups []Lookup
	now     func() time.Time
}

func NewCollection[T any](db *mongo.Database, name string, lookups ...Lookup) *Collection[T] {
	return &Collection[T]{coll: db.Collection(name), lookups: lookups, now: time.Now}
}

func (c *Collection[T]) pipeline(filter bson.M, limit int64) mongo.Pipeline {
	if filter == nil {
		filter = bson.M{}
	}
	p := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	if limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: limit}})
	}
	for _, l := range c.lookups {
		p = append(p,
			bson.D{{Key: "$lookup", Value: bson.D{
				{Key: "from", Value: l.From},
				{Key: "localField", Value: l.LocalField},
				{Key: "foreignField", Value: "_id"},
				{Key: "as", Value: l.As},
			}}},
			bson.D{{Key: "$unwind", Value: bson.D{
				{Key: "path", Value: "$" + l.As},
				{Key: "preserveNullAndEmptyArrays", Value: true},
			}}},
			bson.D{{Key: "$project", Value: bson.D{{Key: l.As + ".password", Value: 0}}}},
		)
	}
	return p
}

func (c *Collection[T]) Find(ctx context.Context, filter bson.M) ([]T, error) {
	cursor, err := c.coll.Aggregate(ctx, c.pipeline(filter, 0))
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return docs, nil
}

func (c *Collection[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	cursor, err := c.coll.Aggregate(ctx, c.pipeline(filter, 1))
	if err != nil {
		return nil, fmt.Errorf("find one in %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	var doc T
	if err := cursor.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return &doc, nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

func (c *Collection[T]) Create(ctx context.Context, doc *T) error {
	_, err := c.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// UpdateByID applies fields with $set and returns the stored document.
func (c *Collection[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*T, error) {
	set := bson.M{"updatedAt": c.now()}
	for k, v := range fields {
		set[k] = v
	}
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", c.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return c.FindByID(ctx, id)
}

func (c *Collection[T]) Upsert(ctx context.Context, filter, fields bson.M) error {
	now := c.now()
	set := bson.M{"updatedAt": now}
	for k, v := range fields {
		set[k] = v
	}
	update := bson.M{"$set": set, "$setOnInsert": bson.M{"createdAt": now}}
	if _, ok := fields["createdAt"]; ok {
		delete(update, "$setOnInsert")
	}
	opts := options.Update().SetUpsert(true)
	_, err := c.coll.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// Two upserts raced on a unique index; the loser now matches.
		_, err = c.coll.UpdateOne(ctx, filter, update, opts)
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("upsert %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *Collection[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", c.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Collection[T]) DeleteMany(ctx context.Context, filter bson.M) error {
	_, err := c.coll.DeleteMany(ctx, filter)
	return err
}
