package mongodb

import (
	"context"
	"errors"
	"fmt"

	"fx-transactions/internal/custom_err"
	"fx-transactions/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// errNoDocument is returned by Collection lookups that match nothing. Callers
// turn it into a NotFound error carrying their own message.
var errNoDocument = errors.New("no document")

// Collection is typed access to one Mongo collection whose documents decode
// into T. Every driver fault is returned as custom_err.Storage.
type Collection[T any] struct {
	coll *mongo.Collection
}

func NewCollection[T any](coll *mongo.Collection) *Collection[T] {
	return &Collection[T]{coll: coll}
}

func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	const op = "mongodb.Insert"

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return custom_err.Storage(fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	const op = "mongodb.FindByID"

	var doc T
	err := c.coll.FindOne(ctx, bson.D{{Key: storage.FieldID, Value: id}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errNoDocument
		}
		return nil, custom_err.Storage(fmt.Errorf("%s: %w", op, err))
	}
	return &doc, nil
}

// Find returns the documents matching filter in ascending _id order, at most limit of them.
func (c *Collection[T]) Find(ctx context.Context, filter bson.D, limit int64) ([]T, error) {
	const op = "mongodb.Find"

	if filter == nil {
		filter = bson.D{}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: storage.FieldID, Value: 1}}).
		SetLimit(limit)

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, custom_err.Storage(fmt.Errorf("%s: %w", op, err))
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, custom_err.Storage(fmt.Errorf("%s: decode: %w", op, err))
	}
	return docs, nil
}

// SetByID applies a $set to the document with the given id and returns the
// document as stored after the update.
func (c *Collection[T]) SetByID(ctx context.Context, id primitive.ObjectID, set bson.D) (*T, error) {
	const op = "mongodb.SetByID"

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(false)

	var doc T
	err := c.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: storage.FieldID, Value: id}},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errNoDocument
		}
		return nil, custom_err.Storage(fmt.Errorf("%s: %w", op, err))
	}
	return &doc, nil
}

func (c *Collection[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	const op = "mongodb.DeleteByID"

	if _, err := c.coll.DeleteOne(ctx, bson.D{{Key: storage.FieldID, Value: id}}); err != nil {
		return custom_err.Storage(fmt.Errorf("%s: %w", op, err))
	}
	return nil
}
