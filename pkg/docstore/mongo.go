package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoCollection maps documents onto a MongoDB collection. Document types carry
// `bson:"_id"` on their id field so the stored _id matches the id passed to Save.
type mongoCollection[T any] struct {
	coll *mongo.Collection
}

func newMongoCollection[T any](coll *mongo.Collection) *mongoCollection[T] {
	return &mongoCollection[T]{coll: coll}
}

func (c *mongoCollection[T]) FindAll(ctx context.Context) ([]T, error) {
	cursor, err := c.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.coll.Name(), err)
	}

	result := make([]T, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.coll.Name(), err)
	}
	return result, nil
}

func (c *mongoCollection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var doc T
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, ErrNotFound
	}
	if err != nil {
		return doc, fmt.Errorf("failed to query document %s: %w", id, err)
	}
	return doc, nil
}

func (c *mongoCollection[T]) Save(ctx context.Context, id string, doc T) error {
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", id, err)
	}
	return nil
}

func (c *mongoCollection[T]) DeleteByID(ctx context.Context, id string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	return nil
}

func (c *mongoCollection[T]) DeleteAll(ctx context.Context) error {
	if _, err := c.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", c.coll.Name(), err)
	}
	return nil
}
