package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/linkup/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names
const (
	usersCollection = "users"
	postsCollection = "posts"
)

// ErrDuplicateEmail is returned when a signup collides with an existing account
var ErrDuplicateEmail = errors.New("email already registered")

// notFound wraps models.ErrNotFound with the resource that was missing
func notFound(resource string, id primitive.ObjectID) error {
	return fmt.Errorf("%s %s: %w", resource, id.Hex(), models.ErrNotFound)
}

// decodeErr maps mongo.ErrNoDocuments to a wrapped models.ErrNotFound
func decodeErr(err error, resource string, id primitive.ObjectID) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound(resource, id)
	}
	return err
}

// dailyCounts groups documents matching filter by the calendar day of createdAt in tz
func dailyCounts(ctx context.Context, coll *mongo.Collection, filter bson.M, tz string) ([]models.DailyCount, error) {
	if tz == "" {
		tz = "UTC"
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$createdAt"},
				{Key: "timezone", Value: tz},
			}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := []models.DailyCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
