package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FollowRepository defines the interface for follow edge operations. An edge
// lives on both users: follower.following and target.followers.
type FollowRepository interface {
	ToggleFollow(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error)
}

// MongoFollowRepository implements FollowRepository for MongoDB
type MongoFollowRepository struct {
	client       *mongo.Client
	users        *mongo.Collection
	transactions bool
}

// NewMongoFollowRepository creates a new MongoFollowRepository. With transactions
// enabled both sides of an edge are written in one multi-document transaction,
// which requires a replica set.
func NewMongoFollowRepository(db *mongo.Database, transactions bool) *MongoFollowRepository {
	return &MongoFollowRepository{
		client:       db.Client(),
		users:        db.Collection(usersCollection),
		transactions: transactions,
	}
}

// ToggleFollow follows targetID if followerID does not follow it yet, unfollows otherwise.
// It returns whether the follower now follows the target.
func (r *MongoFollowRepository) ToggleFollow(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	if !r.transactions {
		return r.toggle(ctx, followerID, targetID)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.toggle(sc, followerID, targetID)
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (r *MongoFollowRepository) toggle(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": followerID, "following": targetID})
	if err != nil {
		return false, err
	}
	following := n > 0

	op := "$addToSet"
	if following {
		op = "$pull"
	}
	now := time.Now()

	// Target first: a missing target must not leave a half edge on the follower
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{op: bson.M{"followers": followerID}, "$set": bson.M{"updatedAt": now}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, notFound("user", targetID)
	}

	res, err = r.users.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{op: bson.M{"following": targetID}, "$set": bson.M{"updatedAt": now}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, notFound("user", followerID)
	}
	return !following, nil
}
