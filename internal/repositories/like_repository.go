package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/linkup/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EngagementRepository toggles likes and shares. Each toggle keeps the post's
// member set and the user's mirror list (likedPosts/sharedPosts) in step.
type EngagementRepository interface {
	ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Engagement, error)
	ToggleShare(ctx context.Context, postID, userID primitive.ObjectID) (*models.Engagement, error)
}

// MongoEngagementRepository implements EngagementRepository for MongoDB
type MongoEngagementRepository struct {
	posts *mongo.Collection
	users *mongo.Collection
}

// NewMongoEngagementRepository creates a new MongoEngagementRepository
func NewMongoEngagementRepository(db *mongo.Database) *MongoEngagementRepository {
	return &MongoEngagementRepository{
		posts: db.Collection(postsCollection),
		users: db.Collection(usersCollection),
	}
}

func (r *MongoEngagementRepository) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Engagement, error) {
	return r.toggle(ctx, postID, userID, "likes", "likedPosts")
}

func (r *MongoEngagementRepository) ToggleShare(ctx context.Context, postID, userID primitive.ObjectID) (*models.Engagement, error) {
	return r.toggle(ctx, postID, userID, "shares", "sharedPosts")
}

func (r *MongoEngagementRepository) toggle(ctx context.Context, postID, userID primitive.ObjectID, postField, userField string) (*models.Engagement, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	active := true

	var post models.Post
	err := r.posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID, postField: bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{postField: userID}},
		opts,
	).Decode(&post)

	if errors.Is(err, mongo.ErrNoDocuments) {
		// Already a member (or no such post): take the membership away instead
		active = false
		err = r.posts.FindOneAndUpdate(ctx,
			bson.M{"_id": postID, postField: userID},
			bson.M{"$pull": bson.M{postField: userID}},
			opts,
		).Decode(&post)
	}
	if err != nil {
		return nil, decodeErr(err, "post", postID)
	}

	op := "$addToSet"
	if !active {
		op = "$pull"
	}
	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{op: bson.M{userField: postID}}); err != nil {
		return nil, err
	}

	count := len(post.Likes)
	if postField == "shares" {
		count = len(post.Shares)
	}
	return &models.Engagement{PostID: postID.Hex(), Active: active, Count: count}, nil
}
