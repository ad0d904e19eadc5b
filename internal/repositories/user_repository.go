package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyByToken(ctx context.Context, token string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error)
	ToggleBan(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	PullPostReferences(ctx context.Context, postID primitive.ObjectID) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountLoggedInBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	DailySignups(ctx context.Context, tz string) ([]models.DailyCount, error)
	RecentUsers(ctx context.Context, limit int64) ([]models.User, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index and the sparse verification token index
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "verificationToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

// CreateUser inserts a new user; empty social lists are stored as arrays, never null
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if user.LikedPosts == nil {
		user.LikedPosts = []primitive.ObjectID{}
	}
	if user.SharedPosts == nil {
		user.SharedPosts = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, decodeErr(err, "user", id)
	}
	return &user, nil
}

// GetUsersByIDs loads every existing user in ids; missing ids are skipped
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&user)
	if err != nil {
		return nil, decodeErr(err, "user", primitive.NilObjectID)
	}
	return &user, nil
}

// VerifyByToken marks the token's owner verified and clears the token in one write,
// so a token can only ever be redeemed once
func (r *MongoUserRepository) VerifyByToken(ctx context.Context, token string) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"isVerified":        true,
		"verificationToken": nil,
		"updatedAt":         time.Now(),
	}}

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"verificationToken": token}, update, opts).Decode(&user)
	if err != nil {
		return nil, decodeErr(err, "verification token", primitive.NilObjectID)
	}
	return &user, nil
}

func (r *MongoUserRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastLogin": at}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notFound("user", id)
	}
	return nil
}

// UpdateProfile sets only the fields present in req
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if req.DisplayName != "" {
		set["displayName"] = req.DisplayName
	}
	if req.Headline != "" {
		set["headline"] = req.Headline
	}
	if req.Bio != "" {
		set["bio"] = req.Bio
	}
	if req.Location != "" {
		set["location"] = req.Location
	}
	if req.Links != nil {
		set["links"] = req.Links
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user); err != nil {
		return nil, decodeErr(err, "user", id)
	}
	return &user, nil
}

// ToggleBan flips isBanned server side with a pipeline update and returns the new document
func (r *MongoUserRepository) ToggleBan(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "isBanned", Value: bson.D{{Key: "$not", Value: bson.A{"$isBanned"}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user); err != nil {
		return nil, decodeErr(err, "user", id)
	}
	return &user, nil
}

// PullPostReferences removes postID from every user's likedPosts and sharedPosts
func (r *MongoUserRepository) PullPostReferences(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"likedPosts": postID},
		bson.M{"sharedPosts": postID},
	}}
	update := bson.M{"$pull": bson.M{"likedPosts": postID, "sharedPosts": postID}}

	res, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoUserRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountLoggedInBetween counts users whose lastLogin falls in [from, to)
func (r *MongoUserRepository) CountLoggedInBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"lastLogin": bson.M{"$gte": from, "$lt": to}})
}

func (r *MongoUserRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
}

func (r *MongoUserRepository) DailySignups(ctx context.Context, tz string) ([]models.DailyCount, error) {
	return dailyCounts(ctx, r.collection, bson.M{}, tz)
}

// RecentUsers returns the newest users first
func (r *MongoUserRepository) RecentUsers(ctx context.Context, limit int64) ([]models.User, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
