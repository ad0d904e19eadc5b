package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoUserRepository(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()

	mt.Run("create user normalizes email and initializes lists", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{Email: "  Ana@Example.COM ", DisplayName: "Ana"}
		require.NoError(t, repo.CreateUser(ctx, user))

		assert.False(t, user.ID.IsZero())
		assert.Equal(t, "ana@example.com", user.Email)
		assert.NotNil(t, user.Followers)
		assert.NotNil(t, user.LikedPosts)
		assert.False(t, user.CreatedAt.IsZero())
	})

	mt.Run("create user duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.CreateUser(ctx, &models.User{Email: "ana@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	mt.Run("get user by id not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))

		_, err := repo.GetUserByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	mt.Run("toggle ban returns flipped user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(valueResponse(toDoc(t, models.User{
			ID:          id,
			DisplayName: "Spammer",
			IsBanned:    true,
		})))

		user, err := repo.ToggleBan(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.True(t, user.IsBanned)
	})

	mt.Run("toggle ban unknown user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(valueResponse(nil))

		_, err := repo.ToggleBan(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	mt.Run("verify by token", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(valueResponse(toDoc(t, models.User{
			ID:         primitive.NewObjectID(),
			Email:      "ana@example.com",
			IsVerified: true,
		})))

		user, err := repo.VerifyByToken(ctx, "tok")
		require.NoError(t, err)
		assert.True(t, user.IsVerified)
		assert.Nil(t, user.VerificationToken)
	})

	mt.Run("pull post references reports modified users", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 2},
			bson.E{Key: "nModified", Value: 2},
		))

		n, err := repo.PullPostReferences(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	mt.Run("update last login on missing user", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.UpdateLastLogin(ctx, primitive.NewObjectID(), time.Now())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	mt.Run("count logged in between", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(countResponse("test.users", 4))

		n, err := repo.CountLoggedInBetween(ctx, time.Now().Add(-time.Hour), time.Now())
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})

	mt.Run("daily signups", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "2026-03-01"}, {Key: "count", Value: int64(3)}},
			bson.D{{Key: "_id", Value: "2026-03-03"}, {Key: "count", Value: int64(1)}},
		))

		counts, err := repo.DailySignups(ctx, "UTC")
		require.NoError(t, err)
		assert.Equal(t, []models.DailyCount{
			{Date: "2026-03-01", Count: 3},
			{Date: "2026-03-03", Count: 1},
		}, counts)
	})
}
