package services

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories/repotest"
	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type deleterStub struct {
	calls []string
	err   error
}

func (d *deleterStub) Delete(_ context.Context, ref string) error {
	d.calls = append(d.calls, ref)
	return d.err
}

func newTestCascade(posts *repotest.PostRepo, reports *repotest.ReportRepo, users *repotest.UserRepo, storage ObjectDeleter, tries uint) *CascadeExecutor {
	e := NewCascadeExecutor(posts, reports, users, storage, tries)
	e.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return e
}

// memStore is a tiny in-memory post/report/user graph used to check cascade outcomes
type memStore struct {
	posts   map[primitive.ObjectID]*models.Post
	reports []models.Report
	users   map[primitive.ObjectID]*models.User
}

func (m *memStore) postRepo() *repotest.PostRepo {
	return &repotest.PostRepo{
		DeletePostFn: func(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
			p, ok := m.posts[id]
			if !ok {
				return nil, models.ErrNotFound
			}
			delete(m.posts, id)
			return p, nil
		},
	}
}

func (m *memStore) reportRepo() *repotest.ReportRepo {
	return &repotest.ReportRepo{
		DeleteByTargetFn: func(_ context.Context, kind models.ReportKind, target primitive.ObjectID) (int64, error) {
			kept := m.reports[:0]
			var n int64
			for _, r := range m.reports {
				if r.Kind == kind && r.Target == target {
					n++
					continue
				}
				kept = append(kept, r)
			}
			m.reports = kept
			return n, nil
		},
	}
}

func without(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	out := ids[:0]
	removed := false
	for _, v := range ids {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}

func (m *memStore) userRepo() *repotest.UserRepo {
	return &repotest.UserRepo{
		PullPostReferencesFn: func(_ context.Context, postID primitive.ObjectID) (int64, error) {
			var n int64
			for _, u := range m.users {
				var a, b bool
				u.LikedPosts, a = without(u.LikedPosts, postID)
				u.SharedPosts, b = without(u.SharedPosts, postID)
				if a || b {
					n++
				}
			}
			return n, nil
		},
	}
}

func TestDeletePostCascade_CleansEverything(t *testing.T) {
	postID := primitive.NewObjectID()
	otherPost := primitive.NewObjectID()
	liker1, liker2 := primitive.NewObjectID(), primitive.NewObjectID()

	store := &memStore{
		posts: map[primitive.ObjectID]*models.Post{
			postID: {ID: postID, Likes: []primitive.ObjectID{liker1, liker2}, ImageRef: "posts/a.png"},
		},
		reports: []models.Report{
			{Kind: models.ReportKindPost, Target: postID, Reason: "spam"},
			{Kind: models.ReportKindPost, Target: otherPost, Reason: "other"},
		},
		users: map[primitive.ObjectID]*models.User{
			liker1: {ID: liker1, LikedPosts: []primitive.ObjectID{postID, otherPost}},
			liker2: {ID: liker2, LikedPosts: []primitive.ObjectID{postID}, SharedPosts: []primitive.ObjectID{postID}},
		},
	}
	storage := &deleterStub{}
	e := newTestCascade(store.postRepo(), store.reportRepo(), store.userRepo(), storage, 3)

	result, err := e.DeletePostCascade(context.Background(), postID)
	require.NoError(t, err)

	assert.Empty(t, result.FailedSteps)
	assert.Equal(t, int64(1), result.ReportsDeleted)
	assert.Equal(t, int64(2), result.UsersUpdated)
	assert.True(t, result.ImageDeleted)
	assert.Equal(t, []string{"posts/a.png"}, storage.calls)

	assert.NotContains(t, store.posts, postID)
	require.Len(t, store.reports, 1)
	assert.Equal(t, otherPost, store.reports[0].Target)
	for _, u := range store.users {
		assert.NotContains(t, u.LikedPosts, postID)
		assert.NotContains(t, u.SharedPosts, postID)
	}
	assert.Contains(t, store.users[liker1].LikedPosts, otherPost)
}

func TestDeletePostCascade_NotFound(t *testing.T) {
	store := &memStore{posts: map[primitive.ObjectID]*models.Post{}}
	e := newTestCascade(store.postRepo(), store.reportRepo(), store.userRepo(), nil, 1)

	_, err := e.DeletePostCascade(context.Background(), primitive.NewObjectID())
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestDeletePostCascade_RetriesThenSucceeds(t *testing.T) {
	attempts := 0
	reports := &repotest.ReportRepo{
		DeleteByTargetFn: func(context.Context, models.ReportKind, primitive.ObjectID) (int64, error) {
			attempts++
			if attempts < 3 {
				return 0, errors.New("connection reset")
			}
			return 2, nil
		},
	}
	e := newTestCascade(&repotest.PostRepo{}, reports, &repotest.UserRepo{}, nil, 3)

	result, err := e.DeletePostCascade(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, int64(2), result.ReportsDeleted)
	assert.Empty(t, result.FailedSteps)
}

func TestDeletePostCascade_PartialFailureKeepsDeletion(t *testing.T) {
	postID := primitive.NewObjectID()
	deleted := false
	pulls := 0

	posts := &repotest.PostRepo{
		DeletePostFn: func(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
			deleted = true
			return &models.Post{ID: id, ImageRef: "posts/b.png"}, nil
		},
	}
	users := &repotest.UserRepo{
		PullPostReferencesFn: func(context.Context, primitive.ObjectID) (int64, error) {
			pulls++
			return 0, errors.New("mongo down")
		},
	}
	storage := &deleterStub{err: errors.New("bucket gone")}
	e := newTestCascade(posts, &repotest.ReportRepo{}, users, storage, 2)

	result, err := e.DeletePostCascade(context.Background(), postID)
	require.NoError(t, err)

	assert.True(t, deleted)
	assert.Equal(t, 2, pulls)
	assert.Len(t, storage.calls, 2)
	assert.Equal(t, []string{StepPullUserReferences, StepDeleteImage}, result.FailedSteps)
	assert.False(t, result.ImageDeleted)
}

func TestDeletePostCascade_SkipsImageStepWithoutRef(t *testing.T) {
	storage := &deleterStub{}
	e := newTestCascade(&repotest.PostRepo{}, &repotest.ReportRepo{}, &repotest.UserRepo{}, storage, 1)

	result, err := e.DeletePostCascade(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, storage.calls)
	assert.False(t, result.ImageDeleted)
}

func TestDeletePostCascade_ImageWithoutStorageIsReported(t *testing.T) {
	postID := primitive.NewObjectID()
	posts := &repotest.PostRepo{
		DeletePostFn: func(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
			return &models.Post{ID: id, Image: "https://cdn.example.com/posts/a.png", ImageRef: "posts/a.png"}, nil
		},
	}
	e := newTestCascade(posts, &repotest.ReportRepo{}, &repotest.UserRepo{}, nil, 1)

	result, err := e.DeletePostCascade(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, []string{StepDeleteImage}, result.FailedSteps)
	assert.False(t, result.ImageDeleted)
}
