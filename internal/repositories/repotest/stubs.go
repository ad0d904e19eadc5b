// Package repotest provides func-field stubs of the repository interfaces for tests.
// A nil func field makes the method return zero values.
package repotest

import (
	"context"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	_ repositories.UserRepository       = (*UserRepo)(nil)
	_ repositories.PostRepository       = (*PostRepo)(nil)
	_ repositories.ReportRepository     = (*ReportRepo)(nil)
	_ repositories.AuditRepository      = (*AuditRepo)(nil)
	_ repositories.EngagementRepository = (*EngagementRepo)(nil)
	_ repositories.CommentRepository    = (*CommentRepo)(nil)
	_ repositories.FollowRepository     = (*FollowRepo)(nil)
)

// UserRepo stubs repositories.UserRepository
type UserRepo struct {
	CreateUserFn           func(context.Context, *models.User) error
	GetUserByIDFn          func(context.Context, primitive.ObjectID) (*models.User, error)
	GetUsersByIDsFn        func(context.Context, []primitive.ObjectID) ([]models.User, error)
	GetUserByEmailFn       func(context.Context, string) (*models.User, error)
	VerifyByTokenFn        func(context.Context, string) (*models.User, error)
	UpdateLastLoginFn      func(context.Context, primitive.ObjectID, time.Time) error
	UpdateProfileFn        func(context.Context, primitive.ObjectID, *models.UpdateProfileRequest) (*models.User, error)
	ToggleBanFn            func(context.Context, primitive.ObjectID) (*models.User, error)
	PullPostReferencesFn   func(context.Context, primitive.ObjectID) (int64, error)
	CountUsersFn           func(context.Context) (int64, error)
	CountLoggedInBetweenFn func(context.Context, time.Time, time.Time) (int64, error)
	CountCreatedSinceFn    func(context.Context, time.Time) (int64, error)
	DailySignupsFn         func(context.Context, string) ([]models.DailyCount, error)
	RecentUsersFn          func(context.Context, int64) ([]models.User, error)
}

func (s *UserRepo) CreateUser(ctx context.Context, user *models.User) error {
	if s.CreateUserFn == nil {
		return nil
	}
	return s.CreateUserFn(ctx, user)
}

func (s *UserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if s.GetUserByIDFn == nil {
		return &models.User{ID: id}, nil
	}
	return s.GetUserByIDFn(ctx, id)
}

func (s *UserRepo) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if s.GetUsersByIDsFn == nil {
		return nil, nil
	}
	return s.GetUsersByIDsFn(ctx, ids)
}

func (s *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.GetUserByEmailFn == nil {
		return nil, models.ErrNotFound
	}
	return s.GetUserByEmailFn(ctx, email)
}

func (s *UserRepo) VerifyByToken(ctx context.Context, token string) (*models.User, error) {
	if s.VerifyByTokenFn == nil {
		return nil, models.ErrNotFound
	}
	return s.VerifyByTokenFn(ctx, token)
}

func (s *UserRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	if s.UpdateLastLoginFn == nil {
		return nil
	}
	return s.UpdateLastLoginFn(ctx, id, at)
}

func (s *UserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, error) {
	if s.UpdateProfileFn == nil {
		return &models.User{ID: id}, nil
	}
	return s.UpdateProfileFn(ctx, id, req)
}

func (s *UserRepo) ToggleBan(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if s.ToggleBanFn == nil {
		return &models.User{ID: id}, nil
	}
	return s.ToggleBanFn(ctx, id)
}

func (s *UserRepo) PullPostReferences(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	if s.PullPostReferencesFn == nil {
		return 0, nil
	}
	return s.PullPostReferencesFn(ctx, postID)
}

func (s *UserRepo) CountUsers(ctx context.Context) (int64, error) {
	if s.CountUsersFn == nil {
		return 0, nil
	}
	return s.CountUsersFn(ctx)
}

func (s *UserRepo) CountLoggedInBetween(ctx context.Context, from, to time.Time) (int64, error) {
	if s.CountLoggedInBetweenFn == nil {
		return 0, nil
	}
	return s.CountLoggedInBetweenFn(ctx, from, to)
}

func (s *UserRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	if s.CountCreatedSinceFn == nil {
		return 0, nil
	}
	return s.CountCreatedSinceFn(ctx, since)
}

func (s *UserRepo) DailySignups(ctx context.Context, tz string) ([]models.DailyCount, error) {
	if s.DailySignupsFn == nil {
		return nil, nil
	}
	return s.DailySignupsFn(ctx, tz)
}

func (s *UserRepo) RecentUsers(ctx context.Context, limit int64) ([]models.User, error) {
	if s.RecentUsersFn == nil {
		return nil, nil
	}
	return s.RecentUsersFn(ctx, limit)
}

// PostRepo stubs repositories.PostRepository
type PostRepo struct {
	CreatePostFn    func(context.Context, *models.Post) error
	GetPostByIDFn   func(context.Context, primitive.ObjectID) (*models.Post, error)
	DeletePostFn    func(context.Context, primitive.ObjectID) (*models.Post, error)
	CountPostsFn    func(context.Context) (int64, error)
	CountCommentsFn func(context.Context) (int64, error)
	DailyPostsFn    func(context.Context, string) ([]models.DailyCount, error)
	RecentPostsFn   func(context.Context, int64) ([]models.Post, error)
}

func (s *PostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	if s.CreatePostFn == nil {
		post.ID = primitive.NewObjectID()
		return nil
	}
	return s.CreatePostFn(ctx, post)
}

func (s *PostRepo) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	if s.GetPostByIDFn == nil {
		return &models.Post{ID: id}, nil
	}
	return s.GetPostByIDFn(ctx, id)
}

func (s *PostRepo) DeletePost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	if s.DeletePostFn == nil {
		return &models.Post{ID: id}, nil
	}
	return s.DeletePostFn(ctx, id)
}

func (s *PostRepo) CountPosts(ctx context.Context) (int64, error) {
	if s.CountPostsFn == nil {
		return 0, nil
	}
	return s.CountPostsFn(ctx)
}

func (s *PostRepo) CountComments(ctx context.Context) (int64, error) {
	if s.CountCommentsFn == nil {
		return 0, nil
	}
	return s.CountCommentsFn(ctx)
}

func (s *PostRepo) DailyPosts(ctx context.Context, tz string) ([]models.DailyCount, error) {
	if s.DailyPostsFn == nil {
		return nil, nil
	}
	return s.DailyPostsFn(ctx, tz)
}

func (s *PostRepo) RecentPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	if s.RecentPostsFn == nil {
		return nil, nil
	}
	return s.RecentPostsFn(ctx, limit)
}

// ReportRepo stubs repositories.ReportRepository
type ReportRepo struct {
	CreateReportFn   func(context.Context, *models.Report) error
	GetReportFn      func(context.Context, models.ReportKind, primitive.ObjectID) (*models.Report, error)
	SetStatusFn      func(context.Context, models.ReportKind, primitive.ObjectID, models.ReportStatus) (*models.Report, error)
	ListJoinedFn     func(context.Context, models.ReportKind, models.ReportStatus) ([]models.JoinedReport, error)
	ListByReporterFn func(context.Context, primitive.ObjectID) ([]models.Report, error)
	DeleteByTargetFn func(context.Context, models.ReportKind, primitive.ObjectID) (int64, error)
	CountReportsFn   func(context.Context, models.ReportKind) (int64, error)
	DailyReportsFn   func(context.Context, models.ReportKind, string) ([]models.DailyCount, error)
}

func (s *ReportRepo) CreateReport(ctx context.Context, report *models.Report) error {
	if s.CreateReportFn == nil {
		report.ID = primitive.NewObjectID()
		report.Status = models.ReportStatusPending
		return nil
	}
	return s.CreateReportFn(ctx, report)
}

func (s *ReportRepo) GetReport(ctx context.Context, kind models.ReportKind, id primitive.ObjectID) (*models.Report, error) {
	if s.GetReportFn == nil {
		return nil, models.ErrNotFound
	}
	return s.GetReportFn(ctx, kind, id)
}

func (s *ReportRepo) SetStatus(ctx context.Context, kind models.ReportKind, id primitive.ObjectID, status models.ReportStatus) (*models.Report, error) {
	if s.SetStatusFn == nil {
		return nil, models.ErrNotFound
	}
	return s.SetStatusFn(ctx, kind, id, status)
}

func (s *ReportRepo) ListJoined(ctx context.Context, kind models.ReportKind, status models.ReportStatus) ([]models.JoinedReport, error) {
	if s.ListJoinedFn == nil {
		return []models.JoinedReport{}, nil
	}
	return s.ListJoinedFn(ctx, kind, status)
}

func (s *ReportRepo) ListByReporter(ctx context.Context, reporterID primitive.ObjectID) ([]models.Report, error) {
	if s.ListByReporterFn == nil {
		return []models.Report{}, nil
	}
	return s.ListByReporterFn(ctx, reporterID)
}

func (s *ReportRepo) DeleteByTarget(ctx context.Context, kind models.ReportKind, targetID primitive.ObjectID) (int64, error) {
	if s.DeleteByTargetFn == nil {
		return 0, nil
	}
	return s.DeleteByTargetFn(ctx, kind, targetID)
}

func (s *ReportRepo) CountReports(ctx context.Context, kind models.ReportKind) (int64, error) {
	if s.CountReportsFn == nil {
		return 0, nil
	}
	return s.CountReportsFn(ctx, kind)
}

func (s *ReportRepo) DailyReports(ctx context.Context, kind models.ReportKind, tz string) ([]models.DailyCount, error) {
	if s.DailyReportsFn == nil {
		return nil, nil
	}
	return s.DailyReportsFn(ctx, kind, tz)
}

// AuditRepo stubs repositories.AuditRepository and keeps what it was given
type AuditRepo struct {
	RecordFn func(context.Context, *models.AuditEntry) error
	ListFn   func(context.Context, int, int) ([]models.AuditEntry, int64, error)
	Entries  []models.AuditEntry
}

func (s *AuditRepo) Record(ctx context.Context, entry *models.AuditEntry) error {
	if s.RecordFn != nil {
		if err := s.RecordFn(ctx, entry); err != nil {
			return err
		}
	}
	s.Entries = append(s.Entries, *entry)
	return nil
}

func (s *AuditRepo) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, int64, error) {
	if s.ListFn == nil {
		return s.Entries, int64(len(s.Entries)), nil
	}
	return s.ListFn(ctx, limit, offset)
}

// EngagementRepo stubs repositories.EngagementRepository
type EngagementRepo struct {
	ToggleLikeFn  func(context.Context, primitive.ObjectID, primitive.ObjectID) (*models.Engagement, error)
	ToggleShareFn func(context.Context, primitive.ObjectID, primitive.ObjectID) (*models.Engagement, error)
}

func (s *EngagementRepo) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Engagement, error) {
	if s.ToggleLikeFn == nil {
		return &models.Engagement{PostID: postID.Hex(), Active: true, Count: 1}, nil
	}
	return s.ToggleLikeFn(ctx, postID, userID)
}

func (s *EngagementRepo) ToggleShare(ctx context.Context, postID, userID primitive.ObjectID) (*models.Engagement, error) {
	if s.ToggleShareFn == nil {
		return &models.Engagement{PostID: postID.Hex(), Active: true, Count: 1}, nil
	}
	return s.ToggleShareFn(ctx, postID, userID)
}

// CommentRepo stubs repositories.CommentRepository
type CommentRepo struct {
	AddCommentFn func(context.Context, primitive.ObjectID, *models.Comment) error
}

func (s *CommentRepo) AddComment(ctx context.Context, postID primitive.ObjectID, comment *models.Comment) error {
	if s.AddCommentFn == nil {
		comment.ID = primitive.NewObjectID()
		return nil
	}
	return s.AddCommentFn(ctx, postID, comment)
}

// FollowRepo stubs repositories.FollowRepository
type FollowRepo struct {
	ToggleFollowFn func(context.Context, primitive.ObjectID, primitive.ObjectID) (bool, error)
}

func (s *FollowRepo) ToggleFollow(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	if s.ToggleFollowFn == nil {
		return true, nil
	}
	return s.ToggleFollowFn(ctx, followerID, targetID)
}
