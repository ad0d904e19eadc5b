package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/linkup/backend/internal/metrics"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/cenkalti/backoff/v5"
	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cleanup step names, also used as metric labels
const (
	StepDeleteReports      = "delete-reports"
	StepPullUserReferences = "pull-user-references"
	StepDeleteImage        = "delete-image"
)

// ObjectDeleter removes a stored upload by the ref it was issued under
type ObjectDeleter interface {
	Delete(ctx context.Context, ref string) error
}

// CascadeResult describes what a post deletion cleaned up
type CascadeResult struct {
	Post           *models.Post `json:"-"`
	ReportsDeleted int64        `json:"reportsDeleted"`
	UsersUpdated   int64        `json:"usersUpdated"`
	ImageDeleted   bool         `json:"imageDeleted"`
	FailedSteps    []string     `json:"failedSteps,omitempty"`
}

type cascadeStep struct {
	name string
	run  func(ctx context.Context) error
}

// CascadeExecutor deletes a post and then runs each dependent cleanup as an
// independently retried step. The post deletion is never rolled back.
type CascadeExecutor struct {
	posts      repositories.PostRepository
	reports    repositories.ReportRepository
	users      repositories.UserRepository
	storage    ObjectDeleter
	maxTries   uint
	newBackOff func() backoff.BackOff
}

// NewCascadeExecutor wires the executor. storage may be nil when uploads are disabled.
func NewCascadeExecutor(posts repositories.PostRepository, reports repositories.ReportRepository, users repositories.UserRepository, storage ObjectDeleter, maxTries uint) *CascadeExecutor {
	if maxTries == 0 {
		maxTries = 1
	}
	return &CascadeExecutor{
		posts:    posts,
		reports:  reports,
		users:    users,
		storage:  storage,
		maxTries: maxTries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

// DeletePostCascade removes the post, its reports, every user reference to it and its image
func (e *CascadeExecutor) DeletePostCascade(ctx context.Context, postID primitive.ObjectID) (*CascadeResult, error) {
	post, err := e.posts.DeletePost(ctx, postID)
	if err != nil {
		return nil, storeErr("delete_post", "Post", postID.Hex(), err)
	}

	result := &CascadeResult{Post: post}
	steps := []cascadeStep{
		{name: StepDeleteReports, run: func(ctx context.Context) error {
			n, err := e.reports.DeleteByTarget(ctx, models.ReportKindPost, postID)
			result.ReportsDeleted = n
			return err
		}},
		{name: StepPullUserReferences, run: func(ctx context.Context) error {
			n, err := e.users.PullPostReferences(ctx, postID)
			result.UsersUpdated = n
			return err
		}},
	}
	if post.ImageRef != "" && e.storage != nil {
		steps = append(steps, cascadeStep{name: StepDeleteImage, run: func(ctx context.Context) error {
			if err := e.storage.Delete(ctx, post.ImageRef); err != nil {
				return err
			}
			result.ImageDeleted = true
			return nil
		}})
	}

	// The post is gone at this point; a client hanging up must not abandon its cleanup
	cleanupCtx := context.WithoutCancel(ctx)
	for _, step := range steps {
		if err := e.runStep(cleanupCtx, step); err != nil {
			result.FailedSteps = append(result.FailedSteps, step.name)
			e.reportFailure(step.name, postID, err)
		}
	}
	if post.ImageRef != "" && e.storage == nil {
		// Nothing can remove the object; record it so the leak shows up in the audit entry
		log.Warn().Str("post_id", postID.Hex()).Str("image_ref", post.ImageRef).Msg("post image left in storage: no storage configured")
		result.FailedSteps = append(result.FailedSteps, StepDeleteImage)
	}

	log.Info().
		Str("post_id", postID.Hex()).
		Int64("reports_deleted", result.ReportsDeleted).
		Int64("users_updated", result.UsersUpdated).
		Strs("failed_steps", result.FailedSteps).
		Msg("post deleted")
	return result, nil
}

func (e *CascadeExecutor) runStep(ctx context.Context, step cascadeStep) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, step.run(ctx)
	},
		backoff.WithBackOff(e.newBackOff()),
		backoff.WithMaxTries(e.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Str("step", step.name).Dur("retry_in", next).Msg("cleanup step failed, retrying")
		}),
	)
	return err
}

func (e *CascadeExecutor) reportFailure(step string, postID primitive.ObjectID, err error) {
	log.Error().Err(err).Str("step", step).Str("post_id", postID.Hex()).Msg("post cleanup step gave up")
	metrics.CascadeCleanupFailuresTotal.WithLabelValues(step).Inc()
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("step", step)
		scope.SetTag("post_id", postID.Hex())
		sentry.CaptureException(fmt.Errorf("post cleanup %s: %w", step, err))
	})
}
