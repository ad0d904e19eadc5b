package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories/repotest"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type limiterStub bool

func (l limiterStub) Allow(context.Context, string, string) bool { return bool(l) }

// reportBoard is a shared in-memory report store backing both intake and moderation
type reportBoard struct {
	reports []*models.Report
}

func (b *reportBoard) repo() *repotest.ReportRepo {
	return &repotest.ReportRepo{
		CreateReportFn: func(_ context.Context, r *models.Report) error {
			r.ID = primitive.NewObjectID()
			r.Status = models.ReportStatusPending
			r.CreatedAt = time.Now()
			b.reports = append(b.reports, r)
			return nil
		},
		SetStatusFn: func(_ context.Context, kind models.ReportKind, id primitive.ObjectID, st models.ReportStatus) (*models.Report, error) {
			for _, r := range b.reports {
				if r.ID == id && r.Kind == kind {
					r.Status = st
					cp := *r
					return &cp, nil
				}
			}
			return nil, models.ErrNotFound
		},
		ListJoinedFn: func(_ context.Context, kind models.ReportKind, _ models.ReportStatus) ([]models.JoinedReport, error) {
			out := []models.JoinedReport{}
			for _, r := range b.reports {
				if r.Kind == kind {
					out = append(out, models.JoinedReport{ID: r.ID.Hex(), Kind: r.Kind, Reason: r.Reason, Status: r.Status})
				}
			}
			return out, nil
		},
	}
}

func TestReportLifecycle(t *testing.T) {
	e := newEcho()
	board := &reportBoard{}
	repo := board.repo()
	audit := &repotest.AuditRepo{}

	reporter := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	postID := primitive.NewObjectID()

	intake := NewReportHandler(services.NewReportService(repo, limiterStub(true)))
	moderation := services.NewModerationService(repo, &repotest.UserRepo{}, audit, nil)
	adminH := NewAdminHandler(nil, moderation)

	// reporter files
	c, rec := newJSONContext(e, http.MethodPost, "/", `{"reason":"spam"}`, reporter, "postId", postID.Hex())
	require.NoError(t, intake.ReportPost(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var filed models.Report
	readData(t, rec, &filed)
	assert.Equal(t, models.ReportStatusPending, filed.Status)

	// admin sees it pending
	c, rec = newJSONContext(e, http.MethodGet, "/", "", admin)
	require.NoError(t, adminH.listReports(models.ReportKindPost)(c))
	var rows []models.JoinedReport
	readData(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "spam", rows[0].Reason)
	assert.Equal(t, models.ReportStatusPending, rows[0].Status)

	// resolve twice, both succeed
	for i := 0; i < 2; i++ {
		c, rec = newJSONContext(e, http.MethodPatch, "/", `{"status":"resolved"}`, admin, "reportId", filed.ID.Hex())
		require.NoError(t, adminH.SetReportStatus(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	c, rec = newJSONContext(e, http.MethodGet, "/", "", admin)
	require.NoError(t, adminH.listReports(models.ReportKindPost)(c))
	readData(t, rec, &rows)
	assert.Equal(t, models.ReportStatusResolved, rows[0].Status)
	assert.Len(t, audit.Entries, 2)
	assert.Equal(t, admin.Hex(), audit.Entries[0].ActorID)

	// invalid status leaves it alone
	c, rec = newJSONContext(e, http.MethodPatch, "/", `{"status":"closed"}`, admin, "reportId", filed.ID.Hex())
	require.NoError(t, adminH.SetReportStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.CodeInvalidStatus, readEnvelope(t, rec).Error)
	assert.Equal(t, models.ReportStatusResolved, board.reports[0].Status)
}

func TestReportIntakeErrors(t *testing.T) {
	e := newEcho()
	me := primitive.NewObjectID()

	t.Run("missing reason", func(t *testing.T) {
		h := NewReportHandler(services.NewReportService(&repotest.ReportRepo{}, nil))
		c, rec := newJSONContext(e, http.MethodPost, "/", `{}`, me, "userId", primitive.NewObjectID().Hex())
		require.NoError(t, h.ReportUser(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed target", func(t *testing.T) {
		h := NewReportHandler(services.NewReportService(&repotest.ReportRepo{}, nil))
		c, rec := newJSONContext(e, http.MethodPost, "/", `{"reason":"x"}`, me, "userId", "42")
		require.NoError(t, h.ReportUser(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		h := NewReportHandler(services.NewReportService(&repotest.ReportRepo{}, limiterStub(false)))
		c, rec := newJSONContext(e, http.MethodPost, "/", `{"reason":"x"}`, me, "postId", primitive.NewObjectID().Hex())
		require.NoError(t, h.ReportPost(c))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, models.CodeRateLimited, readEnvelope(t, rec).Error)
	})
}

func TestAdminBanAndDelete(t *testing.T) {
	e := newEcho()
	admin := primitive.NewObjectID()
	target := &models.User{ID: primitive.NewObjectID(), DisplayName: "Troll"}

	users := &repotest.UserRepo{
		ToggleBanFn: func(context.Context, primitive.ObjectID) (*models.User, error) {
			target.IsBanned = !target.IsBanned
			cp := *target
			return &cp, nil
		},
	}
	posts := &repotest.PostRepo{
		DeletePostFn: func(context.Context, primitive.ObjectID) (*models.Post, error) {
			return nil, models.ErrNotFound
		},
	}
	cascade := services.NewCascadeExecutor(posts, &repotest.ReportRepo{}, users, nil, 1)
	h := NewAdminHandler(nil, services.NewModerationService(&repotest.ReportRepo{}, users, nil, cascade))

	c, rec := newJSONContext(e, http.MethodPut, "/", "", admin, "userId", target.ID.Hex())
	require.NoError(t, h.ToggleBan(c))
	var ban models.BanResult
	readData(t, rec, &ban)
	assert.True(t, ban.IsBanned)
	assert.Equal(t, "Troll", ban.DisplayName)

	c, rec = newJSONContext(e, http.MethodDelete, "/", "", admin, "postId", primitive.NewObjectID().Hex())
	require.NoError(t, h.DeletePost(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardEndpointsAreBareJSON(t *testing.T) {
	e := newEcho()
	users := &repotest.UserRepo{CountUsersFn: func(context.Context) (int64, error) { return 7, nil }}
	posts := &repotest.PostRepo{
		DailyPostsFn: func(context.Context, string) ([]models.DailyCount, error) {
			return []models.DailyCount{{Date: "2025-01-02", Count: 4}}, nil
		},
	}
	dash := services.NewDashboardService(users, posts, &repotest.ReportRepo{}, time.UTC)
	h := NewAdminHandler(dash, nil)

	c, rec := newJSONContext(e, http.MethodGet, "/", "", primitive.NewObjectID())
	require.NoError(t, h.Status(c))
	var summary models.DashboardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, int64(7), summary.UserCount)

	c, rec = newJSONContext(e, http.MethodGet, "/", "", primitive.NewObjectID())
	require.NoError(t, h.series(models.SeriesPosts)(c))
	var counts []models.DailyCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, []models.DailyCount{{Date: "2025-01-02", Count: 4}}, counts)
}

func TestReportPerDayKeepsKindsApart(t *testing.T) {
	e := newEcho()
	reports := &repotest.ReportRepo{
		DailyReportsFn: func(_ context.Context, kind models.ReportKind, _ string) ([]models.DailyCount, error) {
			if kind == models.ReportKindPost {
				return []models.DailyCount{{Date: "2026-10-01", Count: 2}}, nil
			}
			return []models.DailyCount{{Date: "2026-10-01", Count: 1}, {Date: "2026-10-02", Count: 3}}, nil
		},
	}
	dash := services.NewDashboardService(&repotest.UserRepo{}, &repotest.PostRepo{}, reports, time.UTC)
	h := NewAdminHandler(dash, nil)

	c, rec := newJSONContext(e, http.MethodGet, "/", "", primitive.NewObjectID())
	require.NoError(t, h.ReportSeries(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Equal(t, []map[string]interface{}{
		{"date": "2026-10-01", "postReports": float64(2), "userReports": float64(1)},
		{"date": "2026-10-02", "postReports": float64(0), "userReports": float64(3)},
	}, rows)
}
