package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anonto42/linkup/backend/internal/metrics"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// ModerationService applies admin decisions: report status transitions, bans and post removal.
// Every applied action is appended to the audit log.
type ModerationService struct {
	reports repositories.ReportRepository
	users   repositories.UserRepository
	audit   repositories.AuditRepository
	cascade *CascadeExecutor
}

func NewModerationService(reports repositories.ReportRepository, users repositories.UserRepository, audit repositories.AuditRepository, cascade *CascadeExecutor) *ModerationService {
	if audit == nil {
		audit = repositories.NewNoopAuditRepository()
	}
	return &ModerationService{
		reports: reports,
		users:   users,
		audit:   audit,
		cascade: cascade,
	}
}

// ListReports returns joined reports of kind, optionally filtered by status
func (s *ModerationService) ListReports(ctx context.Context, kind models.ReportKind, status string) ([]models.JoinedReport, error) {
	st := models.ReportStatus(strings.ToLower(strings.TrimSpace(status)))
	if st != "" && !st.Valid() {
		return nil, models.NewInvalidStatusError(status)
	}
	rows, err := s.reports.ListJoined(ctx, kind, st)
	if err != nil {
		return nil, storeErr("list_reports", "Report", string(kind), err)
	}
	return rows, nil
}

// SetStatus moves a report to status. Any state may move to any other and repeating a
// transition is a no-op. With an empty kind post reports are tried before user reports.
func (s *ModerationService) SetStatus(ctx context.Context, actorID, reportID, kind, status string) (*models.Report, error) {
	st := models.ReportStatus(strings.ToLower(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, models.NewInvalidStatusError(status)
	}
	id, err := models.ParseID("report id", reportID)
	if err != nil {
		return nil, err
	}

	kinds := []models.ReportKind{models.ReportKindPost, models.ReportKindUser}
	if kind != "" {
		k, ok := models.ParseReportKind(kind)
		if !ok {
			return nil, models.NewValidationError("invalid report type: " + kind)
		}
		kinds = []models.ReportKind{k}
	}

	for _, k := range kinds {
		report, err := s.reports.SetStatus(ctx, k, id, st)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, storeErr("set_report_status", "Report", reportID, err)
		}

		metrics.ReportStatusChangesTotal.WithLabelValues(string(k), string(st)).Inc()
		s.record(ctx, &models.AuditEntry{
			Action:     models.AuditActionSetStatus,
			ActorID:    actorID,
			TargetType: string(k) + "_report",
			TargetID:   reportID,
			Details:    datatypes.JSONMap{"status": string(st)},
		})
		return report, nil
	}
	return nil, models.NewNotFoundError("Report", reportID)
}

// ToggleBan flips the user's ban flag. Existing content is left alone.
func (s *ModerationService) ToggleBan(ctx context.Context, actorID, userID string) (*models.BanResult, error) {
	id, err := models.ParseID("user id", userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.ToggleBan(ctx, id)
	if err != nil {
		return nil, storeErr("toggle_ban", "User", userID, err)
	}

	metrics.ModerationActionsTotal.WithLabelValues(string(models.AuditActionToggleBan)).Inc()
	s.record(ctx, &models.AuditEntry{
		Action:     models.AuditActionToggleBan,
		ActorID:    actorID,
		TargetType: "user",
		TargetID:   userID,
		Details:    datatypes.JSONMap{"isBanned": user.IsBanned},
	})
	log.Info().Str("user_id", userID).Bool("is_banned", user.IsBanned).Str("actor_id", actorID).Msg("ban toggled")

	return &models.BanResult{
		ID:          user.ID.Hex(),
		IsBanned:    user.IsBanned,
		DisplayName: user.DisplayName,
	}, nil
}

// DeletePost removes a post as a moderation action, cascading to its reports, user references and image
func (s *ModerationService) DeletePost(ctx context.Context, actorID, postID string) (*CascadeResult, error) {
	id, err := models.ParseID("post id", postID)
	if err != nil {
		return nil, err
	}

	result, err := s.cascade.DeletePostCascade(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.ModerationActionsTotal.WithLabelValues(string(models.AuditActionDeletePost)).Inc()
	details := datatypes.JSONMap{
		"reportsDeleted": result.ReportsDeleted,
		"usersUpdated":   result.UsersUpdated,
		"imageDeleted":   result.ImageDeleted,
	}
	if len(result.FailedSteps) > 0 {
		details["failedSteps"] = result.FailedSteps
	}
	if result.Post != nil {
		details["owner"] = result.Post.User.Hex()
	}
	s.record(ctx, &models.AuditEntry{
		Action:     models.AuditActionDeletePost,
		ActorID:    actorID,
		TargetType: "post",
		TargetID:   postID,
		Details:    details,
	})
	return result, nil
}

// AuditLog pages through recorded moderation actions, newest first
func (s *ModerationService) AuditLog(ctx context.Context, limit, offset int) ([]models.AuditEntry, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	entries, total, err := s.audit.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, storeErr("list_audit_log", "AuditEntry", "", err)
	}
	return entries, total, nil
}

// record persists an audit entry; failures are logged and never fail the action
func (s *ModerationService) record(ctx context.Context, entry *models.AuditEntry) {
	entry.CreatedAt = time.Now()
	if err := s.audit.Record(context.WithoutCancel(ctx), entry); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		log.Error().Err(err).
			Str("action", string(entry.Action)).
			Str("target_id", entry.TargetID).
			Msg("failed to write audit entry")
	}
}
