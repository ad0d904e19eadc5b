package services

import (
	"context"
	"strings"

	"github.com/anonto42/linkup/backend/internal/metrics"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RateLimiter decides whether a caller may perform another action on resource
type RateLimiter interface {
	Allow(ctx context.Context, resource, id string) bool
}

const reportResource = "report"

// ReportService files moderation reports on behalf of users
type ReportService struct {
	reports repositories.ReportRepository
	limiter RateLimiter
}

// NewReportService wires the intake. limiter may be nil to disable rate limiting.
func NewReportService(reports repositories.ReportRepository, limiter RateLimiter) *ReportService {
	return &ReportService{reports: reports, limiter: limiter}
}

// FileReport records a pending report by reporterID against the kind/targetID entity.
// The target is deliberately not looked up: reports outlive their targets.
func (s *ReportService) FileReport(ctx context.Context, reporterID primitive.ObjectID, kind models.ReportKind, targetID, reason string) (*models.Report, error) {
	if _, ok := models.ParseReportKind(string(kind)); !ok {
		return nil, models.NewValidationError("invalid report type: " + string(kind))
	}
	target, err := models.ParseID(string(kind)+" id", targetID)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.NewValidationError("reason is required")
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, reportResource, reporterID.Hex()) {
		metrics.ReportsRateLimitedTotal.Inc()
		return nil, models.NewRateLimitedError("too many reports, try again later")
	}

	report := &models.Report{
		Kind:     kind,
		Reporter: reporterID,
		Target:   target,
		Reason:   reason,
	}
	if err := s.reports.CreateReport(ctx, report); err != nil {
		return nil, storeErr("create_report", "Report", targetID, err)
	}

	metrics.ReportsFiledTotal.WithLabelValues(string(kind)).Inc()
	log.Info().
		Str("report_id", report.ID.Hex()).
		Str("kind", string(kind)).
		Str("target_id", targetID).
		Str("reporter_id", reporterID.Hex()).
		Msg("report filed")
	return report, nil
}

// MyReports is the reporter's own audit trail across both kinds, newest first
func (s *ReportService) MyReports(ctx context.Context, reporterID primitive.ObjectID) ([]models.Report, error) {
	reports, err := s.reports.ListByReporter(ctx, reporterID)
	if err != nil {
		return nil, storeErr("list_reports_by_reporter", "User", reporterID.Hex(), err)
	}
	return reports, nil
}
