package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linkup_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})
)

// Moderation metrics
var (
	ReportsFiledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_reports_filed_total",
		Help: "Reports filed by users, by kind",
	}, []string{"kind"})

	ReportsRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkup_reports_rate_limited_total",
		Help: "Report filings rejected by the per-reporter rate limit",
	})

	ReportStatusChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_report_status_changes_total",
		Help: "Report status transitions applied by moderators",
	}, []string{"kind", "status"})

	ModerationActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_moderation_actions_total",
		Help: "Moderation actions executed",
	}, []string{"action"})

	CascadeCleanupFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkup_cascade_cleanup_failures_total",
		Help: "Post deletion cleanup steps that failed after all retries",
	}, []string{"step"})

	AuditWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkup_audit_write_failures_total",
		Help: "Moderation audit entries that could not be persisted",
	})
)
