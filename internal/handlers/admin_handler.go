package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves the dashboard and moderation endpoints. Dashboard responses
// are bare JSON; moderation responses use the success envelope.
type AdminHandler struct {
	dashboard  *services.DashboardService
	moderation *services.ModerationService
}

func NewAdminHandler(dashboard *services.DashboardService, moderation *services.ModerationService) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, moderation: moderation}
}

// RegisterAdminRoutes registers everything under the admin group
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	d := g.Group("/dashboard")
	d.GET("/status", h.Status)
	d.GET("/user-growth", h.series(models.SeriesSignups))
	d.GET("/post-per-day", h.series(models.SeriesPosts))
	d.GET("/report-per-day", h.ReportSeries)
	d.GET("/latest-signup", h.LatestSignups)
	d.GET("/latest-post", h.LatestPosts)

	g.GET("/reports/posts", h.listReports(models.ReportKindPost))
	g.GET("/reports/users", h.listReports(models.ReportKindUser))
	g.PATCH("/reports/:reportId/status", h.SetReportStatus)
	g.PUT("/ban-user/:userId", h.ToggleBan)
	g.DELETE("/post/:postId", h.DeletePost)
	g.GET("/audit-log", h.AuditLog)
}

// Status returns the headline dashboard counters
func (h *AdminHandler) Status(c echo.Context) error {
	summary, err := h.dashboard.Summary(c.Request().Context())
	if err != nil {
		return respondError(c, "dashboard_status", err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *AdminHandler) series(metric models.SeriesMetric) echo.HandlerFunc {
	return func(c echo.Context) error {
		counts, err := h.dashboard.DailyCounts(c.Request().Context(), metric, queryBool(c, "fill"))
		if err != nil {
			return respondError(c, "dashboard_"+string(metric), err)
		}
		return c.JSON(http.StatusOK, counts)
	}
}

// ReportSeries returns one row per day with separate post and user report counts
func (h *AdminHandler) ReportSeries(c echo.Context) error {
	rows, err := h.dashboard.ReportSeries(c.Request().Context(), queryBool(c, "fill"))
	if err != nil {
		return respondError(c, "dashboard_report_series", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *AdminHandler) LatestSignups(c echo.Context) error {
	rows, err := h.dashboard.RecentSignups(c.Request().Context(), services.RecentLimit)
	if err != nil {
		return respondError(c, "latest_signups", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *AdminHandler) LatestPosts(c echo.Context) error {
	rows, err := h.dashboard.RecentPosts(c.Request().Context(), services.RecentLimit)
	if err != nil {
		return respondError(c, "latest_posts", err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *AdminHandler) listReports(kind models.ReportKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := h.moderation.ListReports(c.Request().Context(), kind, c.QueryParam("status"))
		if err != nil {
			return respondError(c, "list_reports", err)
		}
		return respondData(c, http.StatusOK, rows)
	}
}

// SetReportStatus moves a report to the requested status
func (h *AdminHandler) SetReportStatus(c echo.Context) error {
	var req models.UpdateReportStatusRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, "set_report_status", models.NewValidationError("Invalid request payload"))
	}

	report, err := h.moderation.SetStatus(c.Request().Context(), actor(c), c.Param("reportId"), req.Type, req.Status)
	if err != nil {
		return respondError(c, "set_report_status", err)
	}
	return respondData(c, http.StatusOK, report)
}

// ToggleBan bans the user, or lifts the ban when already banned
func (h *AdminHandler) ToggleBan(c echo.Context) error {
	result, err := h.moderation.ToggleBan(c.Request().Context(), actor(c), c.Param("userId"))
	if err != nil {
		return respondError(c, "toggle_ban", err)
	}
	return respondData(c, http.StatusOK, result)
}

// DeletePost removes a post and everything that references it
func (h *AdminHandler) DeletePost(c echo.Context) error {
	if _, err := h.moderation.DeletePost(c.Request().Context(), actor(c), c.Param("postId")); err != nil {
		return respondError(c, "admin_delete_post", err)
	}
	return respondMessage(c, http.StatusOK, "Post deleted")
}

// AuditLog pages through recorded moderation actions
func (h *AdminHandler) AuditLog(c echo.Context) error {
	entries, total, err := h.moderation.AuditLog(c.Request().Context(), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return respondError(c, "audit_log", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": entries, "total": total})
}

func actor(c echo.Context) string {
	id, err := callerID(c)
	if err != nil {
		return ""
	}
	return id.Hex()
}
