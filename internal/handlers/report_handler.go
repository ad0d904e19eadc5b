package handlers

import (
	"net/http"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ReportHandler lets users flag posts and other users for moderation
type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterReportRoutes registers filing on writes and the caller's history on api
func (h *ReportHandler) RegisterReportRoutes(api, writes *echo.Group) {
	writes.POST("/posts/:postId/report", h.ReportPost)
	writes.POST("/users/:userId/report", h.ReportUser)
	api.GET("/reports/mine", h.MyReports)
}

func (h *ReportHandler) ReportPost(c echo.Context) error {
	return h.file(c, models.ReportKindPost, c.Param("postId"))
}

func (h *ReportHandler) ReportUser(c echo.Context) error {
	return h.file(c, models.ReportKindUser, c.Param("userId"))
}

func (h *ReportHandler) file(c echo.Context, kind models.ReportKind, targetID string) error {
	me, err := callerID(c)
	if err != nil {
		return respondError(c, "file_report", err)
	}

	var req models.CreateReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, "file_report", err)
	}

	report, err := h.reports.FileReport(c.Request().Context(), me, kind, targetID, req.Reason)
	if err != nil {
		return respondError(c, "file_report", err)
	}
	return respondData(c, http.StatusCreated, report)
}

// MyReports lists what the caller has reported, newest first
func (h *ReportHandler) MyReports(c echo.Context) error {
	me, err := callerID(c)
	if err != nil {
		return respondError(c, "my_reports", err)
	}
	reports, err := h.reports.MyReports(c.Request().Context(), me)
	if err != nil {
		return respondError(c, "my_reports", err)
	}
	return respondData(c, http.StatusOK, reports)
}
