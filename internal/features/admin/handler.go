// Package admin exposes the triage surface: a filterable listing of every
// report and the lifecycle transition endpoint. All routes require the
// admin role.
package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Anitej05/Civic-Connect/internal/features/reports"
	"github.com/Anitej05/Civic-Connect/internal/pkg/pagination"
	"github.com/Anitej05/Civic-Connect/internal/pkg/response"
	"github.com/Anitej05/Civic-Connect/internal/taxonomy"
	apperrors "github.com/Anitej05/Civic-Connect/pkg/errors"
)

// ReportStore is the repository surface the triage handlers use.
type ReportStore interface {
	ListForAdmin(ctx context.Context, f reports.AdminFilter, page, limit int) ([]reports.Report, int64, error)
	UpdateStatus(ctx context.Context, id string, target taxonomy.Status, note *reports.AdminNote, progressImageURL string) (*reports.Report, error)
}

type Handler struct {
	repo ReportStore
}

func NewHandler(repo ReportStore) *Handler {
	return &Handler{repo: repo}
}

// ListReports godoc
// @Summary List all reports for triage
// @Description Returns reports across all citizens, filterable by status, category and department
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(Submitted, In Progress, Resolved)
// @Param category query string false "Filter by category" Enums(Sanitation, Pothole, Streetlight, Water Leakage, Other)
// @Param department query string false "Filter by assigned department" Enums(Sanitation, Public Works, Electrical, Water Board, General)
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 20, max 200)"
// @Success 200 {object} response.PaginatedResponse{data=[]reports.Report}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /reports/admin/reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	filter := reports.AdminFilter{
		Status:     strings.TrimSpace(c.Query("status")),
		Category:   strings.TrimSpace(c.Query("category")),
		Department: strings.TrimSpace(c.Query("department")),
	}

	if filter.Status != "" && !taxonomy.ValidStatus(taxonomy.Status(filter.Status)) {
		response.BadRequest(c, "unknown status filter", "INVALID_FILTER")
		return
	}
	if filter.Category != "" && !taxonomy.ValidCategory(taxonomy.Category(filter.Category)) {
		response.BadRequest(c, "unknown category filter", "INVALID_FILTER")
		return
	}
	if filter.Department != "" && !taxonomy.ValidDepartment(taxonomy.Department(filter.Department)) {
		response.BadRequest(c, "unknown department filter", "INVALID_FILTER")
		return
	}

	pg := pagination.FromRequest(c.Query("page"), c.DefaultQuery("limit", "20"))

	list, total, err := h.repo.ListForAdmin(c.Request.Context(), filter, pg.Page, pg.Limit)
	if err != nil {
		response.InternalServerError(c, "Failed to fetch reports", "DATABASE_ERROR")
		return
	}

	response.Paginated(c, list, total, pg.Limit, pg.Page)
}

// UpdateStatus godoc
// @Summary Move a report along its lifecycle
// @Description Transitions a report forward (Submitted -> In Progress -> Resolved). Re-applying the current status is a no-op. A note and progress photo may ride on the same transition.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body reports.UpdateStatusRequest true "Target status"
// @Success 200 {object} response.SuccessResponse{data=reports.Report}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /reports/admin/report/{id}/status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req reports.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	if err := reports.ValidateStatusUpdate(&req); err != nil {
		response.ValidationError(c, err.Error(), "VALIDATION_FAILED")
		return
	}
	target, _ := taxonomy.ParseStatus(req.Status)

	var note *reports.AdminNote
	if strings.TrimSpace(req.Note) != "" {
		note = &reports.AdminNote{
			Note:      strings.TrimSpace(req.Note),
			Author:    c.GetString("userID"),
			CreatedAt: time.Now(),
		}
	}

	report, err := h.repo.UpdateStatus(c.Request.Context(), c.Param("id"), target, note, strings.TrimSpace(req.ProgressImageURL))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidTransition):
			response.ValidationError(c, err.Error(), "INVALID_TRANSITION")
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Report not found", "REPORT_NOT_FOUND")
		case errors.Is(err, apperrors.ErrBadRequest):
			response.BadRequest(c, "Invalid report id", "INVALID_ID")
		default:
			response.InternalServerError(c, "Failed to update report", "DATABASE_ERROR")
		}
		return
	}

	response.Success(c, report)
}
