package reports

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Anitej05/Civic-Connect/internal/pkg/pagination"
	"github.com/Anitej05/Civic-Connect/internal/pkg/response"
	"github.com/Anitej05/Civic-Connect/internal/pkg/storage"
	apperrors "github.com/Anitej05/Civic-Connect/pkg/errors"
)

// ReportRepo is the repository surface the public handlers use.
type ReportRepo interface {
	GetByID(ctx context.Context, id string) (*Report, error)
	GetByUser(ctx context.Context, userID string, page, limit int) ([]Report, int64, error)
	Upvote(ctx context.Context, id, userID string) (*Report, error)
}

type Handler struct {
	repo    ReportRepo
	service *Service
}

func NewHandler(repo ReportRepo, service *Service) *Handler {
	return &Handler{repo: repo, service: service}
}

// SmartCreate godoc
// @Summary Submit a civic issue report
// @Description Accepts a free-text description and/or a photo plus coordinates, classifies the issue, and files the report
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param description formData string false "What the citizen observed"
// @Param latitude formData number true "Latitude"
// @Param longitude formData number true "Longitude"
// @Param address formData string false "Free-form address"
// @Param image formData file false "Photo of the issue"
// @Param image_url formData string false "Pre-hosted photo URL (skips upload)"
// @Success 201 {object} response.SuccessResponse{data=reports.Report}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /reports/smart-create [post]
func (h *Handler) SmartCreate(c *gin.Context) {
	userID := c.GetString("userID")

	lat, err := strconv.ParseFloat(c.PostForm("latitude"), 64)
	if err != nil {
		response.BadRequest(c, "latitude is required and must be a number", "INVALID_COORDINATES")
		return
	}
	lng, err := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if err != nil {
		response.BadRequest(c, "longitude is required and must be a number", "INVALID_COORDINATES")
		return
	}

	in := SubmitInput{
		UserID:    userID,
		Text:      strings.TrimSpace(c.PostForm("description")),
		Latitude:  lat,
		Longitude: lng,
		Address:   strings.TrimSpace(c.PostForm("address")),
		ImageURL:  strings.TrimSpace(c.PostForm("image_url")),
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		if fileHeader.Size > storage.MaxImageSize {
			response.BadRequest(c, "image exceeds the 10MB limit", "IMAGE_TOO_LARGE")
			return
		}
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !storage.ValidImageExt(ext) {
			response.BadRequest(c, "image must be jpg, jpeg, png, gif, or webp", "INVALID_IMAGE_TYPE")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			response.BadRequest(c, "failed to read uploaded image", "INVALID_IMAGE")
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			response.BadRequest(c, "failed to read uploaded image", "INVALID_IMAGE")
			return
		}
		in.Image = data
		in.ImageExt = ext
	}

	report, err := h.service.Submit(c.Request.Context(), in)
	if err != nil {
		respondSubmitError(c, err)
		return
	}

	response.Created(c, report)
}

// Nearby godoc
// @Summary Reports near a location
// @Description Returns reports within max_distance_meters of the given point, closest first
// @Tags reports
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param max_distance_meters query number false "Search radius in meters (default 2000, max 50000)"
// @Param limit query int false "Maximum results (default 50, max 200)"
// @Success 200 {object} response.SuccessResponse{data=[]reports.Report}
// @Failure 400 {object} response.ErrorResponse
// @Router /reports/nearby [get]
func (h *Handler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "lat is required and must be a number", "INVALID_COORDINATES")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		response.BadRequest(c, "lng is required and must be a number", "INVALID_COORDINATES")
		return
	}

	radius, _ := strconv.ParseFloat(c.DefaultQuery("max_distance_meters", "2000"), 64)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	results, err := h.service.Nearby(c.Request.Context(), lat, lng, radius, limit)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidLocation) {
			response.BadRequest(c, "coordinates out of range", "INVALID_COORDINATES")
			return
		}
		response.InternalServerError(c, "Failed to query nearby reports", "DATABASE_ERROR")
		return
	}

	response.Success(c, results)
}

// MyReports godoc
// @Summary The authenticated citizen's reports
// @Description Returns the caller's reports, newest first
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 10, max 200)"
// @Success 200 {object} response.PaginatedResponse{data=[]reports.Report}
// @Failure 401 {object} response.ErrorResponse
// @Router /reports/my-reports [get]
func (h *Handler) MyReports(c *gin.Context) {
	userID := c.GetString("userID")

	pg := pagination.FromRequest(c.Query("page"), c.Query("limit"))

	list, total, err := h.repo.GetByUser(c.Request.Context(), userID, pg.Page, pg.Limit)
	if err != nil {
		response.InternalServerError(c, "Failed to fetch reports", "DATABASE_ERROR")
		return
	}

	response.Paginated(c, list, total, pg.Limit, pg.Page)
}

// Get godoc
// @Summary Get a report by ID
// @Tags reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.SuccessResponse{data=reports.Report}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /reports/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	report, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Report not found", "REPORT_NOT_FOUND")
			return
		}
		if errors.Is(err, apperrors.ErrBadRequest) {
			response.BadRequest(c, "Invalid report id", "INVALID_ID")
			return
		}
		response.InternalServerError(c, "Failed to fetch report", "DATABASE_ERROR")
		return
	}

	response.Success(c, report)
}

// Upvote godoc
// @Summary Upvote a report
// @Description Records one vote per user per report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} response.SuccessResponse{data=reports.Report}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /reports/{id}/upvote [post]
func (h *Handler) Upvote(c *gin.Context) {
	userID := c.GetString("userID")

	report, err := h.repo.Upvote(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyVoted):
			response.Conflict(c, "You have already upvoted this report", "ALREADY_VOTED")
		case errors.Is(err, apperrors.ErrNotFound):
			response.NotFound(c, "Report not found", "REPORT_NOT_FOUND")
		case errors.Is(err, apperrors.ErrBadRequest):
			response.BadRequest(c, "Invalid report id", "INVALID_ID")
		default:
			response.InternalServerError(c, "Failed to upvote report", "DATABASE_ERROR")
		}
		return
	}

	response.Success(c, report)
}

func respondSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidLocation):
		response.BadRequest(c, "coordinates out of range", "INVALID_COORDINATES")
	case errors.Is(err, apperrors.ErrValidation):
		response.ValidationError(c, err.Error(), "VALIDATION_FAILED")
	case errors.Is(err, apperrors.ErrMediaStorage):
		response.Error(c, 502, "Failed to store the uploaded photo", "MEDIA_STORAGE_FAILED")
	default:
		response.InternalServerError(c, "Failed to create report", "DATABASE_ERROR")
	}
}
