package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rahullipl2023/assignafield/internal/dto"
	"github.com/rahullipl2023/assignafield/internal/models"
	"github.com/rahullipl2023/assignafield/internal/service"
	appErrors "github.com/rahullipl2023/assignafield/pkg/errors"
	"github.com/rahullipl2023/assignafield/pkg/jobs"
	"github.com/rahullipl2023/assignafield/pkg/response"
)

type scheduleQuerier interface {
	List(ctx context.Context, clubID string, query dto.ScheduleQuery) ([]models.ScheduleDetail, models.Pagination, error)
	Export(ctx context.Context, clubID string, query dto.ScheduleQuery, format string) (*service.ExportResult, error)
	Status(ctx context.Context, clubID string) (*dto.GenerationStatus, error)
}

type generationEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// ScheduleHandler exposes schedule listing, export, status and manual
// generation endpoints.
type ScheduleHandler struct {
	queries scheduleQuerier
	queue   generationEnqueuer
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(queries *service.ScheduleQueryService, queue *jobs.Queue) *ScheduleHandler {
	return &ScheduleHandler{queries: queries, queue: queue}
}

// Generate godoc
// @Summary Queue a practice generation run
// @Description Queues allocation of practices over the given reservations. Returns 409 while a run for the club is already in flight.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param clubId path string true "Club ID"
// @Param payload body dto.GenerateSchedulesRequest true "Generate payload"
// @Success 202 {object} response.Envelope
// @Router /clubs/{clubId}/schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	clubID := c.Param("clubId")
	var req dto.GenerateSchedulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	status, err := h.queries.Status(c.Request.Context(), clubID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if status.Generating {
		response.Error(c, appErrors.Clone(appErrors.ErrConflict, "a generation run is already in progress for this club"))
		return
	}

	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: jobs.TypeGenerateSchedules,
		Payload: dto.GenerateSchedulesPayload{
			ClubID:         clubID,
			ReservationIDs: req.ReservationIDs,
		},
	}
	if err := h.queue.Enqueue(job); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue generation run"))
		return
	}
	response.Accepted(c, gin.H{"jobId": job.ID})
}

// List godoc
// @Summary List generated schedules
// @Tags Schedules
// @Produce json
// @Param clubId path string true "Club ID"
// @Param teamId query string false "Filter by team"
// @Param coachId query string false "Filter by coach"
// @Param fieldId query string false "Filter by field"
// @Param dateFrom query string false "Earliest date (YYYY-MM-DD)"
// @Param dateTo query string false "Latest date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /clubs/{clubId}/schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var query dto.ScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule query"))
		return
	}
	details, pagination, err := h.queries.List(c.Request.Context(), c.Param("clubId"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, &pagination)
}

// Export godoc
// @Summary Export schedules as CSV or PDF
// @Tags Schedules
// @Produce octet-stream
// @Param clubId path string true "Club ID"
// @Param format query string true "Export format (csv or pdf)"
// @Param dateFrom query string false "Earliest date (YYYY-MM-DD)"
// @Param dateTo query string false "Latest date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /clubs/{clubId}/schedules/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	var query dto.ScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule query"))
		return
	}
	result, err := h.queries.Export(c.Request.Context(), c.Param("clubId"), query, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// Status godoc
// @Summary Report whether a generation run is in flight
// @Tags Schedules
// @Produce json
// @Param clubId path string true "Club ID"
// @Success 200 {object} response.Envelope
// @Router /clubs/{clubId}/schedules/status [get]
func (h *ScheduleHandler) Status(c *gin.Context) {
	status, err := h.queries.Status(c.Request.Context(), c.Param("clubId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
