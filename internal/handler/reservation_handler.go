package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahullipl2023/assignafield/internal/dto"
	"github.com/rahullipl2023/assignafield/internal/service"
	appErrors "github.com/rahullipl2023/assignafield/pkg/errors"
	"github.com/rahullipl2023/assignafield/pkg/response"
)

type reservationImporter interface {
	Import(ctx context.Context, clubID string, upload io.Reader) (*dto.ImportSummary, error)
}

// ReservationHandler exposes reservation import endpoints.
type ReservationHandler struct {
	importer reservationImporter
	metrics  *service.MetricsService
}

// NewReservationHandler constructs the handler.
func NewReservationHandler(importer *service.ReservationImportService, metrics *service.MetricsService) *ReservationHandler {
	return &ReservationHandler{importer: importer, metrics: metrics}
}

// Import godoc
// @Summary Import a reservation spreadsheet
// @Description Accepts an xlsx upload with Field/Date/Start Time/End Time columns, replaces prior schedules on the affected dates and queues a generation run.
// @Tags Reservations
// @Accept multipart/form-data
// @Produce json
// @Param clubId path string true "Club ID"
// @Param file formData file true "Reservation workbook (xlsx)"
// @Success 202 {object} response.Envelope
// @Router /clubs/{clubId}/reservations/import [post]
func (h *ReservationHandler) Import(c *gin.Context) {
	clubID := c.Param("clubId")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, `multipart field "file" is required`))
		return
	}
	upload, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "uploaded file could not be opened"))
		return
	}
	defer upload.Close()

	summary, err := h.importer.Import(c.Request.Context(), clubID, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordImport()
	response.Accepted(c, summary)
}
