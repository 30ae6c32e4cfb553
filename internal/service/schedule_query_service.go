package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rahullipl2023/assignafield/internal/dto"
	"github.com/rahullipl2023/assignafield/internal/models"
	appErrors "github.com/rahullipl2023/assignafield/pkg/errors"
	"github.com/rahullipl2023/assignafield/pkg/export"
)

type detailedScheduleLister interface {
	ListDetailed(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleDetail, int, error)
}

type generationStatusReader interface {
	IsGenerating(ctx context.Context, clubID string) (bool, error)
}

// ScheduleQueryService serves schedule listings, exports and run status.
type ScheduleQueryService struct {
	schedules detailedScheduleLister
	status    generationStatusReader
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewScheduleQueryService wires query dependencies.
func NewScheduleQueryService(schedules detailedScheduleLister, status generationStatusReader, logger *zap.Logger) *ScheduleQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleQueryService{
		schedules: schedules,
		status:    status,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// List returns a page of schedules with display names resolved.
func (s *ScheduleQueryService) List(ctx context.Context, clubID string, query dto.ScheduleQuery) ([]models.ScheduleDetail, models.Pagination, error) {
	if clubID == "" {
		return nil, models.Pagination{}, appErrors.Clone(appErrors.ErrValidation, "club id is required")
	}
	filter := models.ScheduleFilter{
		ClubID:   clubID,
		TeamID:   query.TeamID,
		CoachID:  query.CoachID,
		FieldID:  query.FieldID,
		DateFrom: query.DateFrom,
		DateTo:   query.DateTo,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	details, total, err := s.schedules.ListDetailed(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return details, models.NewPagination(query.Page, query.PageSize, total), nil
}

// ExportResult bundles rendered export bytes with response metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

var exportHeaders = []string{"Date", "Team", "Coach", "Field", "Start", "End", "Length (min)", "Portion"}

// Export renders the filtered schedule set as csv or pdf. Exports are not
// paginated; the full filtered set is rendered.
func (s *ScheduleQueryService) Export(ctx context.Context, clubID string, query dto.ScheduleQuery, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	query.Page = 1
	query.PageSize = 200
	dataset := export.Dataset{Headers: exportHeaders}
	for {
		details, page, err := s.List(ctx, clubID, query)
		if err != nil {
			return nil, err
		}
		for _, detail := range details {
			dataset.Rows = append(dataset.Rows, exportRow(detail))
		}
		if query.Page >= page.TotalPages {
			break
		}
		query.Page++
	}

	switch format {
	case "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: "schedules.csv"}, nil
	default:
		content, err := s.pdf.Render(dataset, "Practice Schedules")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: "schedules.pdf"}, nil
	}
}

// Status reports whether a generation run is in flight for the club.
func (s *ScheduleQueryService) Status(ctx context.Context, clubID string) (*dto.GenerationStatus, error) {
	if clubID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "club id is required")
	}
	generating, err := s.status.IsGenerating(ctx, clubID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read generation status")
	}
	return &dto.GenerationStatus{ClubID: clubID, Generating: generating}, nil
}

func exportRow(detail models.ScheduleDetail) map[string]string {
	coach := ""
	if detail.CoachName != nil {
		coach = *detail.CoachName
	}
	return map[string]string{
		"Date":         detail.ScheduleDate,
		"Team":         detail.TeamName,
		"Coach":        coach,
		"Field":        detail.FieldName,
		"Start":        detail.StartTime,
		"End":          detail.EndTime,
		"Length (min)": fmt.Sprintf("%d", detail.LengthMinutes),
		"Portion":      detail.FieldPortion,
	}
}
