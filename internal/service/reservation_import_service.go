package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rahullipl2023/assignafield/internal/dto"
	"github.com/rahullipl2023/assignafield/internal/models"
	appErrors "github.com/rahullipl2023/assignafield/pkg/errors"
	"github.com/rahullipl2023/assignafield/pkg/jobs"
)

type importFieldResolver interface {
	FindByClubAndName(ctx context.Context, clubID, name string) (*models.Field, error)
}

type reservationWriter interface {
	Upsert(ctx context.Context, reservation *models.Reservation) error
}

type scheduleWiper interface {
	DeleteByClubAndDates(ctx context.Context, clubID string, dates []string) (int64, error)
}

type slotLedgerWiper interface {
	DeleteByClubAndDates(ctx context.Context, clubID string, dates []string) (int64, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// ReservationImportService ingests reservation spreadsheets. Each sheet row
// carries a field name, a date and a time window; accepted rows are upserted,
// prior schedules and ledgers on the affected dates are wiped, and a
// generation job is queued for the new batch.
type ReservationImportService struct {
	fields       importFieldResolver
	reservations reservationWriter
	schedules    scheduleWiper
	slots        slotLedgerWiper
	queue        jobEnqueuer
	logger       *zap.Logger
	sheetName    string
	maxRows      int
}

// ReservationImportConfig governs importer behaviour.
type ReservationImportConfig struct {
	// SheetName selects the worksheet to read; empty means the first sheet.
	SheetName string
	// MaxRows caps how many data rows one upload may carry.
	MaxRows int
}

// NewReservationImportService wires importer dependencies.
func NewReservationImportService(
	fields importFieldResolver,
	reservations reservationWriter,
	schedules scheduleWiper,
	slots slotLedgerWiper,
	queue jobEnqueuer,
	logger *zap.Logger,
	cfg ReservationImportConfig,
) *ReservationImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 5000
	}
	return &ReservationImportService{
		fields:       fields,
		reservations: reservations,
		schedules:    schedules,
		slots:        slots,
		queue:        queue,
		logger:       logger,
		sheetName:    cfg.SheetName,
		maxRows:      cfg.MaxRows,
	}
}

// expected header labels, matched case-insensitively in any column order.
const (
	headerField = "field"
	headerDate  = "date"
	headerStart = "start time"
	headerEnd   = "end time"
)

// Import reads an xlsx upload and returns a summary of accepted and skipped
// rows. Row-level problems never abort the upload; they are reported back.
func (s *ReservationImportService) Import(ctx context.Context, clubID string, upload io.Reader) (*dto.ImportSummary, error) {
	if clubID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "club id is required")
	}

	workbook, err := excelize.OpenReader(upload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrImport.Code, appErrors.ErrImport.Status, "file is not a readable xlsx workbook")
	}
	defer workbook.Close()

	sheet := s.sheetName
	if sheet == "" {
		sheet = workbook.GetSheetName(0)
	}
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrImport.Code, appErrors.ErrImport.Status, fmt.Sprintf("worksheet %q not found", sheet))
	}
	if len(rows) < 2 {
		return nil, appErrors.Clone(appErrors.ErrImport, "worksheet has no data rows")
	}
	if len(rows)-1 > s.maxRows {
		return nil, appErrors.Clone(appErrors.ErrImport, fmt.Sprintf("worksheet exceeds %d rows", s.maxRows))
	}

	columns, err := mapHeaderColumns(rows[0])
	if err != nil {
		return nil, err
	}

	summary := &dto.ImportSummary{}
	dateSet := make(map[string]struct{})
	fieldCache := make(map[string]*models.Field)

	for i, row := range rows[1:] {
		rowNum := i + 2
		record, skipReason := parseReservationRow(row, columns)
		if skipReason != "" {
			summary.Skipped = append(summary.Skipped, dto.ImportSkip{Row: rowNum, Reason: skipReason})
			continue
		}

		field, err := s.resolveField(ctx, clubID, record.fieldName, fieldCache)
		if err != nil {
			return nil, err
		}
		if field == nil {
			summary.Skipped = append(summary.Skipped, dto.ImportSkip{Row: rowNum, Reason: fmt.Sprintf("unknown field %q", record.fieldName)})
			continue
		}

		reservation := models.Reservation{
			ClubID:          clubID,
			FieldID:         field.ID,
			ReservationDate: record.date,
			StartTime:       record.start,
			EndTime:         record.end,
		}
		if err := s.reservations.Upsert(ctx, &reservation); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store reservation")
		}

		summary.Imported++
		summary.ReservationIDs = append(summary.ReservationIDs, reservation.ID)
		dateSet[record.date] = struct{}{}
	}

	if summary.Imported == 0 {
		return summary, appErrors.Clone(appErrors.ErrImport, "no rows could be imported")
	}

	for date := range dateSet {
		summary.Dates = append(summary.Dates, date)
	}
	sort.Strings(summary.Dates)

	// Replace-on-reimport: old practices and ledgers on these dates are
	// regenerated from scratch by the queued run.
	if _, err := s.schedules.DeleteByClubAndDates(ctx, clubID, summary.Dates); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear schedules for re-import")
	}
	if _, err := s.slots.DeleteByClubAndDates(ctx, clubID, summary.Dates); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear slot ledgers for re-import")
	}

	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: jobs.TypeGenerateSchedules,
		Payload: dto.GenerateSchedulesPayload{
			ClubID:         clubID,
			ReservationIDs: summary.ReservationIDs,
		},
	}
	if err := s.queue.Enqueue(job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue generation run")
	}
	summary.JobID = job.ID

	s.logger.Info("reservation import accepted",
		zap.String("club_id", clubID),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", len(summary.Skipped)),
		zap.Strings("dates", summary.Dates))
	return summary, nil
}

func (s *ReservationImportService) resolveField(ctx context.Context, clubID, name string, cache map[string]*models.Field) (*models.Field, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if field, seen := cache[key]; seen {
		return field, nil
	}
	field, err := s.fields.FindByClubAndName(ctx, clubID, name)
	if errors.Is(err, sql.ErrNoRows) {
		cache[key] = nil
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve field")
	}
	cache[key] = field
	return field, nil
}

type columnIndexes struct {
	field int
	date  int
	start int
	end   int
}

func mapHeaderColumns(header []string) (columnIndexes, error) {
	columns := columnIndexes{field: -1, date: -1, start: -1, end: -1}
	for i, cell := range header {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case headerField:
			columns.field = i
		case headerDate:
			columns.date = i
		case headerStart:
			columns.start = i
		case headerEnd:
			columns.end = i
		}
	}
	if columns.field < 0 || columns.date < 0 || columns.start < 0 || columns.end < 0 {
		return columns, appErrors.Clone(appErrors.ErrImport, `header row must contain "Field", "Date", "Start Time" and "End Time"`)
	}
	return columns, nil
}

type reservationRow struct {
	fieldName string
	date      string
	start     string
	end       string
}

func parseReservationRow(row []string, columns columnIndexes) (reservationRow, string) {
	record := reservationRow{
		fieldName: cellAt(row, columns.field),
		date:      cellAt(row, columns.date),
		start:     cellAt(row, columns.start),
		end:       cellAt(row, columns.end),
	}
	if record.fieldName == "" && record.date == "" && record.start == "" && record.end == "" {
		return record, "empty row"
	}
	if record.fieldName == "" {
		return record, "missing field name"
	}
	if _, err := time.Parse("2006-01-02", record.date); err != nil {
		return record, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", record.date)
	}
	startMin, ok := models.MinutesOfDay(record.start)
	if !ok {
		return record, fmt.Sprintf("invalid start time %q, expected HH:MM", record.start)
	}
	endMin, ok := models.MinutesOfDay(record.end)
	if !ok {
		return record, fmt.Sprintf("invalid end time %q, expected HH:MM", record.end)
	}
	if endMin <= startMin {
		return record, "end time must be after start time"
	}
	return record, ""
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
