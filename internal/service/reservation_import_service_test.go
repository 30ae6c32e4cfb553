package service

import (
	"bytes"
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rahullipl2023/assignafield/internal/dto"
	"github.com/rahullipl2023/assignafield/internal/models"
	"github.com/rahullipl2023/assignafield/pkg/jobs"
)

type fakeFieldResolver struct{ fields map[string]models.Field }

func (f *fakeFieldResolver) FindByClubAndName(_ context.Context, _ string, name string) (*models.Field, error) {
	field, ok := f.fields[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &field, nil
}

type fakeReservationWriter struct{ upserts []models.Reservation }

func (f *fakeReservationWriter) Upsert(_ context.Context, reservation *models.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	f.upserts = append(f.upserts, *reservation)
	return nil
}

type fakeWiper struct{ dates [][]string }

func (f *fakeWiper) DeleteByClubAndDates(_ context.Context, _ string, dates []string) (int64, error) {
	f.dates = append(f.dates, dates)
	return int64(len(dates)), nil
}

type fakeQueue struct{ enqueued []jobs.Job }

func (f *fakeQueue) Enqueue(job jobs.Job) error {
	f.enqueued = append(f.enqueued, job)
	return nil
}

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	workbook := excelize.NewFile()
	defer workbook.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, workbook.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := workbook.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func newImportHarness() (*ReservationImportService, *fakeReservationWriter, *fakeWiper, *fakeWiper, *fakeQueue) {
	fields := &fakeFieldResolver{fields: map[string]models.Field{
		"main": {ID: "f1", ClubID: "c1", Name: "Main"},
	}}
	reservations := &fakeReservationWriter{}
	scheduleWipes := &fakeWiper{}
	slotWipes := &fakeWiper{}
	queue := &fakeQueue{}
	svc := NewReservationImportService(fields, reservations, scheduleWipes, slotWipes, queue, zap.NewNop(), ReservationImportConfig{})
	return svc, reservations, scheduleWipes, slotWipes, queue
}

func TestImportAcceptsValidRowsAndQueuesGeneration(t *testing.T) {
	svc, reservations, scheduleWipes, slotWipes, queue := newImportHarness()

	buf := buildWorkbook(t, [][]interface{}{
		{"Field", "Date", "Start Time", "End Time"},
		{"Main", "2026-09-07", "09:00", "11:00"},
		{"Main", "2026-09-09", "14:00", "16:00"},
	})

	summary, err := svc.Import(context.Background(), "c1", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Imported)
	assert.Empty(t, summary.Skipped)
	assert.Equal(t, []string{"2026-09-07", "2026-09-09"}, summary.Dates)
	require.Len(t, reservations.upserts, 2)
	assert.Equal(t, "f1", reservations.upserts[0].FieldID)

	// Replace-on-reimport wipes both schedules and ledgers for the dates.
	require.Len(t, scheduleWipes.dates, 1)
	assert.Equal(t, summary.Dates, scheduleWipes.dates[0])
	require.Len(t, slotWipes.dates, 1)
	assert.Equal(t, summary.Dates, slotWipes.dates[0])

	require.Len(t, queue.enqueued, 1)
	job := queue.enqueued[0]
	assert.Equal(t, jobs.TypeGenerateSchedules, job.Type)
	assert.Equal(t, job.ID, summary.JobID)
	payload, ok := job.Payload.(dto.GenerateSchedulesPayload)
	require.True(t, ok)
	assert.Equal(t, "c1", payload.ClubID)
	assert.Equal(t, summary.ReservationIDs, payload.ReservationIDs)
}

func TestImportReportsSkippedRows(t *testing.T) {
	svc, reservations, _, _, queue := newImportHarness()

	buf := buildWorkbook(t, [][]interface{}{
		{"Field", "Date", "Start Time", "End Time"},
		{"Main", "2026-09-07", "09:00", "11:00"},
		{"Unknown Pitch", "2026-09-07", "09:00", "11:00"},
		{"Main", "07/09/2026", "09:00", "11:00"},
		{"Main", "2026-09-08", "11:00", "09:00"},
	})

	summary, err := svc.Import(context.Background(), "c1", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	require.Len(t, summary.Skipped, 3)
	assert.Equal(t, 3, summary.Skipped[0].Row)
	assert.Contains(t, summary.Skipped[0].Reason, "unknown field")
	assert.Contains(t, summary.Skipped[1].Reason, "invalid date")
	assert.Contains(t, summary.Skipped[2].Reason, "end time must be after start time")

	assert.Len(t, reservations.upserts, 1)
	assert.Len(t, queue.enqueued, 1)
}

func TestImportFailsWhenNothingImportable(t *testing.T) {
	svc, _, scheduleWipes, _, queue := newImportHarness()

	buf := buildWorkbook(t, [][]interface{}{
		{"Field", "Date", "Start Time", "End Time"},
		{"Unknown Pitch", "2026-09-07", "09:00", "11:00"},
	})

	summary, err := svc.Import(context.Background(), "c1", bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
	assert.Equal(t, 0, summary.Imported)
	assert.Empty(t, scheduleWipes.dates)
	assert.Empty(t, queue.enqueued)
}

func TestImportRejectsMissingHeader(t *testing.T) {
	svc, _, _, _, _ := newImportHarness()

	buf := buildWorkbook(t, [][]interface{}{
		{"Field", "Date", "Start"},
		{"Main", "2026-09-07", "09:00"},
	})

	_, err := svc.Import(context.Background(), "c1", bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header row")
}

func TestImportRejectsNonWorkbook(t *testing.T) {
	svc, _, _, _, _ := newImportHarness()
	_, err := svc.Import(context.Background(), "c1", strings.NewReader("not an xlsx"))
	assert.Error(t, err)
}
