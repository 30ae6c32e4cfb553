package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahullipl2023/assignafield/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func scheduleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "club_id", "team_id", "coach_id", "field_id", "reservation_id", "schedule_date",
		"ideal_start_time", "start_time", "end_time", "length_minutes", "portion_index", "field_portion",
		"created_at", "updated_at",
	})
}

func TestScheduleRepositoryExistsFor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM schedules WHERE club_id = $1 AND team_id = $2 AND schedule_date = $3")).
		WithArgs("c1", "t1", "2026-09-07").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsFor(context.Background(), "c1", "t1", "2026-09-07")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM schedules WHERE club_id = $1 AND team_id = $2 AND schedule_date = $3")).
		WithArgs("c1", "t1", "2026-09-08").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.ExistsFor(context.Background(), "c1", "t1", "2026-09-08")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindOverlapping(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	now := time.Now()
	rows := scheduleRows().
		AddRow("s1", "c1", "t1", "co1", "f1", "r1", "2026-09-07", "09:00", "09:00", "10:30", 90, 1, "1/2", now, now)
	mock.ExpectQuery("SELECT .* FROM schedules WHERE club_id = .* AND start_time < .* AND end_time > .* ORDER BY start_time ASC").
		WithArgs("c1", "f1", "2026-09-07", "10:00", "11:00").
		WillReturnRows(rows)

	overlapping, err := repo.FindOverlapping(context.Background(), "c1", "f1", "2026-09-07", "10:00", "11:00")
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, "s1", overlapping[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))

	sched := &models.Schedule{
		ClubID:        "c1",
		TeamID:        "t1",
		FieldID:       "f1",
		ReservationID: "r1",
		ScheduleDate:  "2026-09-07",
		StartTime:     "09:00",
		EndTime:       "10:30",
		LengthMinutes: 90,
		PortionIndex:  1,
		FieldPortion:  "1/2",
	}
	require.NoError(t, repo.Upsert(context.Background(), sched))
	assert.NotEmpty(t, sched.ID)
	assert.False(t, sched.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryDeleteByClubAndDates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("DELETE FROM schedules WHERE club_id = .* AND schedule_date IN").
		WithArgs("c1", "2026-09-07", "2026-09-08").
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.DeleteByClubAndDates(context.Background(), "c1", []string{"2026-09-07", "2026-09-08"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)

	// No dates means nothing to do and no query.
	affected, err = repo.DeleteByClubAndDates(context.Background(), "c1", nil)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListDetailed(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "club_id", "team_id", "coach_id", "field_id", "reservation_id", "schedule_date",
		"ideal_start_time", "start_time", "end_time", "length_minutes", "portion_index", "field_portion",
		"created_at", "updated_at", "team_name", "coach_name", "field_name",
	}).AddRow("s1", "c1", "t1", "co1", "f1", "r1", "2026-09-07", "09:00", "09:00", "10:30", 90, 1, "1/2", now, now, "Team A", "Coach A", "Main")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.club_id, s.team_id,")).
		WithArgs("c1", "t1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedules s")).
		WithArgs("c1", "t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	details, total, err := repo.ListDetailed(context.Background(), models.ScheduleFilter{ClubID: "c1", TeamID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, details, 1)
	assert.Equal(t, "Team A", details[0].TeamName)
	assert.Equal(t, "Main", details[0].FieldName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
