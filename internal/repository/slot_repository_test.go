package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahullipl2023/assignafield/internal/models"
)

func TestSlotRepositoryFindByReservation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "club_id", "reservation_id", "field_id", "ledger_date", "portions", "created_at", "updated_at"}).
		AddRow("l1", "c1", "r1", "f1", "2026-09-07", []byte(`[{"start_time":"09:00","end_time":"11:00","remaining":"1/2"}]`), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, club_id, reservation_id, field_id, ledger_date, portions, created_at, updated_at FROM slot_ledgers WHERE club_id = $1 AND reservation_id = $2")).
		WithArgs("c1", "r1").
		WillReturnRows(rows)

	ledger, err := repo.FindByReservation(context.Background(), "c1", "r1")
	require.NoError(t, err)
	portions, err := ledger.DecodePortions()
	require.NoError(t, err)
	require.Len(t, portions, 1)
	assert.Equal(t, "1/2", portions[0].Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryFindByReservationMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectQuery("SELECT .* FROM slot_ledgers").
		WithArgs("c1", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByReservation(context.Background(), "c1", "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectExec("INSERT INTO slot_ledgers").
		WillReturnResult(sqlmock.NewResult(1, 1))

	ledger := &models.SlotLedger{
		ClubID:        "c1",
		ReservationID: "r1",
		FieldID:       "f1",
		LedgerDate:    "2026-09-07",
	}
	require.NoError(t, ledger.EncodePortions([]models.SlotPortion{{StartTime: "09:00", EndTime: "11:00", Remaining: "1/1"}}))
	require.NoError(t, repo.Upsert(context.Background(), ledger))
	assert.NotEmpty(t, ledger.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryDeleteByClubAndDates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectExec("DELETE FROM slot_ledgers WHERE club_id = .* AND ledger_date IN").
		WithArgs("c1", "2026-09-07").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.DeleteByClubAndDates(context.Background(), "c1", []string{"2026-09-07"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.DeleteByClubAndDates(context.Background(), "c1", nil)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
