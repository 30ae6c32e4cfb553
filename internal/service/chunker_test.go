package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahullipl2023/assignafield/internal/models"
)

func slotOn(id, date, start, end string) reservationSlot {
	return reservationSlot{
		Reservation: models.Reservation{ID: id, ReservationDate: date, StartTime: start, EndTime: end},
		Field:       models.Field{ID: "f1"},
	}
}

func TestChunkReservationsGroupsByWeek(t *testing.T) {
	// 2026-09-07 is a Monday; 2026-09-14 starts the next week.
	buckets := chunkReservations([]reservationSlot{
		slotOn("r3", "2026-09-14", "09:00", "11:00"),
		slotOn("r1", "2026-09-07", "09:00", "11:00"),
		slotOn("r2", "2026-09-09", "09:00", "11:00"),
	})

	require.Len(t, buckets, 2)
	assert.Equal(t, "2026-09-07", buckets[0].WeekStart)
	assert.Equal(t, "2026-09-13", buckets[0].WeekEnd)
	require.Len(t, buckets[0].Slots, 2)
	assert.Equal(t, "r1", buckets[0].Slots[0].Reservation.ID)
	assert.Equal(t, "r2", buckets[0].Slots[1].Reservation.ID)

	assert.Equal(t, "2026-09-14", buckets[1].WeekStart)
	require.Len(t, buckets[1].Slots, 1)
	assert.Equal(t, "r3", buckets[1].Slots[0].Reservation.ID)
}

func TestChunkReservationsDefersSameDateDuplicates(t *testing.T) {
	buckets := chunkReservations([]reservationSlot{
		slotOn("short", "2026-09-07", "09:00", "10:00"),
		slotOn("long", "2026-09-07", "09:00", "12:00"),
	})

	// Longer reservation wins the date; the duplicate lands in a follow-up
	// bucket of the same week.
	require.Len(t, buckets, 2)
	require.Len(t, buckets[0].Slots, 1)
	assert.Equal(t, "long", buckets[0].Slots[0].Reservation.ID)
	require.Len(t, buckets[1].Slots, 1)
	assert.Equal(t, "short", buckets[1].Slots[0].Reservation.ID)
	assert.Equal(t, buckets[0].WeekStart, buckets[1].WeekStart)
}

func TestChunkReservationsEveryReservationAppearsOnce(t *testing.T) {
	input := []reservationSlot{
		slotOn("a", "2026-09-07", "09:00", "10:00"),
		slotOn("b", "2026-09-07", "10:00", "11:00"),
		slotOn("c", "2026-09-07", "11:00", "12:00"),
		slotOn("d", "2026-09-08", "09:00", "10:00"),
	}
	buckets := chunkReservations(input)

	seen := map[string]int{}
	for _, bucket := range buckets {
		for _, slot := range bucket.Slots {
			seen[slot.Reservation.ID]++
		}
	}
	require.Len(t, seen, len(input))
	for id, count := range seen {
		assert.Equalf(t, 1, count, "reservation %s chunked %d times", id, count)
	}
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "monday", weekdayName("2026-09-07"))
	assert.Equal(t, "sunday", weekdayName("2026-09-13"))
	assert.Equal(t, "", weekdayName("not-a-date"))
}

func TestRankTeams(t *testing.T) {
	coachA := "coach-a"
	coachB := "coach-b"
	teams := []models.Team{
		{ID: "t1", CoachID: &coachA, PracticeLength: 60},
		{ID: "t2", CoachID: &coachB, PracticeLength: 90},
		{ID: "t3", CoachID: &coachB, PracticeLength: 60},
		{ID: "t4", CoachID: nil, PracticeLength: 120},
	}

	ranked := rankTeams(teams)

	// Coach B has two teams, so its group goes first; the stable sort by
	// practice length then lifts t2 to the front. Teams without a coach are
	// dropped.
	require.Len(t, ranked, 3)
	assert.Equal(t, "t2", ranked[0].ID)
	assert.Equal(t, "t3", ranked[1].ID)
	assert.Equal(t, "t1", ranked[2].ID)
}
