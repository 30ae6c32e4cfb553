package service

import (
	"sort"
	"time"

	"github.com/rahullipl2023/assignafield/internal/models"
)

// reservationSlot pairs a reservation with its resolved field so downstream
// checks never re-fetch field rows mid-run.
type reservationSlot struct {
	Reservation models.Reservation
	Field       models.Field
}

// weekBucket is one ISO week (Monday through Sunday) worth of reservations.
type weekBucket struct {
	WeekStart string
	WeekEnd   string
	Slots     []reservationSlot
}

// chunkReservations groups a batch into weekly buckets. Within a bucket each
// date is claimed by exactly one reservation; same-date extras are deferred to
// a follow-up bucket of the same week so every reservation lands in exactly
// one bucket. Buckets come out in ascending week order, which matters because
// assignment counts accumulate across buckets.
func chunkReservations(slots []reservationSlot) []weekBucket {
	if len(slots) == 0 {
		return nil
	}

	remaining := make([]reservationSlot, len(slots))
	copy(remaining, slots)
	sort.SliceStable(remaining, func(i, j int) bool {
		if remaining[i].Reservation.ReservationDate != remaining[j].Reservation.ReservationDate {
			return remaining[i].Reservation.ReservationDate < remaining[j].Reservation.ReservationDate
		}
		return remaining[i].Reservation.DurationMinutes() > remaining[j].Reservation.DurationMinutes()
	})

	var buckets []weekBucket
	for len(remaining) > 0 {
		weekStart, weekEnd := weekWindow(remaining[0].Reservation.ReservationDate)

		bucket := weekBucket{WeekStart: weekStart, WeekEnd: weekEnd}
		claimed := make(map[string]bool)
		var duplicates, rest []reservationSlot
		for _, slot := range remaining {
			date := slot.Reservation.ReservationDate
			if date < weekStart || date > weekEnd {
				rest = append(rest, slot)
				continue
			}
			if claimed[date] {
				duplicates = append(duplicates, slot)
				continue
			}
			claimed[date] = true
			bucket.Slots = append(bucket.Slots, slot)
		}
		buckets = append(buckets, bucket)

		// Duplicates carry dates inside the current week, so prepending
		// keeps the remainder sorted by date.
		remaining = append(duplicates, rest...)
	}
	return buckets
}

// weekWindow returns the Monday and Sunday dates of the ISO week containing
// the given date. An unparseable date yields a single-day window.
func weekWindow(date string) (string, string) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date, date
	}
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format("2006-01-02"), sunday.Format("2006-01-02")
}

// weekdayName returns the lowercase weekday of an ISO date, empty when the
// date does not parse.
func weekdayName(date string) string {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	switch day.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

// rankTeams orders teams for allocation. Teams are grouped by coach, groups
// with more teams go first so heavily loaded coaches consume their window
// before lighter ones compete for leftovers, and the flattened list is then
// stable-sorted by ideal practice length descending.
func rankTeams(teams []models.Team) []models.Team {
	byCoach := make(map[string][]models.Team)
	var coachOrder []string
	for _, team := range teams {
		if team.CoachID == nil || *team.CoachID == "" {
			continue
		}
		if _, seen := byCoach[*team.CoachID]; !seen {
			coachOrder = append(coachOrder, *team.CoachID)
		}
		byCoach[*team.CoachID] = append(byCoach[*team.CoachID], team)
	}

	sort.SliceStable(coachOrder, func(i, j int) bool {
		return len(byCoach[coachOrder[i]]) > len(byCoach[coachOrder[j]])
	})

	ranked := make([]models.Team, 0, len(teams))
	for _, coachID := range coachOrder {
		ranked = append(ranked, byCoach[coachID]...)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PracticeLength > ranked[j].PracticeLength
	})
	return ranked
}
