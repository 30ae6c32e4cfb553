package models

import "time"

// Reservation is a block of field time the club controls. Dates are ISO
// YYYY-MM-DD strings and times are zero-padded HH:MM strings, so lexicographic
// comparison matches chronological order.
type Reservation struct {
	ID              string    `db:"id" json:"id"`
	ClubID          string    `db:"club_id" json:"club_id"`
	FieldID         string    `db:"field_id" json:"field_id"`
	ReservationDate string    `db:"reservation_date" json:"reservation_date"`
	StartTime       string    `db:"start_time" json:"start_time"`
	EndTime         string    `db:"end_time" json:"end_time"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// DurationMinutes returns the reservation length in minutes, zero when the
// time strings do not parse.
func (r *Reservation) DurationMinutes() int {
	start, ok1 := MinutesOfDay(r.StartTime)
	end, ok2 := MinutesOfDay(r.EndTime)
	if !ok1 || !ok2 || end <= start {
		return 0
	}
	return end - start
}

// MinutesOfDay converts an HH:MM string into minutes since midnight.
func MinutesOfDay(hhmm string) (int, bool) {
	if len(hhmm) < 5 || hhmm[2] != ':' {
		return 0, false
	}
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// ClockString renders minutes since midnight as a zero-padded HH:MM string.
func ClockString(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h := minutes / 60
	m := minutes % 60
	return twoDigits(h) + ":" + twoDigits(m)
}

func twoDigits(v int) string {
	return string([]byte{byte('0' + v/10), byte('0' + v%10)})
}
