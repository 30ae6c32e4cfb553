package models

import "time"

// Schedule is one assigned practice for a team on a reservation. A team holds
// at most one schedule per club per date.
type Schedule struct {
	ID             string    `db:"id" json:"id"`
	ClubID         string    `db:"club_id" json:"club_id"`
	TeamID         string    `db:"team_id" json:"team_id"`
	CoachID        *string   `db:"coach_id" json:"coach_id,omitempty"`
	FieldID        string    `db:"field_id" json:"field_id"`
	ReservationID  string    `db:"reservation_id" json:"reservation_id"`
	ScheduleDate   string    `db:"schedule_date" json:"schedule_date"`
	IdealStartTime string    `db:"ideal_start_time" json:"ideal_start_time"`
	StartTime      string    `db:"start_time" json:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time"`
	LengthMinutes  int       `db:"length_minutes" json:"length_minutes"`
	PortionIndex   int       `db:"portion_index" json:"portion_index"`
	FieldPortion   string    `db:"field_portion" json:"field_portion"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleFilter narrows schedule listings.
type ScheduleFilter struct {
	ClubID   string
	TeamID   string
	CoachID  string
	FieldID  string
	DateFrom string
	DateTo   string
	Page     int
	PageSize int
}

// ScheduleDetail is a schedule joined with its display names for listings and
// exports.
type ScheduleDetail struct {
	Schedule
	TeamName  string  `db:"team_name" json:"team_name"`
	CoachName *string `db:"coach_name" json:"coach_name,omitempty"`
	FieldName string  `db:"field_name" json:"field_name"`
}
