package models

import "time"

// Coach represents a club coach with a daily coaching window.
type Coach struct {
	ID                   string    `db:"id" json:"id"`
	ClubID               string    `db:"club_id" json:"club_id"`
	Name                 string    `db:"name" json:"name"`
	CoachingStartTime    string    `db:"coaching_start_time" json:"coaching_start_time"`
	CoachingEndTime      string    `db:"coaching_end_time" json:"coaching_end_time"`
	MaxSimultaneousTeams int       `db:"max_simultaneous_teams" json:"max_simultaneous_teams"`
	Active               bool      `db:"active" json:"active"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
