package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// Team represents a practicing team inside a club.
type Team struct {
	ID                 string         `db:"id" json:"id"`
	ClubID             string         `db:"club_id" json:"club_id"`
	CoachID            *string        `db:"coach_id" json:"coach_id,omitempty"`
	Name               string         `db:"name" json:"name"`
	PracticeLength     int            `db:"practice_length" json:"practice_length"`
	MinimumLength      int            `db:"minimum_length" json:"minimum_length"`
	PreferredFieldSize string         `db:"preferred_field_size" json:"preferred_field_size"`
	PreferredDays      pq.StringArray `db:"preferred_days" json:"preferred_days"`
	PreferredStartTime string         `db:"preferred_start_time" json:"preferred_start_time"`
	PreferredEndTime   string         `db:"preferred_end_time" json:"preferred_end_time"`
	Region             string         `db:"region" json:"region"`
	TravelWindows      types.JSONText `db:"travel_windows" json:"travel_windows,omitempty"`
	Active             bool           `db:"active" json:"active"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// TravelWindow is one blackout range during which a team cannot practice.
// Dates are ISO YYYY-MM-DD, inclusive on both ends.
type TravelWindow struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// TravelBlackouts decodes the stored travel windows. Malformed payloads yield
// no blackouts rather than an error; a bad window must not sink a whole run.
func (t *Team) TravelBlackouts() []TravelWindow {
	if len(t.TravelWindows) == 0 {
		return nil
	}
	var windows []TravelWindow
	_ = json.Unmarshal(t.TravelWindows, &windows)
	return windows
}
