package models

import "time"

// DefaultFieldCapacity is assumed when a field row carries no capacity.
const DefaultFieldCapacity = 8

// Field represents a playing surface owned by a club.
type Field struct {
	ID        string    `db:"id" json:"id"`
	ClubID    string    `db:"club_id" json:"club_id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Region    string    `db:"region" json:"region"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EffectiveCapacity returns the capacity used for packing decisions.
func (f *Field) EffectiveCapacity() int {
	if f.Capacity <= 0 {
		return DefaultFieldCapacity
	}
	return f.Capacity
}
