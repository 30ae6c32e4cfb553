package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SlotLedger tracks how much of a reservation's field capacity remains, as an
// ordered partition of the reservation window into sub-ranges with their
// remaining fractions.
type SlotLedger struct {
	ID            string         `db:"id" json:"id"`
	ClubID        string         `db:"club_id" json:"club_id"`
	ReservationID string         `db:"reservation_id" json:"reservation_id"`
	FieldID       string         `db:"field_id" json:"field_id"`
	LedgerDate    string         `db:"ledger_date" json:"ledger_date"`
	Portions      types.JSONText `db:"portions" json:"portions"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// SlotPortion is one contiguous sub-range of a reservation and its remaining
// capacity. Remaining is a canonical "n/d" fraction string.
type SlotPortion struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Remaining string `json:"remaining"`
}

// RemainingPortion parses the remaining fraction.
func (p SlotPortion) RemainingPortion() (Portion, error) {
	return ParsePortion(p.Remaining)
}

// DecodePortions unpacks the stored portion list.
func (l *SlotLedger) DecodePortions() ([]SlotPortion, error) {
	if len(l.Portions) == 0 {
		return nil, nil
	}
	var portions []SlotPortion
	if err := json.Unmarshal(l.Portions, &portions); err != nil {
		return nil, fmt.Errorf("decode slot portions: %w", err)
	}
	return portions, nil
}

// EncodePortions packs a portion list for storage.
func (l *SlotLedger) EncodePortions(portions []SlotPortion) error {
	raw, err := json.Marshal(portions)
	if err != nil {
		return fmt.Errorf("encode slot portions: %w", err)
	}
	l.Portions = raw
	return nil
}
