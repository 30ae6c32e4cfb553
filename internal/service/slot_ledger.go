package service

import (
	"fmt"

	"github.com/rahullipl2023/assignafield/internal/models"
)

// consumePortions subtracts a consumed fraction from every ledger sub-range
// the practice window covers, splitting sub-ranges at the window boundaries
// first. Sub-ranges that reach zero remaining are kept so the list always
// partitions the reservation window.
func consumePortions(portions []models.SlotPortion, startTime, endTime string, consumed models.Portion) ([]models.SlotPortion, error) {
	var result []models.SlotPortion
	for _, portion := range portions {
		// No overlap with the practice window, keep as is.
		if portion.EndTime <= startTime || portion.StartTime >= endTime {
			result = append(result, portion)
			continue
		}

		remaining, err := portion.RemainingPortion()
		if err != nil {
			return nil, fmt.Errorf("ledger range %s-%s: %w", portion.StartTime, portion.EndTime, err)
		}

		if portion.StartTime < startTime {
			result = append(result, models.SlotPortion{
				StartTime: portion.StartTime,
				EndTime:   startTime,
				Remaining: remaining.String(),
			})
		}

		coveredStart := maxTime(portion.StartTime, startTime)
		coveredEnd := minTime(portion.EndTime, endTime)
		result = append(result, models.SlotPortion{
			StartTime: coveredStart,
			EndTime:   coveredEnd,
			Remaining: remaining.Sub(consumed).String(),
		})

		if portion.EndTime > endTime {
			result = append(result, models.SlotPortion{
				StartTime: endTime,
				EndTime:   portion.EndTime,
				Remaining: remaining.String(),
			})
		}
	}
	return result, nil
}

// portionsAvailable reports whether every ledger sub-range overlapping the
// window still has at least the requested fraction left.
func portionsAvailable(portions []models.SlotPortion, startTime, endTime string, needed models.Portion) (bool, error) {
	for _, portion := range portions {
		if portion.EndTime <= startTime || portion.StartTime >= endTime {
			continue
		}
		remaining, err := portion.RemainingPortion()
		if err != nil {
			return false, fmt.Errorf("ledger range %s-%s: %w", portion.StartTime, portion.EndTime, err)
		}
		if remaining.Cmp(needed) < 0 {
			return false, nil
		}
	}
	return true, nil
}

// seedPortions builds the initial full-capacity ledger for a reservation.
func seedPortions(reservation models.Reservation) []models.SlotPortion {
	return []models.SlotPortion{{
		StartTime: reservation.StartTime,
		EndTime:   reservation.EndTime,
		Remaining: "1/1",
	}}
}

func maxTime(a, b string) string {
	if a > b {
		return a
	}
	return b
}

func minTime(a, b string) string {
	if a < b {
		return a
	}
	return b
}
