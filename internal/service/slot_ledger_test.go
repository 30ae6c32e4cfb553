package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahullipl2023/assignafield/internal/models"
)

func TestConsumePortionsSplitsAtWindowBoundaries(t *testing.T) {
	seed := seedPortions(models.Reservation{StartTime: "09:00", EndTime: "12:00"})

	result, err := consumePortions(seed, "09:30", "11:00", models.MustPortion("1/3"))
	require.NoError(t, err)

	require.Len(t, result, 3)
	assert.Equal(t, models.SlotPortion{StartTime: "09:00", EndTime: "09:30", Remaining: "1/1"}, result[0])
	assert.Equal(t, models.SlotPortion{StartTime: "09:30", EndTime: "11:00", Remaining: "2/3"}, result[1])
	assert.Equal(t, models.SlotPortion{StartTime: "11:00", EndTime: "12:00", Remaining: "1/1"}, result[2])
}

func TestConsumePortionsKeepsExhaustedRanges(t *testing.T) {
	portions := []models.SlotPortion{
		{StartTime: "09:00", EndTime: "10:00", Remaining: "1/2"},
		{StartTime: "10:00", EndTime: "11:00", Remaining: "1/1"},
	}

	result, err := consumePortions(portions, "09:00", "10:00", models.MustPortion("1/2"))
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, "0/1", result[0].Remaining)
	assert.Equal(t, "1/1", result[1].Remaining)

	// The partition still covers the whole reservation window.
	assert.Equal(t, "09:00", result[0].StartTime)
	assert.Equal(t, result[0].EndTime, result[1].StartTime)
	assert.Equal(t, "11:00", result[1].EndTime)
}

func TestConsumePortionsRejectsMalformedRemaining(t *testing.T) {
	portions := []models.SlotPortion{{StartTime: "09:00", EndTime: "10:00", Remaining: "bogus"}}
	_, err := consumePortions(portions, "09:00", "10:00", models.MustPortion("1/2"))
	assert.Error(t, err)
}

func TestPortionsAvailable(t *testing.T) {
	portions := []models.SlotPortion{
		{StartTime: "09:00", EndTime: "10:00", Remaining: "1/3"},
		{StartTime: "10:00", EndTime: "11:00", Remaining: "1/1"},
	}

	ok, err := portionsAvailable(portions, "10:00", "11:00", models.MustPortion("1/2"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = portionsAvailable(portions, "09:30", "10:30", models.MustPortion("1/2"))
	require.NoError(t, err)
	assert.False(t, ok)

	// Ranges outside the window do not matter.
	ok, err = portionsAvailable(portions, "10:00", "10:30", models.MustPortion("1/1"))
	require.NoError(t, err)
	assert.True(t, ok)
}
