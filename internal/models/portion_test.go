package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePortion(t *testing.T) {
	p, err := ParsePortion("2/4")
	require.NoError(t, err)
	assert.Equal(t, "1/2", p.String())

	p, err = ParsePortion("1")
	require.NoError(t, err)
	assert.Equal(t, "1/1", p.String())

	p, err = ParsePortion(" 3 / 9 ")
	require.NoError(t, err)
	assert.Equal(t, "1/3", p.String())

	_, err = ParsePortion("")
	assert.Error(t, err)
	_, err = ParsePortion("1/0")
	assert.Error(t, err)
	_, err = ParsePortion("-1/2")
	assert.Error(t, err)
	_, err = ParsePortion("a/b")
	assert.Error(t, err)
}

func TestPortionSub(t *testing.T) {
	full := MustPortion("1/1")
	third := MustPortion("1/3")

	remaining := full.Sub(third)
	assert.Equal(t, "2/3", remaining.String())

	remaining = remaining.Sub(third)
	assert.Equal(t, "1/3", remaining.String())

	remaining = remaining.Sub(third)
	assert.Equal(t, "0/1", remaining.String())
	assert.False(t, remaining.IsPositive())

	// Over-subtraction floors at zero.
	assert.Equal(t, "0/1", remaining.Sub(third).String())
}

func TestPortionCmp(t *testing.T) {
	assert.Equal(t, -1, MustPortion("1/3").Cmp(MustPortion("1/2")))
	assert.Equal(t, 1, MustPortion("3/4").Cmp(MustPortion("2/3")))
	assert.Equal(t, 0, MustPortion("2/4").Cmp(MustPortion("1/2")))
}

func TestMinutesOfDay(t *testing.T) {
	minutes, ok := MinutesOfDay("09:30")
	require.True(t, ok)
	assert.Equal(t, 570, minutes)

	_, ok = MinutesOfDay("9:30")
	assert.False(t, ok)
	_, ok = MinutesOfDay("25:00")
	assert.False(t, ok)
	_, ok = MinutesOfDay("")
	assert.False(t, ok)

	assert.Equal(t, "09:30", ClockString(570))
	assert.Equal(t, "00:00", ClockString(0))
}
